package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
	"github.com/iho/contractledger/internal/usecase/mocks"
)

func bookingRequest() *usecase.BookingRequest {
	entry := &domain.LedgerEntry{
		Account:        "240.sched-1",
		Book:           "SALES",
		DocumentNumber: "doc-1",
		BookDate:       time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		LineNumber:     1,
		Amount:         decimal.RequireFromString("100"),
		DocumentDate:   time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		State:          domain.StateRequested,
	}

	return &usecase.BookingRequest{
		Entry: entry,
		Fulfillment: &domain.Fulfillment{
			ID:          "ful-1",
			Entry:       entry.Key(),
			Type:        domain.FulfillmentPremium,
			BookingOfID: "sched-1",
		},
	}
}

func TestSinkRegisterConfirmsMirroredEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entries := mocks.NewMockEntryRepository(ctrl)
	fulfillments := mocks.NewMockFulfillmentRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	request := bookingRequest()

	entries.EXPECT().
		Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, entry *domain.LedgerEntry) error {
			if entry.State != domain.StateConfirmed {
				t.Errorf("mirrored state = %s, want %s", entry.State, domain.StateConfirmed)
			}
			if entry.Key() != request.Entry.Key() {
				t.Errorf("mirrored key = %s, want %s", entry.Key(), request.Entry.Key())
			}
			return nil
		})
	fulfillments.EXPECT().Create(gomock.Any(), tx, request.Fulfillment).Return(nil)

	sink := NewSink(entries, fulfillments)
	if err := sink.Register(context.Background(), tx, request); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if request.Entry.State != domain.StateRequested {
		t.Fatal("Register must not mutate the caller's entry")
	}
}

func TestSinkRegisterStopsOnEntryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entries := mocks.NewMockEntryRepository(ctrl)
	fulfillments := mocks.NewMockFulfillmentRepository(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	boom := errors.New("insert failed")
	entries.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(boom)

	sink := NewSink(entries, fulfillments)
	err := sink.Register(context.Background(), tx, bookingRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}
