package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/contractledger/internal/domain"
	"github.com/iho/contractledger/internal/usecase"
)

// MockAccountingStore is an in-memory ledger backend for engine tests. It
// implements the accounting sink, the entry and fulfillment repositories,
// the chain-state repository, and the transaction manager, with real
// transaction semantics: registered lines stay invisible to repository
// reads until the transaction commits, exactly as the session overlay
// expects.
type MockAccountingStore struct {
	mu         sync.Mutex
	confirmed  []*usecase.PostedLine
	chainState map[string]time.Time
}

func NewMockAccountingStore() *MockAccountingStore {
	return &MockAccountingStore{
		chainState: make(map[string]time.Time),
	}
}

// Lines returns every confirmed line, in posting order.
func (s *MockAccountingStore) Lines() []*usecase.PostedLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*usecase.PostedLine(nil), s.confirmed...)
}

// ResetChainState forgets every last-visited mark while keeping the
// confirmed lines, forcing the next pass to re-evaluate the full range.
func (s *MockAccountingStore) ResetChainState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainState = make(map[string]time.Time)
}

// Begin implements TransactionManager.
func (s *MockAccountingStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &storeTx{
		store:      s,
		entries:    make(map[string]*domain.LedgerEntry),
		chainState: make(map[string]time.Time),
	}, nil
}

// Register implements AccountingSink: the request is staged on the
// transaction and confirmed on commit.
func (s *MockAccountingStore) Register(ctx context.Context, tx usecase.Transaction, request *usecase.BookingRequest) error {
	t, ok := tx.(*storeTx)
	if !ok {
		return fmt.Errorf("register outside a store transaction")
	}

	t.staged = append(t.staged, &usecase.PostedLine{Entry: request.Entry, Fulfillment: request.Fulfillment})
	return nil
}

// Create implements EntryRepository.
func (s *MockAccountingStore) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	t, ok := tx.(*storeTx)
	if !ok {
		return fmt.Errorf("create outside a store transaction")
	}

	t.entries[entry.Key().String()] = entry
	return nil
}

// CreateFulfillment implements FulfillmentRepository.Create under a
// distinct name so the store can satisfy both repositories at once.
func (s *MockAccountingStore) CreateFulfillment(ctx context.Context, tx usecase.Transaction, fulfillment *domain.Fulfillment) error {
	t, ok := tx.(*storeTx)
	if !ok {
		return fmt.Errorf("create outside a store transaction")
	}

	entry, ok := t.entries[fulfillment.Entry.String()]
	if !ok {
		return fmt.Errorf("fulfillment %s has no staged entry", fulfillment.ID)
	}

	t.staged = append(t.staged, &usecase.PostedLine{Entry: entry, Fulfillment: fulfillment})
	return nil
}

// MaxDocumentDate implements EntryRepository.
func (s *MockAccountingStore) MaxDocumentDate(ctx context.Context, scheduleID string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max *time.Time
	for _, line := range s.confirmed {
		if line.Fulfillment.BookingOfID != scheduleID {
			continue
		}

		if max == nil || line.Entry.DocumentDate.After(*max) {
			d := line.Entry.DocumentDate
			max = &d
		}
	}

	return max, nil
}

// GetByEntryKey implements FulfillmentRepository, including the legacy
// line-number fallback.
func (s *MockAccountingStore) GetByEntryKey(ctx context.Context, key domain.EntryKey) (*domain.Fulfillment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.confirmed {
		if line.Fulfillment.Entry == key {
			return line.Fulfillment, nil
		}
	}

	legacy := key
	legacy.LineNumber = -1
	for _, line := range s.confirmed {
		if line.Fulfillment.Entry == legacy {
			return line.Fulfillment, nil
		}
	}

	return nil, domain.ErrFulfillmentNotFound
}

// ListForSchedule implements FulfillmentRepository with the shared filter
// semantics.
func (s *MockAccountingStore) ListForSchedule(ctx context.Context, scheduleID string, filter usecase.LineFilter) ([]*usecase.PostedLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []*usecase.PostedLine
	for _, line := range s.confirmed {
		if line.Fulfillment.BookingOfID != scheduleID {
			continue
		}

		if filter.Matches(line) {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

// LastVisited implements ChainStateRepository.
func (s *MockAccountingStore) LastVisited(ctx context.Context, scheduleID, visitor string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.chainState[scheduleID+"/"+visitor]; ok {
		return &d, nil
	}

	return nil, nil
}

// SetLastVisited implements ChainStateRepository: staged on the
// transaction, applied on commit.
func (s *MockAccountingStore) SetLastVisited(ctx context.Context, tx usecase.Transaction, scheduleID, visitor string, date time.Time) error {
	t, ok := tx.(*storeTx)
	if !ok {
		return fmt.Errorf("set chain state outside a store transaction")
	}

	t.chainState[scheduleID+"/"+visitor] = date
	return nil
}

// FulfillmentRepo adapts the store to the FulfillmentRepository interface,
// whose Create collides with EntryRepository's.
func (s *MockAccountingStore) FulfillmentRepo() usecase.FulfillmentRepository {
	return fulfillmentRepo{store: s}
}

type fulfillmentRepo struct {
	store *MockAccountingStore
}

func (r fulfillmentRepo) Create(ctx context.Context, tx usecase.Transaction, fulfillment *domain.Fulfillment) error {
	return r.store.CreateFulfillment(ctx, tx, fulfillment)
}

func (r fulfillmentRepo) GetByEntryKey(ctx context.Context, key domain.EntryKey) (*domain.Fulfillment, error) {
	return r.store.GetByEntryKey(ctx, key)
}

func (r fulfillmentRepo) ListForSchedule(ctx context.Context, scheduleID string, filter usecase.LineFilter) ([]*usecase.PostedLine, error) {
	return r.store.ListForSchedule(ctx, scheduleID, filter)
}

type storeTx struct {
	store      *MockAccountingStore
	entries    map[string]*domain.LedgerEntry
	staged     []*usecase.PostedLine
	chainState map[string]time.Time
	done       bool
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, line := range t.staged {
		line.Entry.State = domain.StateConfirmed
		t.store.confirmed = append(t.store.confirmed, line)
	}

	for key, date := range t.chainState {
		t.store.chainState[key] = date
	}

	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

// MockScheduleRepository is a mock implementation of ScheduleRepository.
type MockScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[string]*domain.Schedule

	GetByIDFunc          func(ctx context.Context, id string) (*domain.Schedule, error)
	ListNeedingVisitFunc func(ctx context.Context, thru time.Time, limit, offset int) ([]*domain.Schedule, error)
}

func NewMockScheduleRepository(schedules ...*domain.Schedule) *MockScheduleRepository {
	m := &MockScheduleRepository{schedules: make(map[string]*domain.Schedule)}
	for _, s := range schedules {
		m.schedules[s.ID] = s
	}
	return m
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, domain.ErrScheduleNotFound
}

func (m *MockScheduleRepository) ListNeedingVisit(ctx context.Context, thru time.Time, limit, offset int) ([]*domain.Schedule, error) {
	if m.ListNeedingVisitFunc != nil {
		return m.ListNeedingVisitFunc(ctx, thru, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*domain.Schedule
	for _, s := range m.schedules {
		if s.IsVerified() {
			all = append(all, s)
		}
	}

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.ContractTransaction

	GetByIDFunc        func(ctx context.Context, id string) (*domain.ContractTransaction, error)
	ListByScheduleFunc func(ctx context.Context, scheduleID string) ([]*domain.ContractTransaction, error)
	UpdateStatusFunc   func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error
}

func NewMockTransactionRepository(transactions ...*domain.ContractTransaction) *MockTransactionRepository {
	m := &MockTransactionRepository{transactions: make(map[string]*domain.ContractTransaction)}
	for _, t := range transactions {
		m.transactions[t.ID] = t
	}
	return m
}

func (m *MockTransactionRepository) Add(t *domain.ContractTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.ContractTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.ContractTransaction, error) {
	if m.ListByScheduleFunc != nil {
		return m.ListByScheduleFunc(ctx, scheduleID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txs []*domain.ContractTransaction
	for _, t := range m.transactions {
		if t.ScheduleID == scheduleID {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	t.Status = status
	t.UpdatedAt = updatedAt
	return nil
}

// MockQuotationRepository is a mock implementation of QuotationRepository.
type MockQuotationRepository struct {
	mu         sync.RWMutex
	quotations map[string][]*domain.Quotation

	ValueAtFunc      func(ctx context.Context, fundID string, at time.Time) (*domain.Quotation, error)
	ListVerifiedFunc func(ctx context.Context, fundID string, from, thru time.Time) ([]*domain.Quotation, error)
}

func NewMockQuotationRepository() *MockQuotationRepository {
	return &MockQuotationRepository{quotations: make(map[string][]*domain.Quotation)}
}

func (m *MockQuotationRepository) Add(q *domain.Quotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotations[q.FundID] = append(m.quotations[q.FundID], q)
}

func (m *MockQuotationRepository) ValueAt(ctx context.Context, fundID string, at time.Time) (*domain.Quotation, error) {
	if m.ValueAtFunc != nil {
		return m.ValueAtFunc(ctx, fundID, at)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *domain.Quotation
	for _, q := range m.quotations[fundID] {
		if !q.Verified || q.FromDate.After(at) {
			continue
		}
		if best == nil || q.FromDate.After(best.FromDate) {
			best = q
		}
	}

	if best == nil {
		return nil, domain.ErrQuotationNotFound
	}
	return best, nil
}

func (m *MockQuotationRepository) ListVerified(ctx context.Context, fundID string, from, thru time.Time) ([]*domain.Quotation, error) {
	if m.ListVerifiedFunc != nil {
		return m.ListVerifiedFunc(ctx, fundID, from, thru)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Quotation
	for _, q := range m.quotations[fundID] {
		if q.Verified && q.FromDate.After(from) && !q.FromDate.After(thru) {
			result = append(result, q)
		}
	}
	return result, nil
}

// MockFeatureCatalog is a mock implementation of FeatureCatalog backed by
// dated features per product.
type MockFeatureCatalog struct {
	mu       sync.RWMutex
	features map[string][]domain.Feature

	AppliedFeatureAtFunc func(ctx context.Context, productID string, name domain.FeatureName, documentDate, effectiveFrom time.Time, base, def decimal.Decimal) (decimal.Decimal, error)
}

func NewMockFeatureCatalog() *MockFeatureCatalog {
	return &MockFeatureCatalog{features: make(map[string][]domain.Feature)}
}

func (m *MockFeatureCatalog) Add(productID string, f domain.Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := productID + "/" + string(f.Name)
	m.features[key] = append(m.features[key], f)
}

func (m *MockFeatureCatalog) AppliedFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate, effectiveFrom time.Time, base, def decimal.Decimal) (decimal.Decimal, error) {
	if m.AppliedFeatureAtFunc != nil {
		return m.AppliedFeatureAtFunc(ctx, productID, name, documentDate, effectiveFrom, base, def)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.features[productID+"/"+string(name)] {
		if f.AppliesAt(documentDate) {
			return f.Apply(base), nil
		}
	}
	return def, nil
}

func (m *MockFeatureCatalog) HasFeatureAt(ctx context.Context, productID string, name domain.FeatureName, documentDate time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.features[productID+"/"+string(name)] {
		if f.AppliesAt(documentDate) {
			return true, nil
		}
	}
	return false, nil
}

// MockScheduleLocker is a mock implementation of ScheduleLocker.
type MockScheduleLocker struct {
	mu      sync.Mutex
	held    map[string]string
	counter int

	AcquireFunc func(ctx context.Context, scheduleID string) (string, error)
	ReleaseFunc func(ctx context.Context, scheduleID, token string) error
}

func NewMockScheduleLocker() *MockScheduleLocker {
	return &MockScheduleLocker{held: make(map[string]string)}
}

func (m *MockScheduleLocker) Acquire(ctx context.Context, scheduleID string) (string, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, scheduleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[scheduleID]; ok {
		return "", domain.ErrScheduleLocked
	}
	m.counter++
	token := fmt.Sprintf("mock-lock-%d", m.counter)
	m.held[scheduleID] = token
	return token, nil
}

func (m *MockScheduleLocker) Release(ctx context.Context, scheduleID, token string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, scheduleID, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[scheduleID] == token {
		delete(m.held, scheduleID)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}
