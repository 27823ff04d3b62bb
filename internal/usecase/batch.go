package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/contractledger/internal/domain"
)

// ScheduleFailure records one schedule the batch could not visit. Business
// failures are rule violations awaiting operator action; the rest are
// infrastructure faults.
type ScheduleFailure struct {
	ScheduleID string
	Reason     string
	Business   bool
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	RunID    string
	Thru     time.Time
	Visited  int
	Skipped  int
	Failures []ScheduleFailure
}

// BatchRunner visits every schedule needing a pass, in parallel with a
// bounded worker count. One schedule failing never stops the run; a
// schedule locked by a concurrent pass is skipped, not failed.
type BatchRunner struct {
	chain     *Chain
	schedules ScheduleRepository
	logger    zerolog.Logger
	workers   int
	pageSize  int

	// OnScheduleVisited, when set, observes every completed visit.
	OnScheduleVisited func(result *VisitResult)
}

// NewBatchRunner creates a new BatchRunner.
func NewBatchRunner(chain *Chain, schedules ScheduleRepository, workers, pageSize int, logger zerolog.Logger) *BatchRunner {
	if workers < 1 {
		workers = 1
	}

	if pageSize < 1 {
		pageSize = 100
	}

	return &BatchRunner{
		chain:     chain,
		schedules: schedules,
		logger:    logger.With().Str("component", "batch").Logger(),
		workers:   workers,
		pageSize:  pageSize,
	}
}

// Run visits all schedules needing a pass up to thru.
func (r *BatchRunner) Run(ctx context.Context, thru time.Time) (*BatchResult, error) {
	result := &BatchResult{
		RunID: uuid.NewString(),
		Thru:  thru,
	}

	logger := r.logger.With().Str("run_id", result.RunID).Logger()
	logger.Info().Time("thru", thru).Msg("batch run started")

	// Snapshot the candidates before any worker starts: committed passes
	// advance chain state and shrink the needing-visit predicate, which
	// would shift offset paging underneath a concurrent listing and skip
	// unvisited schedules.
	var candidates []string
	seen := make(map[string]bool)
	for offset := 0; ; offset += r.pageSize {
		schedules, err := r.schedules.ListNeedingVisit(ctx, thru, r.pageSize, offset)
		if err != nil {
			return nil, err
		}

		if len(schedules) == 0 {
			break
		}

		for _, schedule := range schedules {
			if !seen[schedule.ID] {
				seen[schedule.ID] = true
				candidates = append(candidates, schedule.ID)
			}
		}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.workers)
	)

	for _, scheduleID := range candidates {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return result, err
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(scheduleID string) {
			defer wg.Done()
			defer func() { <-sem }()

			visit, err := r.chain.VisitSchedule(ctx, scheduleID, thru)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				result.Visited++
				if r.OnScheduleVisited != nil {
					r.OnScheduleVisited(visit)
				}
			case errors.Is(err, domain.ErrScheduleLocked):
				result.Skipped++
			default:
				_, business := domain.AsRuleViolation(err)
				result.Failures = append(result.Failures, ScheduleFailure{
					ScheduleID: scheduleID,
					Reason:     err.Error(),
					Business:   business,
				})
				logger.Warn().Err(err).Str("schedule_id", scheduleID).Msg("schedule visit failed")
			}
		}(scheduleID)
	}

	wg.Wait()

	logger.Info().
		Int("visited", result.Visited).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failures)).
		Msg("batch run finished")

	return result, nil
}
