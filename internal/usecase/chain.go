package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/contractledger/internal/domain"
)

// VisitResult summarizes one chained pass over a schedule.
type VisitResult struct {
	ScheduleID string
	Thru       time.Time
	Dates      int
	Postings   int
}

// Chain runs the visitors over one schedule in dependency order. A pass is
// one database transaction: either every delta of the pass is confirmed
// together with the advanced chain state, or none is.
type Chain struct {
	visitors   []Visitor
	schedules  ScheduleRepository
	entries    EntryRepository
	chainState ChainStateRepository
	txManager  TransactionManager
	sink       AccountingSink
	queries    *LedgerQuery
	locker     ScheduleLocker
	logger     zerolog.Logger
	now        func() time.Time
}

// NewChain orders the visitors topologically by their declared
// dependencies. A dependency on an unknown visitor or a dependency cycle is
// a wiring fault.
func NewChain(
	visitors []Visitor,
	schedules ScheduleRepository,
	entries EntryRepository,
	chainState ChainStateRepository,
	txManager TransactionManager,
	sink AccountingSink,
	queries *LedgerQuery,
	locker ScheduleLocker,
	logger zerolog.Logger,
) (*Chain, error) {
	ordered, err := orderVisitors(visitors)
	if err != nil {
		return nil, err
	}

	return &Chain{
		visitors:   ordered,
		schedules:  schedules,
		entries:    entries,
		chainState: chainState,
		txManager:  txManager,
		sink:       sink,
		queries:    queries,
		locker:     locker,
		logger:     logger.With().Str("component", "chain").Logger(),
		now:        time.Now,
	}, nil
}

// WithClock overrides the book-date clock.
func (c *Chain) WithClock(now func() time.Time) *Chain {
	c.now = now
	return c
}

func orderVisitors(visitors []Visitor) ([]Visitor, error) {
	byName := make(map[string]Visitor, len(visitors))
	indegree := make(map[string]int, len(visitors))
	dependents := make(map[string][]string)

	for _, v := range visitors {
		byName[v.Name()] = v
		indegree[v.Name()] = 0
	}

	for _, v := range visitors {
		for _, dep := range v.Dependencies() {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("visitor %s depends on %s: %w", v.Name(), dep, domain.ErrUnknownDependency)
			}

			dependents[dep] = append(dependents[dep], v.Name())
			indegree[v.Name()]++
		}
	}

	// Kahn's algorithm, seeded in registration order for a stable result.
	var queue []string
	for _, v := range visitors {
		if indegree[v.Name()] == 0 {
			queue = append(queue, v.Name())
		}
	}

	ordered := make([]Visitor, 0, len(visitors))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byName[name])

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(ordered) != len(visitors) {
		return nil, domain.ErrDependencyCycle
	}

	return ordered, nil
}

// VisitSchedule runs every visitor over the schedule up to and including
// thru. Visiting an already-visited range posts nothing and still succeeds.
func (c *Chain) VisitSchedule(ctx context.Context, scheduleID string, thru time.Time) (*VisitResult, error) {
	schedule, err := c.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if !schedule.IsVerified() {
		return nil, domain.NewRuleViolation(domain.RuleScheduleNotVerified,
			fmt.Sprintf("schedule %s is %s", schedule.ID, schedule.Status),
			"verify the schedule before running the ledger chain")
	}

	token, err := c.locker.Acquire(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := c.locker.Release(ctx, scheduleID, token); err != nil {
			c.logger.Warn().Err(err).Str("schedule_id", scheduleID).Msg("failed to release schedule lock")
		}
	}()

	tx, err := c.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	maxBooked, err := c.entries.MaxDocumentDate(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	session := NewAccountingSession(tx, c.sink, c.queries, maxBooked)

	lastVisited := make(map[string]time.Time, len(c.visitors))
	declared := make(map[string]map[int64]bool, len(c.visitors))
	var dateSets [][]time.Time

	for _, v := range c.visitors {
		last, err := c.chainState.LastVisited(ctx, scheduleID, v.Name())
		if err != nil {
			return nil, err
		}

		from := schedule.EffectiveDate.AddDate(0, 0, -1)
		if last != nil {
			from = *last
		}

		lastVisited[v.Name()] = from

		dates, err := v.DocumentDates(ctx, schedule, from, thru)
		if err != nil {
			return nil, err
		}

		set := make(map[int64]bool, len(dates))
		for _, d := range dates {
			set[d.Unix()] = true
		}
		declared[v.Name()] = set

		dateSets = append(dateSets, dates)
	}

	merged := MergeDates(dateSets...)
	today := c.now()

	for _, documentDate := range merged {
		bookDate := EnteredBookDate(documentDate, today)

		for _, v := range c.visitors {
			// A visitor runs at dates past its own mark, and at dates it
			// declared itself even when they fall behind the mark: that is
			// how a backdated correction gets re-evaluated.
			if !documentDate.After(lastVisited[v.Name()]) && !declared[v.Name()][documentDate.Unix()] {
				continue
			}

			if err := v.VisitAt(ctx, session, schedule, documentDate, bookDate, lastVisited[v.Name()]); err != nil {
				return nil, fmt.Errorf("visitor %s at %s: %w", v.Name(), documentDate.Format("2006-01-02"), err)
			}
		}
	}

	for _, v := range c.visitors {
		mark := thru
		if lastVisited[v.Name()].After(thru) {
			mark = lastVisited[v.Name()]
		}

		if err := c.chainState.SetLastVisited(ctx, tx, scheduleID, v.Name(), mark); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &VisitResult{
		ScheduleID: scheduleID,
		Thru:       thru,
		Dates:      len(merged),
		Postings:   session.Pending(),
	}

	c.logger.Info().
		Str("schedule_id", scheduleID).
		Time("thru", thru).
		Int("dates", result.Dates).
		Int("postings", result.Postings).
		Msg("schedule visited")

	return result, nil
}
