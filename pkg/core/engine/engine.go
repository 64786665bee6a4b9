// Package engine generates day-by-day on-call assignment plans. Plan is pure
// with respect to storage: it consumes a queue snapshot, availability and
// pre-computed duty blocks, and returns the assignments plus the advanced
// queue for the caller to persist in one transaction.
package engine

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dutyroster/rotation-engine/pkg/core/availability"
	"github.com/dutyroster/rotation-engine/pkg/core/calendar"
	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/core/queue"
)

// PlanConfig is the input to a generation run.
type PlanConfig struct {
	// Scope identifies the rotation being generated.
	Scope model.Scope

	// Blocks are the duty blocks of the requested range, chronological.
	Blocks []calendar.DutyBlock

	// Queue is the current rotation order, head first. Must contain only
	// eligible people; the caller prunes before planning.
	Queue []string

	// MinPersonnel is the per-assignment personnel target (commonly 2).
	MinPersonnel int

	// Availability answers per-date availability for the queue members.
	Availability *availability.Tracker

	// SplitHolidayDayNight makes single-date holiday blocks produce a day
	// and a night assignment with disjoint person sets.
	SplitHolidayDayNight bool

	// GeneratedAt stamps every produced assignment (RFC3339).
	GeneratedAt string
}

// PlanResult is the outcome of a generation run.
type PlanResult struct {
	// Assignments for every duty block of the range, in chronological order.
	Assignments []model.Assignment

	// UnderstaffedDates lists the start date of every under-covered block.
	// Partial coverage is recorded and surfaced, never silently dropped.
	UnderstaffedDates []string

	// Queue is the rotation order after the run, for persistence.
	Queue []string
}

type planner struct {
	cfg   PlanConfig
	queue *queue.Queue
	usage map[string]int // assignments received during this run
}

// Plan generates assignments for every duty block. It fails with
// ErrInvalidScope when the queue is empty (a scope with no eligible people);
// per-block understaffing is non-fatal and reported on the result. The
// context aborts the run between blocks.
func Plan(ctx context.Context, cfg PlanConfig) (*PlanResult, error) {
	if len(cfg.Queue) == 0 {
		return nil, &model.InvalidScopeError{Scope: cfg.Scope}
	}
	if cfg.MinPersonnel <= 0 {
		cfg.MinPersonnel = 1
	}

	p := &planner{
		cfg:   cfg,
		queue: queue.New(cfg.Scope, cfg.Queue),
		usage: make(map[string]int),
	}

	result := &PlanResult{
		Assignments:       []model.Assignment{},
		UnderstaffedDates: []string{},
	}

	for _, block := range cfg.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assignments := p.planBlock(block)
		understaffed := false
		for _, a := range assignments {
			if a.Understaffed {
				understaffed = true
			}
		}
		if understaffed {
			result.UnderstaffedDates = append(result.UnderstaffedDates, block.Start())
		}
		result.Assignments = append(result.Assignments, assignments...)
	}

	result.Queue = p.queue.Snapshot()
	return result, nil
}

// planBlock covers one duty block. A split holiday yields a day and a night
// assignment; everything else yields one assignment spanning the block.
func (p *planner) planBlock(block calendar.DutyBlock) []model.Assignment {
	if p.cfg.SplitHolidayDayNight && block.Kind == model.ShiftHoliday && len(block.Dates) == 1 {
		day := p.buildAssignment(block, model.ShiftDay, nil)
		// The night crew must be disjoint from the day crew: the same
		// person cannot cover both halves of the date.
		night := p.buildAssignment(block, model.ShiftNight, day.PersonIDs)
		return []model.Assignment{day, night}
	}
	return []model.Assignment{p.buildAssignment(block, block.Kind, nil)}
}

// buildAssignment selects people for the block and advances the queue.
func (p *planner) buildAssignment(block calendar.DutyBlock, kind model.ShiftKind, exclude []string) model.Assignment {
	selected := p.selectPeople(block.Dates, exclude)

	// Round-robin fairness: assigned people go to the back so the next
	// block draws from people not just used.
	for _, id := range selected {
		p.queue.MoveToEnd(id)
		p.usage[id]++
	}

	return model.Assignment{
		ID:           uuid.New().String(),
		Scope:        p.cfg.Scope,
		StartDate:    block.Start(),
		EndDate:      block.End(),
		Kind:         kind,
		PersonIDs:    selected,
		Understaffed: len(selected) < p.cfg.MinPersonnel,
		GeneratedAt:  p.cfg.GeneratedAt,
	}
}

// selectPeople picks up to MinPersonnel people in queue order from those
// available for every date of the block, preferring people not yet used in
// this run (tie-break: lowest current-run usage, then queue position).
func (p *planner) selectPeople(dates []string, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	type candidate struct {
		id       string
		usage    int
		position int
	}

	var candidates []candidate
	for pos, id := range p.queue.Snapshot() {
		if excluded[id] {
			continue
		}
		if !p.cfg.Availability.AvailableForAll(id, dates) {
			continue
		}
		candidates = append(candidates, candidate{id: id, usage: p.usage[id], position: pos})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].usage != candidates[j].usage {
			return candidates[i].usage < candidates[j].usage
		}
		return candidates[i].position < candidates[j].position
	})

	n := min(p.cfg.MinPersonnel, len(candidates))
	selected := make([]string, 0, n)
	for _, c := range candidates[:n] {
		selected = append(selected, c.id)
	}
	return selected
}
