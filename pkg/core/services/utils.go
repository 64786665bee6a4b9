package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/core/queue"
	"github.com/dutyroster/rotation-engine/pkg/db"
)

const dateLayout = "2006-01-02"

// loadedQueue is the outcome of reconciling a scope's persisted queue with
// the directory's current eligible set.
type loadedQueue struct {
	Queue       *queue.Queue
	Eligible    []model.Person
	Pruned      []string // stale entries removed from the queue
	Appended    []string // newly eligible people appended to the tail
	Initialized bool     // true when the queue was seeded from directory order
}

// changed reports whether the reconciled queue differs from the persisted one.
func (l *loadedQueue) changed() bool {
	return l.Initialized || len(l.Pruned) > 0 || len(l.Appended) > 0
}

// loadQueue fetches the scope's queue, seeding it from directory order on
// first use, pruning entries that lost eligibility and appending people who
// gained it. A scope with no eligible people at all is fatal. The caller
// persists the result (callers hold the scope lock).
func loadQueue(ctx context.Context, database db.QueueStore, directory db.Directory, logger *zap.Logger, scope model.Scope) (*loadedQueue, error) {
	eligible, err := directory.ListEligiblePeople(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible people: %w", err)
	}
	if len(eligible) == 0 {
		return nil, &model.InvalidScopeError{Scope: scope}
	}

	eligibleSet := make(map[string]bool, len(eligible))
	for _, p := range eligible {
		eligibleSet[p.ID] = true
	}

	loaded := &loadedQueue{Eligible: eligible}

	order, err := database.GetQueue(ctx, scope)
	if errors.Is(err, model.ErrScopeNotFound) {
		// First read for this scope: seed from directory order.
		order = make([]string, 0, len(eligible))
		for _, p := range eligible {
			order = append(order, p.ID)
		}
		loaded.Initialized = true
		logger.Info("Initialized rotation queue from directory order",
			zap.String("scope", scope.Key()),
			zap.Int("size", len(order)))
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch rotation queue: %w", err)
	}

	q := queue.New(scope, order)
	loaded.Pruned = q.Prune(eligibleSet)
	if len(loaded.Pruned) > 0 {
		logger.Warn("Pruned stale queue entries",
			zap.String("scope", scope.Key()),
			zap.Strings("person_ids", loaded.Pruned))
	}

	for _, p := range eligible {
		if !q.Contains(p.ID) {
			q.Order = append(q.Order, p.ID)
			loaded.Appended = append(loaded.Appended, p.ID)
		}
	}
	if len(loaded.Appended) > 0 {
		logger.Info("Appended newly eligible people to queue",
			zap.String("scope", scope.Key()),
			zap.Strings("person_ids", loaded.Appended))
	}

	loaded.Queue = q
	return loaded, nil
}

// parseDateRange validates an inclusive ISO date range.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	return start, end, nil
}
