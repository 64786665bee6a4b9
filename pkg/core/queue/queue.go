// Package queue holds the ordered rotation queue for a single scope and the
// invariant-preserving operations on it. All mutations either apply fully or
// leave the queue unchanged.
package queue

import "github.com/dutyroster/rotation-engine/pkg/core/model"

// Queue is an ordered sequence of unique person identifiers for one
// (sector, service) scope. The head is next in line for assignment.
type Queue struct {
	Scope model.Scope
	Order []string
}

// New creates a queue for the scope with the given initial order.
func New(scope model.Scope, order []string) *Queue {
	return &Queue{Scope: scope, Order: append([]string(nil), order...)}
}

// Snapshot returns a copy of the current order.
func (q *Queue) Snapshot() []string {
	return append([]string(nil), q.Order...)
}

// Contains reports whether the person is in the queue.
func (q *Queue) Contains(personID string) bool {
	return q.indexOf(personID) >= 0
}

// Reorder replaces the order with newOrder. The submission must be an exact
// permutation of the current membership: duplicates, missing entries and
// foreign entries are all rejected with the full diff, and the queue is left
// unchanged. No silent reconciliation.
func (q *Queue) Reorder(newOrder []string) error {
	current := make(map[string]bool, len(q.Order))
	for _, id := range q.Order {
		current[id] = true
	}

	var foreign, duplicated []string
	seen := make(map[string]bool, len(newOrder))
	for _, id := range newOrder {
		if seen[id] {
			duplicated = append(duplicated, id)
			continue
		}
		seen[id] = true
		if !current[id] {
			foreign = append(foreign, id)
		}
	}

	var missing []string
	for _, id := range q.Order {
		if !seen[id] {
			missing = append(missing, id)
		}
	}

	if len(foreign) > 0 || len(duplicated) > 0 || len(missing) > 0 {
		return &model.InvalidOrderError{
			Scope:      q.Scope,
			Missing:    missing,
			Foreign:    foreign,
			Duplicated: duplicated,
		}
	}

	q.Order = append([]string(nil), newOrder...)
	return nil
}

// MoveToEnd removes the person and re-appends them. A no-op if already last;
// idempotent with respect to final position.
func (q *Queue) MoveToEnd(personID string) error {
	idx := q.indexOf(personID)
	if idx < 0 {
		return model.ErrPersonNotInQueue
	}
	if idx == len(q.Order)-1 {
		return nil
	}
	q.Order = append(append(q.Order[:idx:idx], q.Order[idx+1:]...), personID)
	return nil
}

// Advance rotates the head n entries to the tail. This is a state transition,
// not a query: repeated calls keep advancing.
func (q *Queue) Advance(n int) {
	if len(q.Order) == 0 || n <= 0 {
		return
	}
	n = n % len(q.Order)
	if n == 0 {
		return
	}
	q.Order = append(q.Order[n:len(q.Order):len(q.Order)], q.Order[:n]...)
}

// Prune removes entries that are no longer eligible for the scope and returns
// the removed identifiers in queue order. Run before every generation pass so
// stale entries never receive assignments.
func (q *Queue) Prune(eligible map[string]bool) []string {
	kept := make([]string, 0, len(q.Order))
	var removed []string
	for _, id := range q.Order {
		if eligible[id] {
			kept = append(kept, id)
		} else {
			removed = append(removed, id)
		}
	}
	q.Order = kept
	return removed
}

func (q *Queue) indexOf(personID string) int {
	for i, id := range q.Order {
		if id == personID {
			return i
		}
	}
	return -1
}
