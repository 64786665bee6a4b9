package db

import (
	"context"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// QueueStore persists the rotation queue of each scope.
type QueueStore interface {
	// GetQueue returns the persisted order for the scope, head first.
	// Fails with model.ErrScopeNotFound when the scope has never been
	// initialized.
	GetQueue(ctx context.Context, scope model.Scope) ([]string, error)

	// ReplaceQueue replaces the scope's order transactionally.
	ReplaceQueue(ctx context.Context, scope model.Scope, order []string) error
}

// AssignmentStore persists duty assignments.
type AssignmentStore interface {
	// ListAssignments returns the scope's assignments whose date ranges
	// intersect [startDate, endDate] (inclusive ISO dates), chronological.
	ListAssignments(ctx context.Context, scope model.Scope, startDate, endDate string) ([]model.Assignment, error)

	// ReplaceAssignments clears the scope's assignments overlapping
	// [startDate, endDate] and inserts the new set as one transaction.
	// Partial results are never visible.
	ReplaceAssignments(ctx context.Context, scope model.Scope, startDate, endDate string, assignments []model.Assignment) error

	// UpdateAssignmentPeople rewrites the person set and understaffed flag
	// of one assignment.
	UpdateAssignmentPeople(ctx context.Context, assignmentID string, personIDs []string, understaffed bool) error
}

// Store is the full persistence surface of the rotation engine.
type Store interface {
	QueueStore
	AssignmentStore
}

// Directory is the organizational directory collaborator. The rotation
// engine never maintains people itself; eligibility and unavailable dates
// always come from here.
type Directory interface {
	// ListEligiblePeople returns the people eligible for rotation within
	// the scope, in directory order. Directory order seeds new queues.
	ListEligiblePeople(ctx context.Context, scope model.Scope) ([]model.Person, error)

	// GetPerson returns a person by identifier, including role,
	// organizational position and unavailable dates.
	GetPerson(ctx context.Context, id string) (*model.Person, error)
}
