package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the rotation engine. Callers match with errors.Is;
// the structured types below carry the scope and invariant details an
// operator needs to correct the queue or availability data.
var (
	// ErrScopeNotFound is returned when a rotation queue has never been
	// initialized for the requested scope.
	ErrScopeNotFound = errors.New("scope not found")

	// ErrInvalidOrder is returned when a reorder submission is not a
	// permutation of the currently eligible set.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrPersonNotInQueue is returned when a queue operation names a person
	// absent from the queue.
	ErrPersonNotInQueue = errors.New("person not in queue")

	// ErrForbidden is returned when the caller's resolved scope does not
	// permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrBusy is returned when the scope lock cannot be acquired within the
	// configured wait.
	ErrBusy = errors.New("scope busy")

	// ErrInvalidScope is returned when a scope has no eligible people at all.
	// Fatal to the whole call, unlike per-date understaffing.
	ErrInvalidScope = errors.New("invalid scope: no eligible people")

	// ErrAssignmentNotFound is returned by per-date overrides when no
	// assignment covers the requested date.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrDuplicatePerson is returned when adding a person already present on
	// the assignment.
	ErrDuplicatePerson = errors.New("person already assigned")

	// ErrAssignmentFull is returned when adding a person would exceed the
	// scope's minimum-personnel target.
	ErrAssignmentFull = errors.New("assignment at personnel target")

	// ErrOverlappingAssignment is returned when a person is already assigned
	// to an overlapping date range.
	ErrOverlappingAssignment = errors.New("person assigned to overlapping dates")

	// ErrPersonUnavailable is returned when adding a person who is marked
	// unavailable on a covered date.
	ErrPersonUnavailable = errors.New("person unavailable on date")

	// ErrPersonNotAssigned is returned when removing a person who is not on
	// the assignment.
	ErrPersonNotAssigned = errors.New("person not on assignment")
)

// ForbiddenError reports an authorization denial with enough context for the
// operator to see which boundary was crossed.
type ForbiddenError struct {
	ActorID   string
	ActorRole Role
	Scope     Scope
	Operation string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s (%s) may not %s scope %s", e.ActorID, e.ActorRole, e.Operation, e.Scope)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// InvalidOrderError details exactly how a submitted order fails the
// permutation check. Nothing is silently reconciled.
type InvalidOrderError struct {
	Scope      Scope
	Missing    []string // in the queue but absent from the submission
	Foreign    []string // in the submission but not in the queue
	Duplicated []string // repeated in the submission
}

func (e *InvalidOrderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %v", e.Missing))
	}
	if len(e.Foreign) > 0 {
		parts = append(parts, fmt.Sprintf("foreign %v", e.Foreign))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated %v", e.Duplicated))
	}
	return fmt.Sprintf("invalid order for scope %s: %s", e.Scope, strings.Join(parts, "; "))
}

func (e *InvalidOrderError) Unwrap() error { return ErrInvalidOrder }

// BusyError reports a scope-lock timeout.
type BusyError struct {
	Scope Scope
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("scope %s busy: another rotation operation holds the lock", e.Scope)
}

func (e *BusyError) Unwrap() error { return ErrBusy }

// InvalidScopeError reports a scope with no eligible people.
type InvalidScopeError struct {
	Scope Scope
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope %s: no eligible people", e.Scope)
}

func (e *InvalidScopeError) Unwrap() error { return ErrInvalidScope }

// IsClientError reports whether the error is due to invalid caller input
// rather than infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidOrder) ||
		errors.Is(err, ErrPersonNotInQueue) ||
		errors.Is(err, ErrDuplicatePerson) ||
		errors.Is(err, ErrAssignmentFull) ||
		errors.Is(err, ErrOverlappingAssignment) ||
		errors.Is(err, ErrPersonUnavailable) ||
		errors.Is(err, ErrPersonNotAssigned)
}

// IsRetryable reports whether the caller might succeed by retrying later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}
