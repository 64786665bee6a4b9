package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/authz"
	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/db"
	"github.com/dutyroster/rotation-engine/pkg/scopelock"
)

// OverrideResult is the assignment state after a manual per-date override.
type OverrideResult struct {
	Scope      model.Scope
	Assignment model.Assignment
}

// AddPersonToDate manually adds a person to the assignment covering the given
// date. The same invariants as generation apply: the person must be eligible
// and available, not already assigned, not assigned to overlapping dates, and
// the personnel target must not be exceeded. kind disambiguates when a split
// holiday has both a day and a night assignment on the date; leave it empty
// otherwise. The actor must hold Manage.
func AddPersonToDate(
	ctx context.Context,
	database db.AssignmentStore,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	date string,
	kind model.ShiftKind,
	personID string,
	minPersonnel int,
) (*OverrideResult, error) {
	logger.Debug("Starting addPersonToDate",
		zap.String("scope", scope.Key()),
		zap.String("date", date),
		zap.String("person_id", personID))

	if err := authz.RequireManage(actor, scope, "override assignments of"); err != nil {
		return nil, err
	}

	release, err := locks.Acquire(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer release()

	person, err := directory.GetPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person: %w", err)
	}
	if !person.EligibleFor(scope) {
		return nil, fmt.Errorf("person %s is not eligible for scope %s", personID, scope)
	}

	target, err := findAssignment(ctx, database, scope, date, kind)
	if err != nil {
		return nil, err
	}

	if target.Contains(personID) {
		return nil, fmt.Errorf("add %s to %s on %s: %w", personID, scope, date, model.ErrDuplicatePerson)
	}
	if len(target.PersonIDs) >= minPersonnel {
		return nil, fmt.Errorf("add %s to %s on %s (target %d): %w",
			personID, scope, date, minPersonnel, model.ErrAssignmentFull)
	}

	for _, unavailable := range person.UnavailableDates {
		if target.Covers(unavailable) {
			return nil, fmt.Errorf("add %s to %s: unavailable on %s: %w",
				personID, scope, unavailable, model.ErrPersonUnavailable)
		}
	}

	// No person may appear in two assignments whose date ranges overlap.
	neighbours, err := database.ListAssignments(ctx, scope, target.StartDate, target.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overlapping assignments: %w", err)
	}
	for _, other := range neighbours {
		if other.ID != target.ID && other.Contains(personID) && other.Overlaps(*target) {
			return nil, fmt.Errorf("add %s to %s: already covering %s..%s: %w",
				personID, scope, other.StartDate, other.EndDate, model.ErrOverlappingAssignment)
		}
	}

	target.PersonIDs = append(target.PersonIDs, personID)
	target.Understaffed = len(target.PersonIDs) < minPersonnel
	if err := database.UpdateAssignmentPeople(ctx, target.ID, target.PersonIDs, target.Understaffed); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	logger.Info("Person added to assignment",
		zap.String("scope", scope.Key()),
		zap.String("date", date),
		zap.String("person_id", personID),
		zap.Bool("understaffed", target.Understaffed))

	return &OverrideResult{Scope: scope, Assignment: *target}, nil
}

// RemovePersonFromDate manually removes a person from the assignment covering
// the given date. The assignment may become understaffed; that is recorded,
// not rejected. The actor must hold Manage.
func RemovePersonFromDate(
	ctx context.Context,
	database db.AssignmentStore,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	date string,
	kind model.ShiftKind,
	personID string,
	minPersonnel int,
) (*OverrideResult, error) {
	logger.Debug("Starting removePersonFromDate",
		zap.String("scope", scope.Key()),
		zap.String("date", date),
		zap.String("person_id", personID))

	if err := authz.RequireManage(actor, scope, "override assignments of"); err != nil {
		return nil, err
	}

	release, err := locks.Acquire(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer release()

	target, err := findAssignment(ctx, database, scope, date, kind)
	if err != nil {
		return nil, err
	}

	if !target.Contains(personID) {
		return nil, fmt.Errorf("remove %s from %s on %s: %w", personID, scope, date, model.ErrPersonNotAssigned)
	}

	kept := make([]string, 0, len(target.PersonIDs)-1)
	for _, id := range target.PersonIDs {
		if id != personID {
			kept = append(kept, id)
		}
	}
	target.PersonIDs = kept
	target.Understaffed = len(kept) < minPersonnel

	if err := database.UpdateAssignmentPeople(ctx, target.ID, target.PersonIDs, target.Understaffed); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	if target.Understaffed {
		logger.Warn("Assignment understaffed after removal",
			zap.String("scope", scope.Key()),
			zap.String("date", date),
			zap.Int("remaining", len(kept)))
	}
	logger.Info("Person removed from assignment",
		zap.String("scope", scope.Key()),
		zap.String("date", date),
		zap.String("person_id", personID))

	return &OverrideResult{Scope: scope, Assignment: *target}, nil
}

// findAssignment locates the assignment covering a date, using kind to pick
// between the day and night halves of a split holiday.
func findAssignment(ctx context.Context, database db.AssignmentStore, scope model.Scope, date string, kind model.ShiftKind) (*model.Assignment, error) {
	assignments, err := database.ListAssignments(ctx, scope, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	var matches []model.Assignment
	for _, a := range assignments {
		if !a.Covers(date) {
			continue
		}
		if kind != "" && a.Kind != kind {
			continue
		}
		matches = append(matches, a)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no assignment covers %s in scope %s: %w", date, scope, model.ErrAssignmentNotFound)
	case 1:
		a := matches[0]
		return &a, nil
	default:
		return nil, fmt.Errorf("multiple assignments cover %s in scope %s: specify a shift kind", date, scope)
	}
}
