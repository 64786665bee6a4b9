package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/authz"
	"github.com/dutyroster/rotation-engine/pkg/core/availability"
	"github.com/dutyroster/rotation-engine/pkg/core/calendar"
	"github.com/dutyroster/rotation-engine/pkg/core/engine"
	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/db"
	"github.com/dutyroster/rotation-engine/pkg/scopelock"
)

// GenerateRotationStore defines the database operations needed for
// generating a rotation.
type GenerateRotationStore interface {
	GetQueue(ctx context.Context, scope model.Scope) ([]string, error)
	ReplaceQueue(ctx context.Context, scope model.Scope, order []string) error
	ReplaceAssignments(ctx context.Context, scope model.Scope, startDate, endDate string, assignments []model.Assignment) error
}

// GenerateRotationResult contains the generated plan.
type GenerateRotationResult struct {
	Scope             model.Scope
	StartDate         string
	EndDate           string
	Assignments       []model.Assignment
	UnderstaffedDates []string
	PrunedPersonIDs   []string
	Queue             []string
	GeneratedAt       string
	DryRun            bool
}

// GenerateRotation produces the day-by-day assignment plan for a scope and
// date range and persists it, replacing any prior assignments overlapping the
// range in one transaction. The actor must hold Manage over the scope. If
// dryRun is true, nothing is persisted.
func GenerateRotation(
	ctx context.Context,
	database GenerateRotationStore,
	directory db.Directory,
	locks *scopelock.Registry,
	cal *calendar.Calendar,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	startDate, endDate string,
	minPersonnel int,
	splitHolidayDayNight bool,
	dryRun bool,
) (*GenerateRotationResult, error) {
	logger.Debug("Starting generateRotation",
		zap.String("scope", scope.Key()),
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Int("min_personnel", minPersonnel),
		zap.Bool("dry_run", dryRun))

	if err := authz.RequireManage(actor, scope, "generate rotation for"); err != nil {
		return nil, err
	}
	if minPersonnel <= 0 {
		return nil, fmt.Errorf("minimum personnel must be positive, got %d", minPersonnel)
	}

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Generation and manual queue operations against the same scope are
	// mutually exclusive.
	release, err := locks.Acquire(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer release()

	loaded, err := loadQueue(ctx, database, directory, logger, scope)
	if err != nil {
		return nil, err
	}

	blocks, err := cal.DutyBlocks(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate duty dates: %w", err)
	}
	logger.Debug("Enumerated duty blocks",
		zap.Int("count", len(blocks)),
		zap.String("holiday_table_version", cal.Version()))

	generatedAt := time.Now().UTC().Format(time.RFC3339)
	plan, err := engine.Plan(ctx, engine.PlanConfig{
		Scope:                scope,
		Blocks:               blocks,
		Queue:                loaded.Queue.Snapshot(),
		MinPersonnel:         minPersonnel,
		Availability:         availability.NewTracker(loaded.Eligible),
		SplitHolidayDayNight: splitHolidayDayNight,
		GeneratedAt:          generatedAt,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Generated rotation plan",
		zap.String("scope", scope.Key()),
		zap.Int("assignments", len(plan.Assignments)),
		zap.Int("understaffed_dates", len(plan.UnderstaffedDates)))
	for _, date := range plan.UnderstaffedDates {
		logger.Warn("Understaffed duty date",
			zap.String("scope", scope.Key()),
			zap.String("date", date))
	}

	if dryRun {
		logger.Info("Dry run mode - plan not saved")
	} else {
		// Clear-and-insert is the unit of atomicity; an aborted run leaves
		// the previous assignments untouched.
		if err := database.ReplaceAssignments(ctx, scope, startDate, endDate, plan.Assignments); err != nil {
			return nil, fmt.Errorf("failed to save assignments: %w", err)
		}
		if err := database.ReplaceQueue(ctx, scope, plan.Queue); err != nil {
			return nil, fmt.Errorf("failed to save rotation queue: %w", err)
		}
		logger.Info("Rotation saved",
			zap.String("scope", scope.Key()),
			zap.Int("assignments", len(plan.Assignments)))
	}

	return &GenerateRotationResult{
		Scope:             scope,
		StartDate:         startDate,
		EndDate:           endDate,
		Assignments:       plan.Assignments,
		UnderstaffedDates: plan.UnderstaffedDates,
		PrunedPersonIDs:   loaded.Pruned,
		Queue:             plan.Queue,
		GeneratedAt:       generatedAt,
		DryRun:            dryRun,
	}, nil
}
