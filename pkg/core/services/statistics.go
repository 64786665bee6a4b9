package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/pkg/core/authz"
	"github.com/dutyroster/rotation-engine/pkg/core/model"
	"github.com/dutyroster/rotation-engine/pkg/core/stats"
	"github.com/dutyroster/rotation-engine/pkg/db"
	"github.com/dutyroster/rotation-engine/pkg/scopelock"
)

// StatisticsResult is the load analysis of a scope over a period.
type StatisticsResult struct {
	Scope     model.Scope
	StartDate string
	EndDate   string
	Analysis  *stats.Result
	Eligible  []model.Person
}

// GetStatistics analyzes the scope's stored assignments over the period.
// Read-only: it never touches the queue and takes no lock, tolerating
// slightly stale data (Analysis.LastGeneratedAt lets callers detect it).
// The actor needs Manage or Read.
func GetStatistics(
	ctx context.Context,
	database db.AssignmentStore,
	directory db.Directory,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	startDate, endDate string,
	personnelPerAssignment int,
) (*StatisticsResult, error) {
	logger.Debug("Starting getStatistics",
		zap.String("scope", scope.Key()),
		zap.String("start", startDate),
		zap.String("end", endDate))

	if err := authz.RequireRead(actor, scope, "read statistics of"); err != nil {
		return nil, err
	}
	if _, _, err := parseDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	eligible, err := directory.ListEligiblePeople(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible people: %w", err)
	}
	if len(eligible) == 0 {
		return nil, &model.InvalidScopeError{Scope: scope}
	}

	assignments, err := database.ListAssignments(ctx, scope, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	analysis, err := stats.Analyze(assignments, eligible, personnelPerAssignment)
	if err != nil {
		return nil, err
	}

	logger.Info("Statistics computed",
		zap.String("scope", scope.Key()),
		zap.Int("assignments", analysis.TotalAssignments),
		zap.Float64("average", analysis.Average),
		zap.Bool("balanced", analysis.Balanced))

	return &StatisticsResult{
		Scope:     scope,
		StartDate: startDate,
		EndDate:   endDate,
		Analysis:  analysis,
		Eligible:  eligible,
	}, nil
}

// OptimizeRotationResult reports the queue reorder an optimization applied.
type OptimizeRotationResult struct {
	Scope    model.Scope
	Analysis *stats.Result
	OldOrder []string
	NewOrder []string
	Applied  bool
}

// OptimizeRotation takes the statistics recommendations for the period and
// applies them to the queue: underloaded people move toward the front,
// overloaded toward the back. Viewing recommendations (GetStatistics) and
// applying them stay distinct, auditable steps; only this operation ever
// reorders on the analyzer's behalf. The actor must hold Manage.
func OptimizeRotation(
	ctx context.Context,
	database db.Store,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	startDate, endDate string,
	personnelPerAssignment int,
) (*OptimizeRotationResult, error) {
	logger.Debug("Starting optimizeRotation",
		zap.String("scope", scope.Key()),
		zap.String("start", startDate),
		zap.String("end", endDate))

	if err := authz.RequireManage(actor, scope, "optimize rotation of"); err != nil {
		return nil, err
	}
	if _, _, err := parseDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	release, err := locks.Acquire(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer release()

	loaded, err := loadQueue(ctx, database, directory, logger, scope)
	if err != nil {
		return nil, err
	}

	assignments, err := database.ListAssignments(ctx, scope, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	analysis, err := stats.Analyze(assignments, loaded.Eligible, personnelPerAssignment)
	if err != nil {
		return nil, err
	}

	oldOrder := loaded.Queue.Snapshot()
	if analysis.Balanced {
		logger.Info("Rotation already balanced, nothing to apply",
			zap.String("scope", scope.Key()))
		return &OptimizeRotationResult{
			Scope:    scope,
			Analysis: analysis,
			OldOrder: oldOrder,
			NewOrder: oldOrder,
			Applied:  false,
		}, nil
	}

	newOrder := stats.BuildOptimizedOrder(analysis, oldOrder)
	if err := loaded.Queue.Reorder(newOrder); err != nil {
		return nil, fmt.Errorf("failed to apply optimized order: %w", err)
	}
	if err := database.ReplaceQueue(ctx, scope, loaded.Queue.Order); err != nil {
		return nil, fmt.Errorf("failed to save rotation queue: %w", err)
	}

	logger.Info("Optimized rotation queue",
		zap.String("scope", scope.Key()),
		zap.Int("underloaded", len(analysis.Underloaded)),
		zap.Int("overloaded", len(analysis.Overloaded)))

	return &OptimizeRotationResult{
		Scope:    scope,
		Analysis: analysis,
		OldOrder: oldOrder,
		NewOrder: loaded.Queue.Snapshot(),
		Applied:  true,
	}, nil
}
