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

// QueueResult contains a queue's state after an operation.
type QueueResult struct {
	Scope           model.Scope
	Order           []string
	PrunedPersonIDs []string
	Eligible        []model.Person
}

// GetRotationQueue returns the scope's queue, initializing it from directory
// order on first read and pruning stale entries. The actor needs at least
// Read. Because a first read seeds the queue, the operation takes the scope
// lock whenever it has to persist.
func GetRotationQueue(
	ctx context.Context,
	database db.QueueStore,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
) (*QueueResult, error) {
	if err := authz.RequireRead(actor, scope, "read queue of"); err != nil {
		return nil, err
	}

	loaded, err := loadQueue(ctx, database, directory, logger, scope)
	if err != nil {
		return nil, err
	}

	if loaded.changed() {
		release, err := locks.Acquire(ctx, scope)
		if err != nil {
			return nil, err
		}
		defer release()
		if err := database.ReplaceQueue(ctx, scope, loaded.Queue.Order); err != nil {
			return nil, fmt.Errorf("failed to save rotation queue: %w", err)
		}
	}

	return &QueueResult{
		Scope:           scope,
		Order:           loaded.Queue.Snapshot(),
		PrunedPersonIDs: loaded.Pruned,
		Eligible:        loaded.Eligible,
	}, nil
}

// ReorderRotation replaces the scope's queue order. The submission must be an
// exact permutation of the current eligible membership; anything else is
// rejected with the full diff and the queue is left unchanged. The actor must
// hold Manage.
func ReorderRotation(
	ctx context.Context,
	database db.QueueStore,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	newOrder []string,
) (*QueueResult, error) {
	logger.Debug("Starting reorderRotation",
		zap.String("scope", scope.Key()),
		zap.Int("submitted", len(newOrder)))

	if err := authz.RequireManage(actor, scope, "reorder queue of"); err != nil {
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

	if err := loaded.Queue.Reorder(newOrder); err != nil {
		return nil, err
	}

	if err := database.ReplaceQueue(ctx, scope, loaded.Queue.Order); err != nil {
		return nil, fmt.Errorf("failed to save rotation queue: %w", err)
	}

	logger.Info("Rotation queue reordered",
		zap.String("scope", scope.Key()),
		zap.Int("size", len(newOrder)))

	return &QueueResult{
		Scope:           scope,
		Order:           loaded.Queue.Snapshot(),
		PrunedPersonIDs: loaded.Pruned,
		Eligible:        loaded.Eligible,
	}, nil
}

// MoveToEndOfRotation sends one person to the back of the scope's queue.
// A no-op if they are already last. The actor must hold Manage.
func MoveToEndOfRotation(
	ctx context.Context,
	database db.QueueStore,
	directory db.Directory,
	locks *scopelock.Registry,
	logger *zap.Logger,
	actor model.Person,
	scope model.Scope,
	personID string,
) (*QueueResult, error) {
	logger.Debug("Starting moveToEndOfRotation",
		zap.String("scope", scope.Key()),
		zap.String("person_id", personID))

	if err := authz.RequireManage(actor, scope, "reorder queue of"); err != nil {
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

	if err := loaded.Queue.MoveToEnd(personID); err != nil {
		return nil, fmt.Errorf("move to end in scope %s: %w", scope, err)
	}

	if err := database.ReplaceQueue(ctx, scope, loaded.Queue.Order); err != nil {
		return nil, fmt.Errorf("failed to save rotation queue: %w", err)
	}

	logger.Info("Person moved to end of rotation",
		zap.String("scope", scope.Key()),
		zap.String("person_id", personID))

	return &QueueResult{
		Scope:           scope,
		Order:           loaded.Queue.Snapshot(),
		PrunedPersonIDs: loaded.Pruned,
		Eligible:        loaded.Eligible,
	}, nil
}
