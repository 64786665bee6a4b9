package postgres

import (
	"context"
	"fmt"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// GetQueue retrieves the persisted rotation order for a scope, head first.
// Returns model.ErrScopeNotFound when the scope has never been initialized.
func (db *DB) GetQueue(ctx context.Context, scope model.Scope) ([]string, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT person_id
		FROM rotation_queue
		WHERE site_id = $1 AND sector_id = $2 AND service_id = $3
		ORDER BY position
	`, scope.SiteID, scope.SectorID, scope.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rotation queue: %w", err)
	}
	defer rows.Close()

	var order []string
	for rows.Next() {
		var personID string
		if err := rows.Scan(&personID); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		order = append(order, personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue entries: %w", err)
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("queue for scope %s: %w", scope, model.ErrScopeNotFound)
	}
	return order, nil
}

// ReplaceQueue replaces the scope's rotation order as one transaction.
func (db *DB) ReplaceQueue(ctx context.Context, scope model.Scope, order []string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM rotation_queue
		WHERE site_id = $1 AND sector_id = $2 AND service_id = $3
	`, scope.SiteID, scope.SectorID, scope.ServiceID)
	if err != nil {
		return fmt.Errorf("failed to clear rotation queue: %w", err)
	}

	for position, personID := range order {
		_, err := tx.Exec(ctx, `
			INSERT INTO rotation_queue (site_id, sector_id, service_id, position, person_id)
			VALUES ($1, $2, $3, $4, $5)
		`, scope.SiteID, scope.SectorID, scope.ServiceID, position, personID)
		if err != nil {
			return fmt.Errorf("failed to insert queue entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
