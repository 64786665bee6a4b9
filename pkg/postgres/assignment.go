package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

const dateLayout = "2006-01-02"

// ListAssignments retrieves the scope's assignments intersecting the
// inclusive [startDate, endDate] range, chronological.
func (db *DB) ListAssignments(ctx context.Context, scope model.Scope, startDate, endDate string) ([]model.Assignment, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, start_date, end_date, kind, understaffed, generated_at
		FROM assignment
		WHERE site_id = $1 AND sector_id = $2 AND service_id = $3
		  AND start_date <= $5::date AND end_date >= $4::date
		ORDER BY start_date, kind
	`, scope.SiteID, scope.SectorID, scope.ServiceID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var start, end time.Time
		var generatedAt *time.Time
		if err := rows.Scan(&a.ID, &start, &end, &a.Kind, &a.Understaffed, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Scope = scope
		a.StartDate = start.Format(dateLayout)
		a.EndDate = end.Format(dateLayout)
		if generatedAt != nil {
			a.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	for i := range assignments {
		people, err := db.assignmentPeople(ctx, assignments[i].ID)
		if err != nil {
			return nil, err
		}
		assignments[i].PersonIDs = people
	}
	return assignments, nil
}

// ReplaceAssignments clears the scope's assignments overlapping the range and
// inserts the new set as one transaction. An aborted run rolls back fully;
// partial results are never visible.
func (db *DB) ReplaceAssignments(ctx context.Context, scope model.Scope, startDate, endDate string, assignments []model.Assignment) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM assignment
		WHERE site_id = $1 AND sector_id = $2 AND service_id = $3
		  AND start_date <= $5::date AND end_date >= $4::date
	`, scope.SiteID, scope.SectorID, scope.ServiceID, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, a := range assignments {
		if err := insertAssignment(ctx, tx, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateAssignmentPeople rewrites the person set and understaffed flag of one
// assignment.
func (db *DB) UpdateAssignmentPeople(ctx context.Context, assignmentID string, personIDs []string, understaffed bool) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE assignment SET understaffed = $2 WHERE id = $1
	`, assignmentID, understaffed)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s: %w", assignmentID, model.ErrAssignmentNotFound)
	}

	_, err = tx.Exec(ctx, `DELETE FROM assignment_person WHERE assignment_id = $1`, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to clear assignment people: %w", err)
	}
	for _, personID := range personIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment_person (assignment_id, person_id) VALUES ($1, $2)
		`, assignmentID, personID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment person: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertAssignment(ctx context.Context, tx pgx.Tx, a model.Assignment) error {
	var generatedAt *time.Time
	if a.GeneratedAt != "" {
		t, err := time.Parse(time.RFC3339, a.GeneratedAt)
		if err != nil {
			return fmt.Errorf("failed to parse generated_at for assignment %s: %w", a.ID, err)
		}
		generatedAt = &t
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO assignment (id, site_id, sector_id, service_id, start_date, end_date, kind, understaffed, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Scope.SiteID, a.Scope.SectorID, a.Scope.ServiceID, a.StartDate, a.EndDate, a.Kind, a.Understaffed, generatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	for _, personID := range a.PersonIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment_person (assignment_id, person_id) VALUES ($1, $2)
		`, a.ID, personID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment person: %w", err)
		}
	}
	return nil
}

func (db *DB) assignmentPeople(ctx context.Context, assignmentID string) ([]string, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT person_id FROM assignment_person WHERE assignment_id = $1 ORDER BY person_id
	`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment people: %w", err)
	}
	defer rows.Close()

	var people []string
	for rows.Next() {
		var personID string
		if err := rows.Scan(&personID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment person: %w", err)
		}
		people = append(people, personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment people: %w", err)
	}
	return people, nil
}
