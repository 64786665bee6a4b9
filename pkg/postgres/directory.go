package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// ListEligiblePeople returns the people eligible for rotation within the
// scope, in directory order (last name, first name). Engineers rotate at
// sector level, collaborators at service level.
func (db *DB) ListEligiblePeople(ctx context.Context, scope model.Scope) ([]model.Person, error) {
	var rows pgx.Rows
	var err error
	if scope.SectorLevel() {
		rows, err = db.pool.Query(ctx, `
			SELECT id, first_name, last_name, role, site_id, COALESCE(sector_id, ''), COALESCE(service_id, '')
			FROM person
			WHERE site_id = $1 AND sector_id = $2 AND role = $3
			ORDER BY last_name, first_name
		`, scope.SiteID, scope.SectorID, string(model.RoleSectorEngineer))
	} else {
		rows, err = db.pool.Query(ctx, `
			SELECT id, first_name, last_name, role, site_id, COALESCE(sector_id, ''), COALESCE(service_id, '')
			FROM person
			WHERE site_id = $1 AND sector_id = $2 AND service_id = $3 AND role = $4
			ORDER BY last_name, first_name
		`, scope.SiteID, scope.SectorID, scope.ServiceID, string(model.RoleServiceCollaborator))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible people: %w", err)
	}

	people, err := scanPeople(rows)
	if err != nil {
		return nil, err
	}

	for i := range people {
		dates, err := db.unavailableDates(ctx, people[i].ID)
		if err != nil {
			return nil, err
		}
		people[i].UnavailableDates = dates
	}
	return people, nil
}

// GetPerson returns a person by identifier with their unavailable dates.
func (db *DB) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, role, site_id, COALESCE(sector_id, ''), COALESCE(service_id, '')
		FROM person
		WHERE id = $1
	`, id)

	var p model.Person
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Role, &p.SiteID, &p.SectorID, &p.ServiceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person %s not found", id)
		}
		return nil, fmt.Errorf("failed to query person: %w", err)
	}

	dates, err := db.unavailableDates(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.UnavailableDates = dates
	return &p, nil
}

func scanPeople(rows pgx.Rows) ([]model.Person, error) {
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Role, &p.SiteID, &p.SectorID, &p.ServiceID); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}
	return people, nil
}

func (db *DB) unavailableDates(ctx context.Context, personID string) ([]string, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT date FROM person_unavailable_date WHERE person_id = $1 ORDER BY date
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailable dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan unavailable date: %w", err)
		}
		dates = append(dates, date.Format(dateLayout))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unavailable dates: %w", err)
	}
	return dates, nil
}
