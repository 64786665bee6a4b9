package services

import (
	"context"
	"fmt"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// mockStore implements the persistence interfaces for testing.
type mockStore struct {
	queues      map[string][]string
	assignments []model.Assignment

	replacedAssignments  []model.Assignment
	replaceQueueCalls    int
	updatedAssignmentIDs []string

	getQueueErr           error
	replaceQueueErr       error
	listAssignmentsErr    error
	replaceAssignmentsErr error
	updateErr             error
}

func newMockStore() *mockStore {
	return &mockStore{queues: map[string][]string{}}
}

func (m *mockStore) GetQueue(ctx context.Context, scope model.Scope) ([]string, error) {
	if m.getQueueErr != nil {
		return nil, m.getQueueErr
	}
	order, ok := m.queues[scope.Key()]
	if !ok {
		return nil, model.ErrScopeNotFound
	}
	return append([]string(nil), order...), nil
}

func (m *mockStore) ReplaceQueue(ctx context.Context, scope model.Scope, order []string) error {
	if m.replaceQueueErr != nil {
		return m.replaceQueueErr
	}
	m.replaceQueueCalls++
	m.queues[scope.Key()] = append([]string(nil), order...)
	return nil
}

func (m *mockStore) ListAssignments(ctx context.Context, scope model.Scope, startDate, endDate string) ([]model.Assignment, error) {
	if m.listAssignmentsErr != nil {
		return nil, m.listAssignmentsErr
	}
	var out []model.Assignment
	for _, a := range m.assignments {
		if a.Scope == scope && a.StartDate <= endDate && startDate <= a.EndDate {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockStore) ReplaceAssignments(ctx context.Context, scope model.Scope, startDate, endDate string, assignments []model.Assignment) error {
	if m.replaceAssignmentsErr != nil {
		return m.replaceAssignmentsErr
	}
	kept := m.assignments[:0]
	for _, a := range m.assignments {
		if a.Scope == scope && a.StartDate <= endDate && startDate <= a.EndDate {
			continue
		}
		kept = append(kept, a)
	}
	m.assignments = append(kept, assignments...)
	m.replacedAssignments = append([]model.Assignment(nil), assignments...)
	return nil
}

func (m *mockStore) UpdateAssignmentPeople(ctx context.Context, assignmentID string, personIDs []string, understaffed bool) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.assignments {
		if m.assignments[i].ID == assignmentID {
			m.assignments[i].PersonIDs = append([]string(nil), personIDs...)
			m.assignments[i].Understaffed = understaffed
			m.updatedAssignmentIDs = append(m.updatedAssignmentIDs, assignmentID)
			return nil
		}
	}
	return model.ErrAssignmentNotFound
}

// mockDirectory implements db.Directory for testing.
type mockDirectory struct {
	people  []model.Person
	listErr error
	getErr  error
}

func (m *mockDirectory) ListEligiblePeople(ctx context.Context, scope model.Scope) ([]model.Person, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Person
	for _, p := range m.people {
		if p.EligibleFor(scope) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockDirectory) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.people {
		if p.ID == id {
			person := p
			return &person, nil
		}
	}
	return nil, fmt.Errorf("person %s not found", id)
}
