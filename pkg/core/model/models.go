package model

import "fmt"

// Role is a person's organizational role. The role decides both what a person
// may administer and which rotation level they are assignable to.
type Role string

const (
	RoleAdmin               Role = "admin"
	RoleSectorChief         Role = "sector-chief"
	RoleSectorEngineer      Role = "sector-engineer"
	RoleServiceChief        Role = "service-chief"
	RoleServiceCollaborator Role = "service-collaborator"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSectorChief, RoleSectorEngineer, RoleServiceChief, RoleServiceCollaborator:
		return true
	}
	return false
}

// Rotates reports whether the role is assignable to on-call duty at all.
// Chiefs and admins administer rotations but are never placed in one.
func (r Role) Rotates() bool {
	return r == RoleSectorEngineer || r == RoleServiceCollaborator
}

// Scope identifies which rotation queue and assignments an operation targets.
// ServiceID is empty for sector-level (engineer) rotation and set for
// service-level (collaborator) rotation.
type Scope struct {
	SiteID    string
	SectorID  string
	ServiceID string
}

// SectorLevel reports whether this is an engineer-level scope.
func (s Scope) SectorLevel() bool {
	return s.ServiceID == ""
}

// Key returns a stable identifier for the scope, used for locking and
// persistence keys.
func (s Scope) Key() string {
	if s.SectorLevel() {
		return fmt.Sprintf("%s/%s", s.SiteID, s.SectorID)
	}
	return fmt.Sprintf("%s/%s/%s", s.SiteID, s.SectorID, s.ServiceID)
}

func (s Scope) String() string {
	return s.Key()
}

// Person is a directory entry. SectorID and ServiceID may be empty depending
// on role: engineers carry a sector, collaborators a sector and a service.
// UnavailableDates holds ISO dates (2006-01-02) the person cannot be assigned.
type Person struct {
	ID               string
	FirstName        string
	LastName         string
	Role             Role
	SiteID           string
	SectorID         string
	ServiceID        string
	UnavailableDates []string
}

func (p Person) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// EligibleFor reports whether the person rotates within the given scope:
// engineers at sector level, collaborators at service level.
func (p Person) EligibleFor(scope Scope) bool {
	if p.SiteID != scope.SiteID || p.SectorID != scope.SectorID {
		return false
	}
	if scope.SectorLevel() {
		return p.Role == RoleSectorEngineer
	}
	return p.Role == RoleServiceCollaborator && p.ServiceID == scope.ServiceID
}

// ShiftKind classifies an assignment's coverage. Weekend and holiday cover a
// whole block of dates; day and night split a single holiday date when the
// scope is configured for it.
type ShiftKind string

const (
	ShiftWeekend ShiftKind = "weekend"
	ShiftHoliday ShiftKind = "holiday"
	ShiftDay     ShiftKind = "day"
	ShiftNight   ShiftKind = "night"
)

func (k ShiftKind) IsValid() bool {
	switch k {
	case ShiftWeekend, ShiftHoliday, ShiftDay, ShiftNight:
		return true
	}
	return false
}

// Assignment is one duty block: a contiguous date range within a scope covered
// by a set of people. A Sat+Sun weekend is a single assignment spanning both
// dates. StartDate and EndDate are inclusive ISO dates (2006-01-02).
type Assignment struct {
	ID           string
	Scope        Scope
	StartDate    string
	EndDate      string
	Kind         ShiftKind
	PersonIDs    []string
	Understaffed bool
	GeneratedAt  string // RFC3339; empty for manually created records
}

// Covers reports whether the assignment's date range includes the given ISO
// date. ISO dates compare correctly as strings.
func (a Assignment) Covers(date string) bool {
	return a.StartDate <= date && date <= a.EndDate
}

// Overlaps reports whether two inclusive date ranges intersect. Day and night
// splits of the same holiday are treated as disjoint coverage.
func (a Assignment) Overlaps(b Assignment) bool {
	if (a.Kind == ShiftDay && b.Kind == ShiftNight) || (a.Kind == ShiftNight && b.Kind == ShiftDay) {
		return false
	}
	return a.StartDate <= b.EndDate && b.StartDate <= a.EndDate
}

// Contains reports whether the person is part of the assignment.
func (a Assignment) Contains(personID string) bool {
	for _, id := range a.PersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}
