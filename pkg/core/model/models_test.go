package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Rotates(t *testing.T) {
	assert.True(t, RoleSectorEngineer.Rotates())
	assert.True(t, RoleServiceCollaborator.Rotates())
	assert.False(t, RoleAdmin.Rotates())
	assert.False(t, RoleSectorChief.Rotates())
	assert.False(t, RoleServiceChief.Rotates())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleSectorChief.IsValid())
	assert.False(t, Role("janitor").IsValid())
}

func TestScope_Key(t *testing.T) {
	sector := Scope{SiteID: "lyon", SectorID: "propulsion"}
	assert.True(t, sector.SectorLevel())
	assert.Equal(t, "lyon/propulsion", sector.Key())

	service := Scope{SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}
	assert.False(t, service.SectorLevel())
	assert.Equal(t, "lyon/propulsion/turbines", service.Key())
}

func TestPerson_EligibleFor(t *testing.T) {
	sector := Scope{SiteID: "lyon", SectorID: "propulsion"}
	service := Scope{SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}

	eng := Person{ID: "e", Role: RoleSectorEngineer, SiteID: "lyon", SectorID: "propulsion"}
	assert.True(t, eng.EligibleFor(sector))
	assert.False(t, eng.EligibleFor(service))

	collab := Person{ID: "c", Role: RoleServiceCollaborator, SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}
	assert.True(t, collab.EligibleFor(service))
	assert.False(t, collab.EligibleFor(sector))
	assert.False(t, collab.EligibleFor(Scope{SiteID: "lyon", SectorID: "propulsion", ServiceID: "compressors"}))

	// Chiefs administer but never rotate.
	chief := Person{ID: "s", Role: RoleSectorChief, SiteID: "lyon", SectorID: "propulsion"}
	assert.False(t, chief.EligibleFor(sector))
}

func TestAssignment_Covers(t *testing.T) {
	a := Assignment{StartDate: "2025-06-07", EndDate: "2025-06-08"}

	assert.True(t, a.Covers("2025-06-07"))
	assert.True(t, a.Covers("2025-06-08"))
	assert.False(t, a.Covers("2025-06-06"))
	assert.False(t, a.Covers("2025-06-09"))
}

func TestAssignment_Overlaps(t *testing.T) {
	weekend := Assignment{StartDate: "2025-06-07", EndDate: "2025-06-08", Kind: ShiftWeekend}
	bridged := Assignment{StartDate: "2025-06-08", EndDate: "2025-06-09", Kind: ShiftHoliday}
	next := Assignment{StartDate: "2025-06-14", EndDate: "2025-06-15", Kind: ShiftWeekend}

	assert.True(t, weekend.Overlaps(bridged))
	assert.False(t, weekend.Overlaps(next))
}

func TestAssignment_Overlaps_DayNightDisjoint(t *testing.T) {
	day := Assignment{StartDate: "2025-12-25", EndDate: "2025-12-25", Kind: ShiftDay}
	night := Assignment{StartDate: "2025-12-25", EndDate: "2025-12-25", Kind: ShiftNight}

	// Splitting a holiday into day and night halves means the same date
	// carries two non-conflicting assignments.
	assert.False(t, day.Overlaps(night))
	assert.False(t, night.Overlaps(day))
	assert.True(t, day.Overlaps(day))
}

func TestAssignment_Contains(t *testing.T) {
	a := Assignment{PersonIDs: []string{"a", "b"}}

	assert.True(t, a.Contains("a"))
	assert.False(t, a.Contains("ghost"))
}
