package availability

import "github.com/dutyroster/rotation-engine/pkg/core/model"

// Tracker answers availability questions for a set of people. It is built
// from directory data and is read-only; leave and exemptions are maintained
// by the directory, never here.
type Tracker struct {
	unavailable map[string]map[string]bool // personID -> ISO date -> true
}

// NewTracker indexes the unavailable dates of the given people.
func NewTracker(people []model.Person) *Tracker {
	t := &Tracker{unavailable: make(map[string]map[string]bool, len(people))}
	for _, p := range people {
		dates := make(map[string]bool, len(p.UnavailableDates))
		for _, d := range p.UnavailableDates {
			dates[d] = true
		}
		t.unavailable[p.ID] = dates
	}
	return t
}

// IsAvailable reports whether the person can be assigned on the given ISO
// date. Unknown people are treated as available; eligibility is checked
// separately against the directory.
func (t *Tracker) IsAvailable(personID, date string) bool {
	return !t.unavailable[personID][date]
}

// AvailableSubset filters personIDs to those available on the date,
// preserving order.
func (t *Tracker) AvailableSubset(personIDs []string, date string) []string {
	subset := make([]string, 0, len(personIDs))
	for _, id := range personIDs {
		if t.IsAvailable(id, date) {
			subset = append(subset, id)
		}
	}
	return subset
}

// AvailableForAll reports whether the person is available on every date.
// Duty blocks span multiple dates and a person covers the whole block or
// none of it.
func (t *Tracker) AvailableForAll(personID string, dates []string) bool {
	for _, date := range dates {
		if !t.IsAvailable(personID, date) {
			return false
		}
	}
	return true
}
