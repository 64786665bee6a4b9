package calendar

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

const dateLayout = "2006-01-02"

// Holiday is one entry of the versioned public-holiday table. Lookups are
// exact-date; a new year requires a table update, not new logic.
type Holiday struct {
	Date string
	Name string
}

// Calendar classifies dates as weekend and/or public holiday. It carries the
// version of the holiday table it was built from.
type Calendar struct {
	version  string
	holidays map[string]string // ISO date -> holiday name
}

// New builds a calendar from a holiday table. Entries with unparseable dates
// are assumed to have been rejected by config validation already.
func New(version string, holidays []Holiday) *Calendar {
	byDate := make(map[string]string, len(holidays))
	for _, h := range holidays {
		byDate[h.Date] = h.Name
	}
	return &Calendar{version: version, holidays: byDate}
}

// Version returns the holiday table version the calendar was built from.
func (c *Calendar) Version() string {
	return c.version
}

// Classification is the result of classifying a single date.
type Classification struct {
	IsWeekend   bool
	IsHoliday   bool
	HolidayName string
}

// DutyEligible reports whether the date requires on-call coverage.
func (cl Classification) DutyEligible() bool {
	return cl.IsWeekend || cl.IsHoliday
}

// Classify determines whether a date is a weekend day or a designated holiday.
// Unknown dates simply classify as neither; there are no error conditions.
func (c *Calendar) Classify(date time.Time) Classification {
	var cl Classification
	wd := date.Weekday()
	cl.IsWeekend = wd == time.Saturday || wd == time.Sunday
	if name, ok := c.holidays[date.Format(dateLayout)]; ok {
		cl.IsHoliday = true
		cl.HolidayName = name
	}
	return cl
}

// DutyDates enumerates every duty-eligible date in [start, end] in
// chronological order. Weekends are expanded with a weekly Sat/Sun recurrence
// rule; holiday dates from the table are merged in.
func (c *Calendar) DutyDates(start, end time.Time) ([]string, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.SA, rrule.SU},
		Dtstart:   start,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dates []string
	for _, occ := range rule.Between(start, end, true) {
		iso := occ.Format(dateLayout)
		if !seen[iso] {
			seen[iso] = true
			dates = append(dates, iso)
		}
	}

	startISO := start.Format(dateLayout)
	endISO := end.Format(dateLayout)
	for date := range c.holidays {
		if date >= startISO && date <= endISO && !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}

	sort.Strings(dates)
	return dates, nil
}

// DutyBlock is a contiguous run of duty-eligible dates covered as one
// rotation slot: a Sat+Sun weekend, a bridged holiday weekend, or a lone
// holiday. Dates are chronological and inclusive.
type DutyBlock struct {
	Dates []string
	Kind  model.ShiftKind
}

// Start returns the first date of the block.
func (b DutyBlock) Start() string { return b.Dates[0] }

// End returns the last date of the block.
func (b DutyBlock) End() string { return b.Dates[len(b.Dates)-1] }

// DutyBlocks groups the duty-eligible dates of [start, end] into blocks of
// consecutive calendar dates. A block containing a designated holiday
// classifies as holiday kind, otherwise weekend.
func (c *Calendar) DutyBlocks(start, end time.Time) ([]DutyBlock, error) {
	dates, err := c.DutyDates(start, end)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	var blocks []DutyBlock
	current := []string{dates[0]}
	for _, date := range dates[1:] {
		if nextDay(current[len(current)-1]) == date {
			current = append(current, date)
			continue
		}
		blocks = append(blocks, c.buildBlock(current))
		current = []string{date}
	}
	blocks = append(blocks, c.buildBlock(current))
	return blocks, nil
}

func (c *Calendar) buildBlock(dates []string) DutyBlock {
	kind := model.ShiftWeekend
	for _, date := range dates {
		if _, ok := c.holidays[date]; ok {
			kind = model.ShiftHoliday
			break
		}
	}
	return DutyBlock{Dates: dates, Kind: kind}
}

func nextDay(iso string) string {
	t, err := time.Parse(dateLayout, iso)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
