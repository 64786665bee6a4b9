package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

func date(iso string) time.Time {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassify_Weekend(t *testing.T) {
	cal := New("2025.1", nil)

	sat := cal.Classify(date("2025-06-07")) // Saturday
	assert.True(t, sat.IsWeekend)
	assert.False(t, sat.IsHoliday)
	assert.True(t, sat.DutyEligible())

	sun := cal.Classify(date("2025-06-08")) // Sunday
	assert.True(t, sun.IsWeekend)
	assert.True(t, sun.DutyEligible())
}

func TestClassify_Weekday(t *testing.T) {
	cal := New("2025.1", nil)

	mon := cal.Classify(date("2025-06-09"))
	assert.False(t, mon.IsWeekend)
	assert.False(t, mon.IsHoliday)
	assert.False(t, mon.DutyEligible())
}

func TestClassify_Holiday(t *testing.T) {
	cal := New("2025.1", []Holiday{
		{Date: "2025-12-25", Name: "Christmas Day"},
	})

	// 2025-12-25 is a Thursday
	cl := cal.Classify(date("2025-12-25"))
	assert.False(t, cl.IsWeekend)
	assert.True(t, cl.IsHoliday)
	assert.Equal(t, "Christmas Day", cl.HolidayName)
	assert.True(t, cl.DutyEligible())
}

func TestClassify_HolidayOnWeekend(t *testing.T) {
	cal := New("2026.1", []Holiday{
		{Date: "2026-12-26", Name: "Boxing Day"},
	})

	// 2026-12-26 is a Saturday
	cl := cal.Classify(date("2026-12-26"))
	assert.True(t, cl.IsWeekend)
	assert.True(t, cl.IsHoliday)
}

func TestDutyDates_WeekendsOnly(t *testing.T) {
	cal := New("2025.1", nil)

	// Mon 2025-06-02 through Sun 2025-06-15: two full weekends
	dates, err := cal.DutyDates(date("2025-06-02"), date("2025-06-15"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-07", "2025-06-08", "2025-06-14", "2025-06-15"}, dates)
}

func TestDutyDates_MergesHolidays(t *testing.T) {
	cal := New("2025.1", []Holiday{
		{Date: "2025-06-09", Name: "Whit Monday"}, // Monday after a weekend
	})

	dates, err := cal.DutyDates(date("2025-06-02"), date("2025-06-15"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-07", "2025-06-08", "2025-06-09", "2025-06-14", "2025-06-15"}, dates)
}

func TestDutyDates_HolidayOnWeekendNotDuplicated(t *testing.T) {
	cal := New("2026.1", []Holiday{
		{Date: "2026-12-26", Name: "Boxing Day"}, // Saturday
	})

	dates, err := cal.DutyDates(date("2026-12-21"), date("2026-12-27"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-12-26", "2026-12-27"}, dates)
}

func TestDutyDates_HolidayOutsideRangeIgnored(t *testing.T) {
	cal := New("2025.1", []Holiday{
		{Date: "2025-12-25", Name: "Christmas Day"},
	})

	dates, err := cal.DutyDates(date("2025-06-02"), date("2025-06-06"))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestDutyDates_EndBeforeStart(t *testing.T) {
	cal := New("2025.1", nil)

	dates, err := cal.DutyDates(date("2025-06-15"), date("2025-06-02"))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestDutyBlocks_WeekendIsOneBlock(t *testing.T) {
	cal := New("2025.1", nil)

	blocks, err := cal.DutyBlocks(date("2025-06-02"), date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, []string{"2025-06-07", "2025-06-08"}, blocks[0].Dates)
	assert.Equal(t, model.ShiftWeekend, blocks[0].Kind)
	assert.Equal(t, "2025-06-07", blocks[0].Start())
	assert.Equal(t, "2025-06-08", blocks[0].End())

	assert.Equal(t, []string{"2025-06-14", "2025-06-15"}, blocks[1].Dates)
}

func TestDutyBlocks_BridgedHolidayExtendsWeekend(t *testing.T) {
	cal := New("2025.1", []Holiday{
		{Date: "2025-06-09", Name: "Whit Monday"},
	})

	blocks, err := cal.DutyBlocks(date("2025-06-02"), date("2025-06-10"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	// Sat+Sun+Mon collapse into one holiday block.
	assert.Equal(t, []string{"2025-06-07", "2025-06-08", "2025-06-09"}, blocks[0].Dates)
	assert.Equal(t, model.ShiftHoliday, blocks[0].Kind)
}

func TestDutyBlocks_IsolatedHolidayIsOwnBlock(t *testing.T) {
	cal := New("2025.1", []Holiday{
		{Date: "2025-06-11", Name: "Foundation Day"}, // Wednesday
	})

	blocks, err := cal.DutyBlocks(date("2025-06-09"), date("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, []string{"2025-06-11"}, blocks[0].Dates)
	assert.Equal(t, model.ShiftHoliday, blocks[0].Kind)
	assert.Equal(t, []string{"2025-06-14", "2025-06-15"}, blocks[1].Dates)
	assert.Equal(t, model.ShiftWeekend, blocks[1].Kind)
}

func TestDutyBlocks_EmptyRange(t *testing.T) {
	cal := New("2025.1", nil)

	blocks, err := cal.DutyBlocks(date("2025-06-09"), date("2025-06-13"))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestVersion(t *testing.T) {
	cal := New("2025.2", nil)
	assert.Equal(t, "2025.2", cal.Version())
}
