package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/staff-roster/pkg/types"
)

func TestResolveDay_WeeklyPattern(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase)

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{pattern})

	assert.Equal(t, "staff-1", schedule.StaffID)
	assert.Equal(t, 1, schedule.DayOfWeek)
	assert.True(t, schedule.IsAvailable)
	require.Len(t, schedule.WorkPeriods, 1)
	assert.Equal(t, "08:00", schedule.WorkPeriods[0].StartTime)
	assert.Equal(t, "16:00", schedule.WorkPeriods[0].EndTime)
	assert.Equal(t, types.PeriodRegular, schedule.WorkPeriods[0].Kind)
	assert.Equal(t, 8.0, schedule.TotalHours)
	assert.Empty(t, schedule.Appointments)
}

func TestResolveDay_DayOffOverridesWeeklyPattern(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase)
	dayOff := dayOffEntry("do-1", "staff-1", testMonday, "Vacation", testBase.Add(time.Hour))

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{pattern, dayOff})

	assert.False(t, schedule.IsAvailable)
	assert.Empty(t, schedule.WorkPeriods)
	assert.Equal(t, 0.0, schedule.TotalHours)
	assert.Contains(t, schedule.Notes, "Vacation")
}

func TestResolveDay_DayOffOverridesRegardlessOfInputOrder(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase)
	dayOff := dayOffEntry("do-1", "staff-1", testMonday, "Vacation", testBase.Add(time.Hour))

	// The day off folds after the pattern because of its higher priority,
	// even when the store returns it first.
	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{dayOff, pattern})

	assert.False(t, schedule.IsAvailable)
	assert.Empty(t, schedule.WorkPeriods)
	assert.Equal(t, 0.0, schedule.TotalHours)
}

func TestResolveDay_DayOffDefaultReason(t *testing.T) {
	dayOff := dayOffEntry("do-1", "staff-1", testMonday, "", testBase)

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{dayOff})

	assert.Contains(t, schedule.Notes, "Day off")
}

func TestResolveDay_SpecialHoursAccumulateWithPattern(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "12:00", testBase)
	special := specialHoursEntry("sh-1", "staff-1", testMonday, "18:00", "20:00", testBase.Add(time.Hour))

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{pattern, special})

	assert.True(t, schedule.IsAvailable)
	require.Len(t, schedule.WorkPeriods, 2)
	assert.Equal(t, types.PeriodRegular, schedule.WorkPeriods[0].Kind)
	assert.Equal(t, types.PeriodSpecial, schedule.WorkPeriods[1].Kind)
	assert.Equal(t, 6.0, schedule.TotalHours)
}

func TestResolveDay_EqualPriorityFoldsInCreationOrder(t *testing.T) {
	older := weeklyEntry("wp-a", "staff-1", 1, "08:00", "12:00", testBase)
	newer := weeklyEntry("wp-b", "staff-1", 1, "13:00", "17:00", testBase.Add(time.Minute))

	for _, entries := range [][]*types.Entry{
		{older, newer},
		{newer, older},
	} {
		schedule := ResolveDay("staff-1", testMonday, entries)

		require.Len(t, schedule.WorkPeriods, 2)
		assert.Equal(t, "08:00", schedule.WorkPeriods[0].StartTime)
		assert.Equal(t, "13:00", schedule.WorkPeriods[1].StartTime)
		assert.Equal(t, 8.0, schedule.TotalHours)
	}
}

func TestResolveDay_EqualPriorityAndTimestampTieBreaksByID(t *testing.T) {
	first := weeklyEntry("wp-a", "staff-1", 1, "08:00", "12:00", testBase)
	second := weeklyEntry("wp-b", "staff-1", 1, "13:00", "17:00", testBase)

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{second, first})

	require.Len(t, schedule.WorkPeriods, 2)
	assert.Equal(t, "08:00", schedule.WorkPeriods[0].StartTime)
	assert.Equal(t, "13:00", schedule.WorkPeriods[1].StartTime)
}

func TestResolveDay_SpecialHoursAfterDayOffStillApply(t *testing.T) {
	dayOff := dayOffEntry("do-1", "staff-1", testMonday, "Clinic closed", testBase)
	special := specialHoursEntry("sh-1", "staff-1", testMonday, "18:00", "20:00", testBase.Add(time.Hour))

	// Both are date-specific at equal priority; the day off folds first by
	// creation order and only discards what preceded it.
	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{special, dayOff})

	assert.True(t, schedule.IsAvailable)
	require.Len(t, schedule.WorkPeriods, 1)
	assert.Equal(t, "18:00", schedule.WorkPeriods[0].StartTime)
	assert.Equal(t, 2.0, schedule.TotalHours)
	assert.Contains(t, schedule.Notes, "Clinic closed")
}

func TestResolveDay_BookingsCollectWithoutAffectingPeriods(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 3, "09:00", "17:00", testBase)
	booking := bookingEntry("bk-1", "staff-1", testWednesday, "13:00", "13:30", testBase.Add(time.Hour))

	schedule := ResolveDay("staff-1", testWednesday, []*types.Entry{pattern, booking})

	assert.True(t, schedule.IsAvailable)
	assert.Len(t, schedule.WorkPeriods, 1)
	assert.Equal(t, 8.0, schedule.TotalHours)
	require.Len(t, schedule.Appointments, 1)
	assert.Equal(t, "bk-1", schedule.Appointments[0].ID)
}

func TestResolveDay_NoEntriesYieldsUnavailableDay(t *testing.T) {
	schedule := ResolveDay("staff-1", testMonday, nil)

	assert.False(t, schedule.IsAvailable)
	assert.NotNil(t, schedule.WorkPeriods)
	assert.Empty(t, schedule.WorkPeriods)
	assert.Equal(t, 0.0, schedule.TotalHours)
}

func TestResolveDay_MalformedEntriesSkippedWithNotes(t *testing.T) {
	missingEnd := weeklyEntry("wp-bad", "staff-1", 1, "08:00", "", testBase)
	inverted := weeklyEntry("wp-inv", "staff-1", 1, "16:00", "08:00", testBase.Add(time.Minute))
	noPayload := &types.Entry{
		ID:            "do-bad",
		StaffID:       "staff-1",
		Type:          types.EntryDateSpecific,
		Status:        types.StatusActive,
		Priority:      100,
		EffectiveDate: timePtr(testMonday),
		CreatedAt:     testBase.Add(2 * time.Minute),
	}
	good := weeklyEntry("wp-good", "staff-1", 1, "09:00", "17:00", testBase.Add(3*time.Minute))

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{missingEnd, inverted, noPayload, good})

	assert.True(t, schedule.IsAvailable)
	require.Len(t, schedule.WorkPeriods, 1)
	assert.Equal(t, "09:00", schedule.WorkPeriods[0].StartTime)
	assert.Equal(t, 8.0, schedule.TotalHours)
	assert.Len(t, schedule.Notes, 3)
}

func TestResolveDay_UnknownOverrideKindSkipped(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase)
	unknown := &types.Entry{
		ID:            "do-odd",
		StaffID:       "staff-1",
		Type:          types.EntryDateSpecific,
		Status:        types.StatusActive,
		Priority:      100,
		EffectiveDate: timePtr(testMonday),
		Override:      &types.OverrideDetail{Kind: "half_day"},
		CreatedAt:     testBase.Add(time.Hour),
	}

	schedule := ResolveDay("staff-1", testMonday, []*types.Entry{pattern, unknown})

	assert.True(t, schedule.IsAvailable)
	assert.Len(t, schedule.WorkPeriods, 1)
	assert.Equal(t, 8.0, schedule.TotalHours)
	assert.Len(t, schedule.Notes, 1)
}

func TestResolveDay_Deterministic(t *testing.T) {
	entries := []*types.Entry{
		weeklyEntry("wp-1", "staff-1", 1, "08:00", "12:00", testBase),
		specialHoursEntry("sh-1", "staff-1", testMonday, "14:00", "18:00", testBase.Add(time.Hour)),
		bookingEntry("bk-1", "staff-1", testMonday, "09:00", "09:30", testBase.Add(2*time.Hour)),
	}

	first := ResolveDay("staff-1", testMonday, entries)
	second := ResolveDay("staff-1", testMonday, entries)

	assert.Equal(t, first, second)
}

func TestResolveDay_InputSliceNotMutated(t *testing.T) {
	pattern := weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase)
	dayOff := dayOffEntry("do-1", "staff-1", testMonday, "Vacation", testBase.Add(time.Hour))
	entries := []*types.Entry{dayOff, pattern}

	ResolveDay("staff-1", testMonday, entries)

	assert.Equal(t, "do-1", entries[0].ID)
	assert.Equal(t, "wp-1", entries[1].ID)
}
