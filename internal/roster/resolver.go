package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/rosterly/staff-roster/pkg/types"
)

// ResolveDay folds a set of already-filtered entries into the authoritative
// schedule for one staff member on one date. Entries fold in ascending
// priority order (ties by creation order) so a higher-priority entry lands
// later and overrides what came before: a day-off override discards exactly
// the work periods folded before it. The fold is strictly order-dependent
// rather than a pick-the-winner rule: entries of equal priority accumulate.
func ResolveDay(staffID string, date time.Time, entries []*types.Entry) *types.ResolvedDaySchedule {
	schedule := &types.ResolvedDaySchedule{
		StaffID:     staffID,
		Date:        date,
		DayOfWeek:   int(date.Weekday()),
		IsAvailable: false,
		WorkPeriods: []types.WorkPeriod{},
		TotalHours:  0,
	}

	for _, entry := range orderForResolution(entries) {
		foldEntry(schedule, entry)
	}

	return schedule
}

// orderForResolution returns entries in fold order: ascending priority, ties
// by creation timestamp then ID. The input is first normalized to creation
// order so that ties resolve the same way regardless of how the store
// returned the rows.
func orderForResolution(entries []*types.Entry) []*types.Entry {
	ordered := make([]*types.Entry, len(entries))
	copy(ordered, entries)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	return ordered
}

// foldEntry applies a single entry to the running schedule. Malformed entries
// are recorded as notes and skipped; one bad entry never aborts the day.
func foldEntry(schedule *types.ResolvedDaySchedule, entry *types.Entry) {
	switch entry.Type {
	case types.EntryWeeklyPattern:
		appendWorkPeriod(schedule, entry, types.PeriodRegular)

	case types.EntryDateSpecific:
		foldOverride(schedule, entry)

	case types.EntryExternalBooking:
		schedule.Appointments = append(schedule.Appointments, entry)
	}
}

func foldOverride(schedule *types.ResolvedDaySchedule, entry *types.Entry) {
	if entry.Override == nil {
		schedule.Notes = append(schedule.Notes, fmt.Sprintf("skipped malformed entry %s: date-specific entry without override payload", entry.ID))
		return
	}

	switch entry.Override.Kind {
	case types.OverrideDayOff:
		// Hard reset: an explicit day off wins over everything folded so far.
		schedule.WorkPeriods = []types.WorkPeriod{}
		schedule.IsAvailable = false
		schedule.TotalHours = 0

		reason := entry.Override.Reason
		if reason == "" {
			reason = "Day off"
		}
		schedule.Notes = append(schedule.Notes, reason)

	case types.OverrideSpecialHours:
		appendWorkPeriod(schedule, entry, types.PeriodSpecial)

	default:
		schedule.Notes = append(schedule.Notes, fmt.Sprintf("skipped malformed entry %s: unknown override kind %q", entry.ID, entry.Override.Kind))
	}
}

func appendWorkPeriod(schedule *types.ResolvedDaySchedule, entry *types.Entry, kind types.WorkPeriodKind) {
	if !entry.HasTimes() {
		schedule.Notes = append(schedule.Notes, fmt.Sprintf("skipped malformed entry %s: missing start or end time", entry.ID))
		return
	}

	minutes, err := clockDuration(entry.StartTime, entry.EndTime)
	if err != nil {
		schedule.Notes = append(schedule.Notes, fmt.Sprintf("skipped malformed entry %s: %v", entry.ID, err))
		return
	}

	schedule.WorkPeriods = append(schedule.WorkPeriods, types.WorkPeriod{
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Kind:      kind,
	})
	schedule.IsAvailable = true
	schedule.TotalHours += float64(minutes) / 60.0
}
