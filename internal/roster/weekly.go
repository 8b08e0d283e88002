package roster

import (
	"sync"
	"time"

	"github.com/rosterly/staff-roster/pkg/types"
)

const daysPerWeek = 7

// BuildWeeklyRoster resolves seven consecutive days starting at weekStart for
// each staff member. Days are emitted in calendar order and staff in the
// caller-supplied order. Resolution for distinct (staff, date) pairs is pure
// and independent, so each staff member's week is computed concurrently and
// the results reassembled in canonical order.
func BuildWeeklyRoster(staffIDs []string, weekStart time.Time, entriesByStaff map[string][]*types.Entry) *types.WeeklyRosterView {
	view := &types.WeeklyRosterView{
		WeekStart: weekStart,
		Staff:     make([]types.StaffWeek, len(staffIDs)),
	}

	var wg sync.WaitGroup
	for i, staffID := range staffIDs {
		wg.Add(1)
		go func(i int, staffID string) {
			defer wg.Done()
			view.Staff[i] = resolveStaffWeek(staffID, weekStart, entriesByStaff[staffID])
		}(i, staffID)
	}
	wg.Wait()

	summary := types.WeeklySummary{TotalStaff: len(staffIDs)}
	for _, week := range view.Staff {
		for _, day := range week.Days {
			summary.TotalHours += day.TotalHours
			summary.TotalAppointments += len(day.Appointments)
		}
	}
	view.Summary = summary

	return view
}

// resolveStaffWeek runs Filter then Resolver for each of the seven dates. A
// staff member with no applicable entries yields seven unavailable days.
func resolveStaffWeek(staffID string, weekStart time.Time, entries []*types.Entry) types.StaffWeek {
	week := types.StaffWeek{
		StaffID: staffID,
		Days:    make([]*types.ResolvedDaySchedule, daysPerWeek),
	}

	for offset := 0; offset < daysPerWeek; offset++ {
		date := weekStart.AddDate(0, 0, offset)
		applicable := ApplicableEntries(entries, date)
		week.Days[offset] = ResolveDay(staffID, date, applicable)
	}

	return week
}
