package roster

import (
	"math"

	"github.com/rosterly/staff-roster/pkg/types"
)

// BuildDashboard derives dashboard counters from a weekly roster view. A
// staff member counts as active when at least one day of the week is
// available. The coverage rate compares scheduled hours against the
// theoretical maximum of theoreticalDayHours per day over the full week,
// rounded to the nearest whole percent.
func BuildDashboard(view *types.WeeklyRosterView, theoreticalDayHours int) *types.DashboardMetrics {
	metrics := &types.DashboardMetrics{}

	for _, week := range view.Staff {
		active := false
		for _, day := range week.Days {
			if day.IsAvailable {
				active = true
			}
			metrics.ScheduledHours += day.TotalHours
			metrics.TotalAppointments += len(day.Appointments)
		}
		if active {
			metrics.ActiveStaff++
		}
	}

	if metrics.ActiveStaff > 0 && theoreticalDayHours > 0 {
		max := float64(metrics.ActiveStaff * theoreticalDayHours * daysPerWeek)
		metrics.CoverageRate = int(math.Round(metrics.ScheduledHours / max * 100))
	}

	return metrics
}
