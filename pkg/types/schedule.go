package types

import "time"

// WorkPeriodKind distinguishes regular pattern hours from special-hours overrides
type WorkPeriodKind string

const (
	PeriodRegular WorkPeriodKind = "regular"
	PeriodSpecial WorkPeriodKind = "special"
)

// WorkPeriod is a contiguous working interval within a resolved day
type WorkPeriod struct {
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Kind      WorkPeriodKind `json:"kind"`
}

// ResolvedDaySchedule is the authoritative schedule for one staff member on
// one calendar date, derived from all applicable entries. It is computed on
// demand and never persisted.
type ResolvedDaySchedule struct {
	StaffID      string       `json:"staff_id"`
	Date         time.Time    `json:"date"`
	DayOfWeek    int          `json:"day_of_week"`
	IsAvailable  bool         `json:"is_available"`
	WorkPeriods  []WorkPeriod `json:"work_periods"`
	Appointments []*Entry     `json:"appointments"`
	TotalHours   float64      `json:"total_hours"`
	Notes        []string     `json:"notes,omitempty"`
}

// TimeSlot is a bookable increment derived from a resolved day's work periods
type TimeSlot struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	IsAvailable     bool   `json:"is_available"`
	Booking         *Entry `json:"booking,omitempty"`
}

// StaffWeek holds one staff member's resolved schedules for seven consecutive
// days in calendar order
type StaffWeek struct {
	StaffID string                 `json:"staff_id"`
	Days    []*ResolvedDaySchedule `json:"days"`
}

// WeeklySummary holds aggregate statistics over a weekly roster
type WeeklySummary struct {
	TotalStaff        int     `json:"total_staff"`
	TotalHours        float64 `json:"total_hours"`
	TotalAppointments int     `json:"total_appointments"`
}

// WeeklyRosterView is the resolved roster for a set of staff over one week.
// Staff appear in the order supplied by the caller.
type WeeklyRosterView struct {
	WeekStart time.Time     `json:"week_start"`
	Staff     []StaffWeek   `json:"staff"`
	Summary   WeeklySummary `json:"summary"`
}

// DashboardMetrics carries derived dashboard counters. CoverageRate compares
// scheduled hours against a theoretical weekly maximum, as a rounded percent.
type DashboardMetrics struct {
	ActiveStaff       int     `json:"active_staff"`
	ScheduledHours    float64 `json:"scheduled_hours"`
	TotalAppointments int     `json:"total_appointments"`
	CoverageRate      int     `json:"coverage_rate"`
}
