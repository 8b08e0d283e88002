package interfaces

import (
	"time"

	"github.com/rosterly/staff-roster/pkg/types"
)

// RosterService defines the interface for schedule resolution and entry management
type RosterService interface {
	// Entry management
	CreateEntry(draft *types.EntryDraft) (*types.Entry, error)
	GetEntry(entryID string) (*types.Entry, error)
	UpdateEntry(entryID string, patch *types.EntryPatch) (*types.Entry, error)
	DeactivateEntry(entryID string) error
	GetEntries(filters *types.EntryFilters) ([]*types.Entry, error)

	// Schedule resolution
	GetDaySchedule(staffID string, date string) (*types.ResolvedDaySchedule, error)
	GetDaySlots(staffID string, date string, slotMinutes int) ([]*types.TimeSlot, error)
	GetWeeklyRoster(staffIDs []string, weekStart string) (*types.WeeklyRosterView, error)
	GetDashboard(staffIDs []string, weekStart string) (*types.DashboardMetrics, error)

	// Service management
	Start(addr string) error
	Stop() error
}

// EntryStore defines the interface for schedule-entry persistence. Fetch
// failures are returned to the caller unchanged; the core never retries.
type EntryStore interface {
	CreateEntry(entry *types.Entry) error
	GetEntryByID(id string) (*types.Entry, error)
	UpdateEntry(id string, patch *types.EntryPatch) error
	DeactivateEntry(id string) error
	ListEntries(filters *types.EntryFilters) ([]*types.Entry, error)

	// ListStaffEntries returns all active, non-profile entries relevant to the
	// given staff members inside the date window (weekly patterns whose
	// effective range intersects it plus exact-date entries inside it).
	ListStaffEntries(staffIDs []string, from, to time.Time) ([]*types.Entry, error)
}
