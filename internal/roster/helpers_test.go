package roster

import (
	"time"

	"github.com/rosterly/staff-roster/pkg/types"
)

// Fixed test dates: 2025-03-03 is a Monday, 2025-03-05 a Wednesday.
var (
	testMonday    = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	testWednesday = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	testBase      = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
)

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func weeklyEntry(id, staffID string, dayOfWeek int, start, end string, createdAt time.Time) *types.Entry {
	return &types.Entry{
		ID:        id,
		StaffID:   staffID,
		Type:      types.EntryWeeklyPattern,
		Status:    types.StatusActive,
		Priority:  10,
		DayOfWeek: intPtr(dayOfWeek),
		StartTime: start,
		EndTime:   end,
		CreatedAt: createdAt,
	}
}

func dayOffEntry(id, staffID string, date time.Time, reason string, createdAt time.Time) *types.Entry {
	return &types.Entry{
		ID:            id,
		StaffID:       staffID,
		Type:          types.EntryDateSpecific,
		Status:        types.StatusActive,
		Priority:      100,
		EffectiveDate: timePtr(date),
		Override:      &types.OverrideDetail{Kind: types.OverrideDayOff, Reason: reason},
		CreatedAt:     createdAt,
	}
}

func specialHoursEntry(id, staffID string, date time.Time, start, end string, createdAt time.Time) *types.Entry {
	return &types.Entry{
		ID:            id,
		StaffID:       staffID,
		Type:          types.EntryDateSpecific,
		Status:        types.StatusActive,
		Priority:      100,
		EffectiveDate: timePtr(date),
		StartTime:     start,
		EndTime:       end,
		Override:      &types.OverrideDetail{Kind: types.OverrideSpecialHours},
		CreatedAt:     createdAt,
	}
}

func bookingEntry(id, staffID string, date time.Time, start, end string, createdAt time.Time) *types.Entry {
	return &types.Entry{
		ID:            id,
		StaffID:       staffID,
		Type:          types.EntryExternalBooking,
		Status:        types.StatusActive,
		Priority:      50,
		EffectiveDate: timePtr(date),
		StartTime:     start,
		EndTime:       end,
		Booking:       &types.BookingDetail{ExternalID: "EXT-" + id, SourceSystem: "booking-portal"},
		CreatedAt:     createdAt,
	}
}
