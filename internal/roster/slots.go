package roster

import (
	"fmt"

	"github.com/rosterly/staff-roster/pkg/types"
)

// GenerateSlots derives bookable time slots of a fixed duration from a
// resolved day's work periods. A trailing increment shorter than the slot
// duration is discarded. A slot is unavailable when a booking's half-open
// interval covers the slot's start minute; a booking ending exactly at the
// slot start does not block it.
func GenerateSlots(schedule *types.ResolvedDaySchedule, slotMinutes int) ([]*types.TimeSlot, error) {
	if slotMinutes <= 0 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput,
			fmt.Sprintf("slot duration must be positive, got %d", slotMinutes), nil)
	}

	if !schedule.IsAvailable {
		return []*types.TimeSlot{}, nil
	}

	bookings := bookingIntervals(schedule.Appointments)

	var slots []*types.TimeSlot
	for _, period := range schedule.WorkPeriods {
		start, err := parseClock(period.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(period.EndTime)
		if err != nil {
			continue
		}

		for cursor := start; cursor+slotMinutes <= end; cursor += slotMinutes {
			slot := &types.TimeSlot{
				StartTime:       formatClock(cursor),
				EndTime:         formatClock(cursor + slotMinutes),
				DurationMinutes: slotMinutes,
				IsAvailable:     true,
			}

			for _, b := range bookings {
				if b.start <= cursor && cursor < b.end {
					slot.IsAvailable = false
					slot.Booking = b.entry
					break
				}
			}

			slots = append(slots, slot)
		}
	}

	if slots == nil {
		slots = []*types.TimeSlot{}
	}
	return slots, nil
}

type bookingInterval struct {
	start int
	end   int
	entry *types.Entry
}

// bookingIntervals converts booking entries to minute intervals, ignoring
// bookings with missing or malformed times
func bookingIntervals(appointments []*types.Entry) []bookingInterval {
	var intervals []bookingInterval

	for _, apt := range appointments {
		if !apt.HasTimes() {
			continue
		}

		start, err := parseClock(apt.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(apt.EndTime)
		if err != nil {
			continue
		}

		intervals = append(intervals, bookingInterval{start: start, end: end, entry: apt})
	}

	return intervals
}
