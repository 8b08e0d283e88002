package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// minutesPerDay bounds valid wall-clock offsets; 24:00 is accepted as an
// exclusive period end.
const minutesPerDay = 24 * 60

// parseClock converts an HH:MM wall-clock string to minutes since midnight
func parseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}

	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", value)
	}

	total := hours*60 + minutes
	if total > minutesPerDay {
		return 0, fmt.Errorf("invalid time %q: out of range", value)
	}

	return total, nil
}

// formatClock converts minutes since midnight back to an HH:MM string
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// clockDuration returns the duration in minutes between two HH:MM times
func clockDuration(start, end string) (int, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return 0, err
	}

	endMin, err := parseClock(end)
	if err != nil {
		return 0, err
	}

	if endMin <= startMin {
		return 0, fmt.Errorf("end time %q is not after start time %q", end, start)
	}

	return endMin - startMin, nil
}
