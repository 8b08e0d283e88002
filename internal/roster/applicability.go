package roster

import (
	"time"

	"github.com/rosterly/staff-roster/pkg/types"
)

// ApplicableEntries returns the subset of entries that apply to the target
// date. Weekly patterns apply when their day of week matches and the date
// falls inside their effective window; date-specific and booking entries
// apply only on their exact calendar day. Staff profiles carry no schedule
// information and never apply.
func ApplicableEntries(entries []*types.Entry, targetDate time.Time) []*types.Entry {
	var applicable []*types.Entry

	for _, entry := range entries {
		if appliesTo(entry, targetDate) {
			applicable = append(applicable, entry)
		}
	}

	return applicable
}

func appliesTo(entry *types.Entry, targetDate time.Time) bool {
	switch entry.Type {
	case types.EntryWeeklyPattern:
		if entry.DayOfWeek == nil || *entry.DayOfWeek != int(targetDate.Weekday()) {
			return false
		}
		if entry.EffectiveDate != nil && dayBefore(targetDate, *entry.EffectiveDate) {
			return false
		}
		if entry.ExpiryDate != nil && dayBefore(*entry.ExpiryDate, targetDate) {
			return false
		}
		return true

	case types.EntryDateSpecific, types.EntryExternalBooking:
		return entry.EffectiveDate != nil && sameDay(*entry.EffectiveDate, targetDate)

	default:
		return false
	}
}

// sameDay compares calendar days, ignoring time of day
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayBefore reports whether calendar day a precedes calendar day b
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
