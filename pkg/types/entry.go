package types

import "time"

// EntryType represents the kind of schedule fact an entry carries
type EntryType string

const (
	EntryWeeklyPattern   EntryType = "weekly_pattern"
	EntryDateSpecific    EntryType = "date_specific"
	EntryExternalBooking EntryType = "external_booking"
	EntryStaffProfile    EntryType = "staff_profile"
)

// EntryStatus represents entry status values
type EntryStatus string

const (
	StatusActive   EntryStatus = "active"
	StatusInactive EntryStatus = "inactive"
)

// OverrideKind identifies the variant of a date-specific override
type OverrideKind string

const (
	OverrideDayOff       OverrideKind = "day_off"
	OverrideSpecialHours OverrideKind = "special_hours"
)

// OverrideDetail is the payload of a date-specific entry. The kind is a closed
// variant so the resolver switches on it exhaustively instead of probing a
// loosely typed metadata bag.
type OverrideDetail struct {
	Kind   OverrideKind `json:"kind"`
	Reason string       `json:"reason,omitempty"`
}

// BookingDetail is the payload of an external-booking entry
type BookingDetail struct {
	ExternalID   string `json:"external_id"`
	SourceSystem string `json:"source_system"`
}

// Entry represents a single schedule fact for one staff member: a recurring
// weekly pattern, a one-off date-specific override, an externally booked
// appointment, or a staff profile marker.
type Entry struct {
	ID       string      `json:"id" db:"id"`
	StaffID  string      `json:"staff_id" db:"staff_id"`
	Type     EntryType   `json:"entry_type" db:"entry_type"`
	Status   EntryStatus `json:"status" db:"status"`
	Priority int         `json:"priority" db:"priority"`

	// DayOfWeek is set only for weekly patterns: 0 (Sunday) through 6.
	DayOfWeek *int `json:"day_of_week,omitempty" db:"day_of_week"`

	// Weekly patterns are active while EffectiveDate <= target <= ExpiryDate;
	// unbounded ends are allowed. Date-specific and booking entries use
	// EffectiveDate alone as the exact calendar day they apply to.
	EffectiveDate *time.Time `json:"effective_date,omitempty" db:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`

	// Wall-clock times in HH:MM form. Both empty for full-day overrides.
	StartTime string `json:"start_time,omitempty" db:"start_time"`
	EndTime   string `json:"end_time,omitempty" db:"end_time"`

	Override *OverrideDetail `json:"override,omitempty"`
	Booking  *BookingDetail  `json:"booking,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsDayOff reports whether the entry is a date-specific day-off override
func (e *Entry) IsDayOff() bool {
	return e.Type == EntryDateSpecific && e.Override != nil && e.Override.Kind == OverrideDayOff
}

// HasTimes reports whether both wall-clock fields are present
func (e *Entry) HasTimes() bool {
	return e.StartTime != "" && e.EndTime != ""
}

// EntryFilters represents filters for entry-store queries
type EntryFilters struct {
	StaffIDs       []string    `json:"staff_ids,omitempty"`
	Types          []EntryType `json:"entry_types,omitempty"`
	Status         EntryStatus `json:"status,omitempty"`
	DayOfWeek      *int        `json:"day_of_week,omitempty"`
	DateFrom       time.Time   `json:"date_from,omitempty"`
	DateTo         time.Time   `json:"date_to,omitempty"`
	IncludeExpired bool        `json:"include_expired,omitempty"`
	Limit          int         `json:"limit,omitempty"`
	Offset         int         `json:"offset,omitempty"`
}

// EntryDraft carries the caller-supplied fields for a new entry. ID, status
// and timestamps are stamped by the service.
type EntryDraft struct {
	StaffID       string          `json:"staff_id"`
	Type          EntryType       `json:"entry_type"`
	Priority      int             `json:"priority,omitempty"`
	DayOfWeek     *int            `json:"day_of_week,omitempty"`
	EffectiveDate *time.Time      `json:"effective_date,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	StartTime     string          `json:"start_time,omitempty"`
	EndTime       string          `json:"end_time,omitempty"`
	Override      *OverrideDetail `json:"override,omitempty"`
	Booking       *BookingDetail  `json:"booking,omitempty"`
}

// EntryPatch represents updates to an entry. Type and staff ownership are
// immutable; a patch may only touch status and scalar schedule fields.
type EntryPatch struct {
	Status        *EntryStatus    `json:"status,omitempty"`
	Priority      *int            `json:"priority,omitempty"`
	DayOfWeek     *int            `json:"day_of_week,omitempty"`
	EffectiveDate *time.Time      `json:"effective_date,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	StartTime     *string         `json:"start_time,omitempty"`
	EndTime       *string         `json:"end_time,omitempty"`
	Override      *OverrideDetail `json:"override,omitempty"`
}
