package roster

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/rosterly/staff-roster/pkg/database"
	"github.com/rosterly/staff-roster/pkg/interfaces"
	"github.com/rosterly/staff-roster/pkg/logger"
	"github.com/rosterly/staff-roster/pkg/types"
)

const entryColumns = `id, staff_id, entry_type, status, priority, day_of_week,
	   effective_date, expiry_date, start_time, end_time, payload, created_at, updated_at`

// Repository implements the EntryStore interface on PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new entry-store repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.EntryStore {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateEntry inserts a new schedule entry
func (r *Repository) CreateEntry(entry *types.Entry) error {
	payload, err := marshalPayload(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry payload: %w", err)
	}

	query := `
		INSERT INTO schedule_entries (
			id, staff_id, entry_type, status, priority, day_of_week,
			effective_date, expiry_date, start_time, end_time, payload,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(query,
		entry.ID,
		entry.StaffID,
		string(entry.Type),
		string(entry.Status),
		entry.Priority,
		nullableInt(entry.DayOfWeek),
		nullableTime(entry.EffectiveDate),
		nullableTime(entry.ExpiryDate),
		nullableString(entry.StartTime),
		nullableString(entry.EndTime),
		payload,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create schedule entry")
		return fmt.Errorf("failed to create schedule entry: %w", err)
	}

	r.logger.WithStaffID(entry.StaffID).Infof("Created %s entry %s", entry.Type, entry.ID)
	return nil
}

// GetEntryByID retrieves a schedule entry by ID
func (r *Repository) GetEntryByID(id string) (*types.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries WHERE id = $1`, entryColumns)

	entry, err := r.scanEntry(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("entry not found: %s", id))
		}
		r.logger.WithError(err).Errorf("Failed to get entry %s", id)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry applies a patch to an existing entry. Entry type and staff
// ownership are immutable; only status and scalar schedule fields change, and
// every update produces a fresh updated_at timestamp.
func (r *Repository) UpdateEntry(id string, patch *types.EntryPatch) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if patch.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*patch.Status))
		argIndex++
	}

	if patch.Priority != nil {
		setParts = append(setParts, fmt.Sprintf("priority = $%d", argIndex))
		args = append(args, *patch.Priority)
		argIndex++
	}

	if patch.DayOfWeek != nil {
		setParts = append(setParts, fmt.Sprintf("day_of_week = $%d", argIndex))
		args = append(args, *patch.DayOfWeek)
		argIndex++
	}

	if patch.EffectiveDate != nil {
		setParts = append(setParts, fmt.Sprintf("effective_date = $%d", argIndex))
		args = append(args, *patch.EffectiveDate)
		argIndex++
	}

	if patch.ExpiryDate != nil {
		setParts = append(setParts, fmt.Sprintf("expiry_date = $%d", argIndex))
		args = append(args, *patch.ExpiryDate)
		argIndex++
	}

	if patch.StartTime != nil {
		setParts = append(setParts, fmt.Sprintf("start_time = $%d", argIndex))
		args = append(args, *patch.StartTime)
		argIndex++
	}

	if patch.EndTime != nil {
		setParts = append(setParts, fmt.Sprintf("end_time = $%d", argIndex))
		args = append(args, *patch.EndTime)
		argIndex++
	}

	if patch.Override != nil {
		payload, err := json.Marshal(patch.Override)
		if err != nil {
			return fmt.Errorf("failed to encode override payload: %w", err)
		}
		setParts = append(setParts, fmt.Sprintf("payload = $%d", argIndex))
		args = append(args, payload)
		argIndex++
	}

	if len(setParts) == 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no updates provided", nil)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE schedule_entries SET %s WHERE id = $%d", strings.Join(setParts, ", "), argIndex)
	args = append(args, id)

	start := time.Now()
	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to update entry %s", id)
		return fmt.Errorf("failed to update entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("entry not found: %s", id))
	}

	r.logger.StoreOperation("update", "schedule_entries", time.Since(start).Milliseconds(), rowsAffected, true)
	return nil
}

// DeactivateEntry soft deletes an entry by marking it inactive
func (r *Repository) DeactivateEntry(id string) error {
	query := `UPDATE schedule_entries SET status = 'inactive', updated_at = $1 WHERE id = $2`

	start := time.Now()
	result, err := r.db.Exec(query, start, id)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to deactivate entry %s", id)
		return fmt.Errorf("failed to deactivate entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("entry not found: %s", id))
	}

	r.logger.StoreOperation("deactivate", "schedule_entries", time.Since(start).Milliseconds(), rowsAffected, true)
	return nil
}

// ListEntries retrieves schedule entries based on filters
func (r *Repository) ListEntries(filters *types.EntryFilters) ([]*types.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries WHERE 1=1`, entryColumns)

	args := []interface{}{}
	argIndex := 1

	if len(filters.StaffIDs) > 0 {
		query += fmt.Sprintf(" AND staff_id = ANY($%d)", argIndex)
		args = append(args, pq.Array(filters.StaffIDs))
		argIndex++
	}

	if len(filters.Types) > 0 {
		entryTypes := make([]string, len(filters.Types))
		for i, t := range filters.Types {
			entryTypes[i] = string(t)
		}
		query += fmt.Sprintf(" AND entry_type = ANY($%d)", argIndex)
		args = append(args, pq.Array(entryTypes))
		argIndex++
	}

	status := filters.Status
	if status == "" {
		status = types.StatusActive
	}
	query += fmt.Sprintf(" AND status = $%d", argIndex)
	args = append(args, string(status))
	argIndex++

	if filters.DayOfWeek != nil {
		query += fmt.Sprintf(" AND day_of_week = $%d", argIndex)
		args = append(args, *filters.DayOfWeek)
		argIndex++
	}

	if !filters.DateFrom.IsZero() {
		query += fmt.Sprintf(" AND (effective_date IS NULL OR effective_date >= $%d OR entry_type = 'weekly_pattern')", argIndex)
		args = append(args, filters.DateFrom)
		argIndex++
	}

	if !filters.DateTo.IsZero() {
		query += fmt.Sprintf(" AND (effective_date IS NULL OR effective_date <= $%d)", argIndex)
		args = append(args, filters.DateTo)
		argIndex++
	}

	if !filters.IncludeExpired && !filters.DateFrom.IsZero() {
		query += fmt.Sprintf(" AND (expiry_date IS NULL OR expiry_date >= $%d)", argIndex)
		args = append(args, filters.DateFrom)
		argIndex++
	}

	query += " ORDER BY created_at ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	return r.queryEntries(query, args...)
}

// ListStaffEntries returns all active, non-profile entries relevant to the
// given staff members inside the date window
func (r *Repository) ListStaffEntries(staffIDs []string, from, to time.Time) ([]*types.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM schedule_entries
		WHERE staff_id = ANY($1)
		  AND status = 'active'
		  AND entry_type != 'staff_profile'
		  AND (
		    (entry_type = 'weekly_pattern'
		      AND (effective_date IS NULL OR effective_date <= $3)
		      AND (expiry_date IS NULL OR expiry_date >= $2))
		    OR (entry_type IN ('date_specific', 'external_booking')
		      AND effective_date >= $2 AND effective_date <= $3)
		  )
		ORDER BY created_at ASC`, entryColumns)

	return r.queryEntries(query, pq.Array(staffIDs), from, to)
}

func (r *Repository) queryEntries(query string, args ...interface{}) ([]*types.Entry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query schedule entries")
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.Entry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			r.logger.WithError(err).Error("Failed to scan schedule entry")
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanEntry(row rowScanner) (*types.Entry, error) {
	entry := &types.Entry{}
	var (
		entryType     string
		status        string
		dayOfWeek     sql.NullInt64
		effectiveDate sql.NullTime
		expiryDate    sql.NullTime
		startTime     sql.NullString
		endTime       sql.NullString
		payload       []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.StaffID,
		&entryType,
		&status,
		&entry.Priority,
		&dayOfWeek,
		&effectiveDate,
		&expiryDate,
		&startTime,
		&endTime,
		&payload,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Type = types.EntryType(entryType)
	entry.Status = types.EntryStatus(status)

	if dayOfWeek.Valid {
		dow := int(dayOfWeek.Int64)
		entry.DayOfWeek = &dow
	}
	if effectiveDate.Valid {
		d := effectiveDate.Time
		entry.EffectiveDate = &d
	}
	if expiryDate.Valid {
		d := expiryDate.Time
		entry.ExpiryDate = &d
	}
	if startTime.Valid {
		entry.StartTime = startTime.String
	}
	if endTime.Valid {
		entry.EndTime = endTime.String
	}

	if err := unmarshalPayload(entry, payload); err != nil {
		return nil, err
	}

	return entry, nil
}

// marshalPayload encodes the type-specific payload for storage
func marshalPayload(entry *types.Entry) ([]byte, error) {
	switch {
	case entry.Override != nil:
		return json.Marshal(entry.Override)
	case entry.Booking != nil:
		return json.Marshal(entry.Booking)
	default:
		return nil, nil
	}
}

// unmarshalPayload decodes the jsonb payload into the variant matching the
// entry type
func unmarshalPayload(entry *types.Entry, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}

	switch entry.Type {
	case types.EntryDateSpecific:
		detail := &types.OverrideDetail{}
		if err := json.Unmarshal(payload, detail); err != nil {
			return fmt.Errorf("failed to decode override payload for entry %s: %w", entry.ID, err)
		}
		entry.Override = detail

	case types.EntryExternalBooking:
		detail := &types.BookingDetail{}
		if err := json.Unmarshal(payload, detail); err != nil {
			return fmt.Errorf("failed to decode booking payload for entry %s: %w", entry.ID, err)
		}
		entry.Booking = detail
	}

	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
