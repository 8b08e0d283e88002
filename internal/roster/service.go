package roster

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rosterly/staff-roster/pkg/config"
	"github.com/rosterly/staff-roster/pkg/database"
	"github.com/rosterly/staff-roster/pkg/interfaces"
	"github.com/rosterly/staff-roster/pkg/logger"
	"github.com/rosterly/staff-roster/pkg/monitoring"
	"github.com/rosterly/staff-roster/pkg/types"
)

const dateLayout = "2006-01-02"

// Service implements the RosterService interface
type Service struct {
	config  *config.Config
	logger  *logger.Logger
	store   interfaces.EntryStore
	db      *database.DB
	metrics *monitoring.MetricsCollector
	server  *http.Server
}

// New creates a new roster service
func New(cfg *config.Config, log *logger.Logger) interfaces.RosterService {
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		panic(err)
	}

	if err := db.CreateSchema(context.Background()); err != nil {
		log.WithError(err).Error("Failed to create database schema")
		panic(err)
	}
	log.WithComponent("entry_store").Info("Schedule entry schema ready")

	store := NewRepository(db, log)

	var metrics *monitoring.MetricsCollector
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetricsCollector("roster")
	}

	return &Service{
		config:  cfg,
		logger:  log,
		store:   store,
		db:      db,
		metrics: metrics,
	}
}

// CreateEntry validates a draft, stamps identity and timestamps, and persists
// the entry. Priority defaults to the configured band for the entry type when
// the caller leaves it unset.
func (s *Service) CreateEntry(draft *types.EntryDraft) (*types.Entry, error) {
	s.logger.WithStaffID(draft.StaffID).Infof("Creating %s entry", draft.Type)

	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &types.Entry{
		ID:            uuid.New().String(),
		StaffID:       draft.StaffID,
		Type:          draft.Type,
		Status:        types.StatusActive,
		Priority:      draft.Priority,
		DayOfWeek:     draft.DayOfWeek,
		EffectiveDate: draft.EffectiveDate,
		ExpiryDate:    draft.ExpiryDate,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		Override:      draft.Override,
		Booking:       draft.Booking,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if entry.Priority == 0 {
		entry.Priority = s.defaultPriority(entry.Type)
	}

	if err := s.store.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.logger.Infof("Successfully created entry %s", entry.ID)
	return entry, nil
}

// GetEntry retrieves an entry by ID
func (s *Service) GetEntry(entryID string) (*types.Entry, error) {
	entry, err := s.store.GetEntryByID(entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry applies a patch and returns the updated entry
func (s *Service) UpdateEntry(entryID string, patch *types.EntryPatch) (*types.Entry, error) {
	s.logger.Infof("Updating entry %s", entryID)

	if patch.StartTime != nil && patch.EndTime != nil {
		if _, err := clockDuration(*patch.StartTime, *patch.EndTime); err != nil {
			return nil, types.NewValidationError(types.ErrCodeInvalidInput, err.Error(), nil)
		}
	}

	if err := s.store.UpdateEntry(entryID, patch); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return s.store.GetEntryByID(entryID)
}

// DeactivateEntry soft deletes an entry
func (s *Service) DeactivateEntry(entryID string) error {
	s.logger.Infof("Deactivating entry %s", entryID)

	if err := s.store.DeactivateEntry(entryID); err != nil {
		return fmt.Errorf("failed to deactivate entry: %w", err)
	}

	return nil
}

// GetEntries retrieves entries based on filters
func (s *Service) GetEntries(filters *types.EntryFilters) ([]*types.Entry, error) {
	entries, err := s.store.ListEntries(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	return entries, nil
}

// GetDaySchedule resolves the authoritative schedule for one staff member on
// one date. A store failure surfaces to the caller; an empty schedule does
// not.
func (s *Service) GetDaySchedule(staffID string, date string) (*types.ResolvedDaySchedule, error) {
	if staffID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "staff ID is required", nil)
	}

	targetDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date), nil)
	}

	entries, err := s.fetchStaffEntries([]string{staffID}, targetDate, targetDate)
	if err != nil {
		return nil, err
	}

	return s.resolveOne(staffID, targetDate, entries), nil
}

// GetDaySlots derives bookable slots for one staff member on one date. A zero
// duration falls back to the configured default; a negative duration is
// rejected.
func (s *Service) GetDaySlots(staffID string, date string, slotMinutes int) ([]*types.TimeSlot, error) {
	if slotMinutes == 0 {
		slotMinutes = s.config.Roster.SlotDurationMinutes
	}
	if slotMinutes <= 0 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput,
			fmt.Sprintf("slot duration must be positive, got %d", slotMinutes), nil)
	}

	schedule, err := s.GetDaySchedule(staffID, date)
	if err != nil {
		return nil, err
	}

	slots, err := GenerateSlots(schedule, slotMinutes)
	if err != nil {
		return nil, err
	}

	s.logger.WithStaffID(staffID).Infof("Generated %d slots for %s", len(slots), date)
	return slots, nil
}

// GetWeeklyRoster resolves seven consecutive days for each requested staff
// member, starting at weekStart
func (s *Service) GetWeeklyRoster(staffIDs []string, weekStart string) (*types.WeeklyRosterView, error) {
	if len(staffIDs) == 0 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "at least one staff ID is required", nil)
	}

	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, fmt.Sprintf("invalid week start %q: expected YYYY-MM-DD", weekStart), nil)
	}

	end := start.AddDate(0, 0, daysPerWeek-1)
	entries, err := s.fetchStaffEntries(staffIDs, start, end)
	if err != nil {
		return nil, err
	}

	entriesByStaff := make(map[string][]*types.Entry)
	for _, entry := range entries {
		entriesByStaff[entry.StaffID] = append(entriesByStaff[entry.StaffID], entry)
	}

	view := BuildWeeklyRoster(staffIDs, start, entriesByStaff)

	s.logger.Infof("Resolved weekly roster for %d staff starting %s: %.2f hours, %d appointments",
		view.Summary.TotalStaff, weekStart, view.Summary.TotalHours, view.Summary.TotalAppointments)
	return view, nil
}

// GetDashboard derives dashboard counters for the given staff and week
func (s *Service) GetDashboard(staffIDs []string, weekStart string) (*types.DashboardMetrics, error) {
	view, err := s.GetWeeklyRoster(staffIDs, weekStart)
	if err != nil {
		return nil, err
	}

	return BuildDashboard(view, s.config.Roster.TheoreticalDayHours), nil
}

// fetchStaffEntries loads the schedule entries for a date window, recording
// store latency and translating failures into external errors
func (s *Service) fetchStaffEntries(staffIDs []string, from, to time.Time) ([]*types.Entry, error) {
	start := time.Now()
	entries, err := s.store.ListStaffEntries(staffIDs, from, to)
	if s.metrics != nil {
		s.metrics.RecordStoreQuery("list_staff_entries", time.Since(start))
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreError("list_staff_entries")
		}
		return nil, types.NewExternalError(types.ErrCodeStoreFailure, "failed to fetch schedule entries", err)
	}

	return entries, nil
}

// resolveOne runs Filter then Resolver for a single (staff, date) pair and
// records resolution metrics
func (s *Service) resolveOne(staffID string, date time.Time, entries []*types.Entry) *types.ResolvedDaySchedule {
	start := time.Now()

	applicable := ApplicableEntries(entries, date)
	schedule := ResolveDay(staffID, date, applicable)

	if s.metrics != nil {
		s.metrics.RecordResolution(schedule.IsAvailable, time.Since(start))
	}

	return schedule
}

// defaultPriority returns the configured priority band for an entry type
func (s *Service) defaultPriority(entryType types.EntryType) int {
	switch entryType {
	case types.EntryWeeklyPattern:
		return s.config.Roster.WeeklyPatternPriority
	case types.EntryExternalBooking:
		return s.config.Roster.ExternalBookingPriority
	case types.EntryDateSpecific:
		return s.config.Roster.DateSpecificPriority
	default:
		return 0
	}
}

// validateDraft validates caller-supplied entry data
func (s *Service) validateDraft(draft *types.EntryDraft) error {
	if draft.StaffID == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "staff ID is required", nil)
	}

	switch draft.Type {
	case types.EntryWeeklyPattern:
		if draft.DayOfWeek == nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "weekly pattern requires a day of week", nil)
		}
		if *draft.DayOfWeek < 0 || *draft.DayOfWeek > 6 {
			return types.NewValidationError(types.ErrCodeInvalidInput,
				fmt.Sprintf("day of week must be 0-6, got %d", *draft.DayOfWeek), nil)
		}
		if draft.StartTime == "" || draft.EndTime == "" {
			return types.NewValidationError(types.ErrCodeInvalidInput, "weekly pattern requires start and end times", nil)
		}

	case types.EntryDateSpecific:
		if draft.EffectiveDate == nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "date-specific entry requires an effective date", nil)
		}
		if draft.Override == nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "date-specific entry requires an override payload", nil)
		}
		if draft.Override.Kind == types.OverrideSpecialHours && (draft.StartTime == "" || draft.EndTime == "") {
			return types.NewValidationError(types.ErrCodeInvalidInput, "special hours require start and end times", nil)
		}

	case types.EntryExternalBooking:
		if draft.EffectiveDate == nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, "booking requires an effective date", nil)
		}
		if draft.StartTime == "" || draft.EndTime == "" {
			return types.NewValidationError(types.ErrCodeInvalidInput, "booking requires start and end times", nil)
		}

	case types.EntryStaffProfile:
		// Profile entries carry no time information.

	default:
		return types.NewValidationError(types.ErrCodeInvalidInput,
			fmt.Sprintf("unknown entry type %q", draft.Type), nil)
	}

	if draft.StartTime != "" && draft.EndTime != "" {
		if _, err := clockDuration(draft.StartTime, draft.EndTime); err != nil {
			return types.NewValidationError(types.ErrCodeInvalidInput, err.Error(), nil)
		}
	}

	return nil
}

// Start starts the roster service HTTP server
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)
	s.setupRoutes(router)

	var handler http.Handler = router
	if s.metrics != nil {
		handler = s.metrics.HTTPMiddleware(router)
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting Roster Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the roster service
func (s *Service) Stop() error {
	if s.server != nil {
		s.logger.Info("Stopping Roster Service")
		if err := s.server.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
