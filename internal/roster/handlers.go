package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/rosterly/staff-roster/pkg/types"
)

// setupRoutes configures HTTP routes for the roster service
func (s *Service) setupRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Entry routes
	api.HandleFunc("/entries", s.createEntryHandler).Methods("POST")
	api.HandleFunc("/entries/{id}", s.getEntryHandler).Methods("GET")
	api.HandleFunc("/entries/{id}", s.updateEntryHandler).Methods("PUT")
	api.HandleFunc("/entries/{id}", s.deactivateEntryHandler).Methods("DELETE")
	api.HandleFunc("/entries", s.getEntriesHandler).Methods("GET")

	// Schedule resolution routes
	api.HandleFunc("/staff/{staffId}/schedule", s.getDayScheduleHandler).Methods("GET")
	api.HandleFunc("/staff/{staffId}/slots", s.getDaySlotsHandler).Methods("GET")
	api.HandleFunc("/roster/weekly", s.getWeeklyRosterHandler).Methods("GET")
	api.HandleFunc("/roster/dashboard", s.getDashboardHandler).Methods("GET")

	// Health check
	api.HandleFunc("/health", s.healthCheckHandler).Methods("GET")

	if s.metrics != nil {
		router.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler()).Methods("GET")
	}

	s.logger.Info("Roster service routes configured")
}

// createEntryHandler handles entry creation
func (s *Service) createEntryHandler(w http.ResponseWriter, r *http.Request) {
	var draft types.EntryDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := s.CreateEntry(&draft)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to create entry", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, entry)
}

// getEntryHandler handles entry retrieval
func (s *Service) getEntryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID := vars["id"]

	entry, err := s.GetEntry(entryID)
	if err != nil {
		s.writeErrorResponse(w, http.StatusNotFound, "Entry not found", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, entry)
}

// updateEntryHandler handles entry updates
func (s *Service) updateEntryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID := vars["id"]

	var patch types.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := s.UpdateEntry(entryID, &patch)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to update entry", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, entry)
}

// deactivateEntryHandler handles entry soft deletion
func (s *Service) deactivateEntryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID := vars["id"]

	if err := s.DeactivateEntry(entryID); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to deactivate entry", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Entry deactivated successfully"})
}

// getEntriesHandler handles entry listing with filters
func (s *Service) getEntriesHandler(w http.ResponseWriter, r *http.Request) {
	filters := s.parseEntryFilters(r)

	entries, err := s.GetEntries(filters)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "Failed to get entries", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, entries)
}

// getDayScheduleHandler handles resolved day-schedule retrieval
func (s *Service) getDayScheduleHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID := vars["staffId"]

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	schedule, err := s.GetDaySchedule(staffID, date)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to resolve schedule", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, schedule)
}

// getDaySlotsHandler handles time-slot retrieval
func (s *Service) getDaySlotsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID := vars["staffId"]

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	slotMinutes := 0
	if duration := r.URL.Query().Get("duration"); duration != "" {
		parsed, err := strconv.Atoi(duration)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid duration parameter", err)
			return
		}
		slotMinutes = parsed
	}

	slots, err := s.GetDaySlots(staffID, date, slotMinutes)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to generate slots", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, slots)
}

// getWeeklyRosterHandler handles weekly roster retrieval
func (s *Service) getWeeklyRosterHandler(w http.ResponseWriter, r *http.Request) {
	staffIDs := splitParam(r.URL.Query().Get("staff"))
	weekStart := r.URL.Query().Get("week_start")

	view, err := s.GetWeeklyRoster(staffIDs, weekStart)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to build weekly roster", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, view)
}

// getDashboardHandler handles dashboard metrics retrieval
func (s *Service) getDashboardHandler(w http.ResponseWriter, r *http.Request) {
	staffIDs := splitParam(r.URL.Query().Get("staff"))
	weekStart := r.URL.Query().Get("week_start")

	metrics, err := s.GetDashboard(staffIDs, weekStart)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to build dashboard", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, metrics)
}

// healthCheckHandler handles health check requests
func (s *Service) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if s.db != nil {
		if err := s.db.Health(); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"service":   "roster",
		"timestamp": time.Now().UTC(),
	}

	s.writeJSONResponse(w, code, response)
}

// loggingMiddleware logs every completed HTTP request
func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.HTTPRequest(r.Method, r.URL.Path, recorder.status, time.Since(start).Milliseconds())
	})
}

// statusRecorder wraps http.ResponseWriter to capture the response status
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Helper methods

// parseEntryFilters parses query parameters into entry filters
func (s *Service) parseEntryFilters(r *http.Request) *types.EntryFilters {
	filters := &types.EntryFilters{}

	if staff := r.URL.Query().Get("staff"); staff != "" {
		filters.StaffIDs = splitParam(staff)
	}

	if entryTypes := r.URL.Query().Get("types"); entryTypes != "" {
		for _, t := range splitParam(entryTypes) {
			filters.Types = append(filters.Types, types.EntryType(t))
		}
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = types.EntryStatus(status)
	}

	if dow := r.URL.Query().Get("day_of_week"); dow != "" {
		if parsed, err := strconv.Atoi(dow); err == nil {
			filters.DayOfWeek = &parsed
		}
	}

	if dateFrom := r.URL.Query().Get("date_from"); dateFrom != "" {
		if parsed, err := time.Parse(dateLayout, dateFrom); err == nil {
			filters.DateFrom = parsed
		}
	}

	if dateTo := r.URL.Query().Get("date_to"); dateTo != "" {
		if parsed, err := time.Parse(dateLayout, dateTo); err == nil {
			filters.DateTo = parsed
		}
	}

	if includeExpired := r.URL.Query().Get("include_expired"); includeExpired != "" {
		if parsed, err := strconv.ParseBool(includeExpired); err == nil {
			filters.IncludeExpired = parsed
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filters.Limit = parsed
		}
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
}

// splitParam splits a comma-separated query parameter into non-empty values
func splitParam(value string) []string {
	if value == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// statusForError maps the error taxonomy to HTTP status codes
func statusForError(err error) int {
	var rosterErr *types.RosterError
	if errors.As(err, &rosterErr) {
		switch rosterErr.Type {
		case types.ErrorTypeValidation:
			return http.StatusBadRequest
		case types.ErrorTypeNotFound:
			return http.StatusNotFound
		case types.ErrorTypeConflict:
			return http.StatusConflict
		case types.ErrorTypeExternal:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	s.logger.WithError(err).Error(message)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	s.writeJSONResponse(w, statusCode, response)
}
