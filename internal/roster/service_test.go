package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/staff-roster/pkg/config"
	"github.com/rosterly/staff-roster/pkg/logger"
	"github.com/rosterly/staff-roster/pkg/types"
)

// MockEntryStore is a mock implementation of interfaces.EntryStore
type MockEntryStore struct {
	mock.Mock
}

func (m *MockEntryStore) CreateEntry(entry *types.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntryStore) GetEntryByID(id string) (*types.Entry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Entry), args.Error(1)
}

func (m *MockEntryStore) UpdateEntry(id string, patch *types.EntryPatch) error {
	args := m.Called(id, patch)
	return args.Error(0)
}

func (m *MockEntryStore) DeactivateEntry(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockEntryStore) ListEntries(filters *types.EntryFilters) ([]*types.Entry, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Entry), args.Error(1)
}

func (m *MockEntryStore) ListStaffEntries(staffIDs []string, from, to time.Time) ([]*types.Entry, error) {
	args := m.Called(staffIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Entry), args.Error(1)
}

func newTestService(store *MockEntryStore) *Service {
	cfg := &config.Config{
		Roster: config.RosterConfig{
			SlotDurationMinutes:     15,
			TheoreticalDayHours:     8,
			WeeklyPatternPriority:   10,
			ExternalBookingPriority: 50,
			DateSpecificPriority:    100,
		},
	}

	return &Service{
		config: cfg,
		logger: logger.New("error"),
		store:  store,
	}
}

func TestCreateEntry_WeeklyPattern(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("CreateEntry", mock.AnythingOfType("*types.Entry")).Return(nil)

	entry, err := service.CreateEntry(&types.EntryDraft{
		StaffID:   "staff-1",
		Type:      types.EntryWeeklyPattern,
		DayOfWeek: intPtr(1),
		StartTime: "08:00",
		EndTime:   "16:00",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, types.StatusActive, entry.Status)
	assert.Equal(t, 10, entry.Priority)
	assert.False(t, entry.CreatedAt.IsZero())
	store.AssertExpectations(t)
}

func TestCreateEntry_DefaultPriorityPerType(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("CreateEntry", mock.AnythingOfType("*types.Entry")).Return(nil)

	booking, err := service.CreateEntry(&types.EntryDraft{
		StaffID:       "staff-1",
		Type:          types.EntryExternalBooking,
		EffectiveDate: timePtr(testWednesday),
		StartTime:     "13:00",
		EndTime:       "13:30",
		Booking:       &types.BookingDetail{ExternalID: "EXT-1", SourceSystem: "booking-portal"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, booking.Priority)

	dayOff, err := service.CreateEntry(&types.EntryDraft{
		StaffID:       "staff-1",
		Type:          types.EntryDateSpecific,
		EffectiveDate: timePtr(testMonday),
		Override:      &types.OverrideDetail{Kind: types.OverrideDayOff, Reason: "Vacation"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, dayOff.Priority)
}

func TestCreateEntry_ExplicitPriorityKept(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("CreateEntry", mock.AnythingOfType("*types.Entry")).Return(nil)

	entry, err := service.CreateEntry(&types.EntryDraft{
		StaffID:   "staff-1",
		Type:      types.EntryWeeklyPattern,
		Priority:  25,
		DayOfWeek: intPtr(1),
		StartTime: "08:00",
		EndTime:   "16:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 25, entry.Priority)
}

func TestCreateEntry_ValidationFailures(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	testCases := []struct {
		name  string
		draft *types.EntryDraft
	}{
		{"missing staff ID", &types.EntryDraft{
			Type: types.EntryWeeklyPattern, DayOfWeek: intPtr(1), StartTime: "08:00", EndTime: "16:00",
		}},
		{"weekly pattern without day of week", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryWeeklyPattern, StartTime: "08:00", EndTime: "16:00",
		}},
		{"day of week out of range", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryWeeklyPattern, DayOfWeek: intPtr(7), StartTime: "08:00", EndTime: "16:00",
		}},
		{"weekly pattern without times", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryWeeklyPattern, DayOfWeek: intPtr(1),
		}},
		{"end before start", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryWeeklyPattern, DayOfWeek: intPtr(1), StartTime: "16:00", EndTime: "08:00",
		}},
		{"date-specific without effective date", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryDateSpecific,
			Override: &types.OverrideDetail{Kind: types.OverrideDayOff},
		}},
		{"date-specific without override payload", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryDateSpecific, EffectiveDate: timePtr(testMonday),
		}},
		{"special hours without times", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryDateSpecific, EffectiveDate: timePtr(testMonday),
			Override: &types.OverrideDetail{Kind: types.OverrideSpecialHours},
		}},
		{"booking without times", &types.EntryDraft{
			StaffID: "staff-1", Type: types.EntryExternalBooking, EffectiveDate: timePtr(testWednesday),
		}},
		{"unknown entry type", &types.EntryDraft{
			StaffID: "staff-1", Type: "holiday",
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateEntry(tc.draft)

			require.Error(t, err)
			var rerr *types.RosterError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, types.ErrorTypeValidation, rerr.Type)
		})
	}

	store.AssertNotCalled(t, "CreateEntry", mock.Anything)
}

func TestUpdateEntry_InvalidTimePairRejected(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	start := "16:00"
	end := "08:00"
	_, err := service.UpdateEntry("entry-1", &types.EntryPatch{StartTime: &start, EndTime: &end})

	require.Error(t, err)
	store.AssertNotCalled(t, "UpdateEntry", mock.Anything, mock.Anything)
}

func TestGetDaySchedule(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	entries := []*types.Entry{
		weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase),
		dayOffEntry("do-1", "staff-1", testMonday, "Vacation", testBase.Add(time.Hour)),
	}
	store.On("ListStaffEntries", []string{"staff-1"}, testMonday, testMonday).Return(entries, nil)

	schedule, err := service.GetDaySchedule("staff-1", "2025-03-03")

	require.NoError(t, err)
	assert.False(t, schedule.IsAvailable)
	assert.Contains(t, schedule.Notes, "Vacation")
	store.AssertExpectations(t)
}

func TestGetDaySchedule_StoreFailureSurfacesAsExternal(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("ListStaffEntries", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	schedule, err := service.GetDaySchedule("staff-1", "2025-03-03")

	require.Error(t, err)
	assert.Nil(t, schedule)
	var rerr *types.RosterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrorTypeExternal, rerr.Type)
	assert.Equal(t, types.ErrCodeStoreFailure, rerr.Code)
}

func TestGetDaySchedule_EmptyStoreYieldsUnavailableDay(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("ListStaffEntries", []string{"staff-1"}, testMonday, testMonday).
		Return([]*types.Entry{}, nil)

	schedule, err := service.GetDaySchedule("staff-1", "2025-03-03")

	require.NoError(t, err)
	assert.False(t, schedule.IsAvailable)
	assert.Empty(t, schedule.WorkPeriods)
}

func TestGetDaySchedule_InvalidInput(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	_, err := service.GetDaySchedule("", "2025-03-03")
	require.Error(t, err)

	_, err = service.GetDaySchedule("staff-1", "03/03/2025")
	require.Error(t, err)

	store.AssertNotCalled(t, "ListStaffEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDaySlots_DefaultDurationFromConfig(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	entries := []*types.Entry{
		weeklyEntry("wp-1", "staff-1", 3, "09:00", "10:00", testBase),
	}
	store.On("ListStaffEntries", []string{"staff-1"}, testWednesday, testWednesday).Return(entries, nil)

	slots, err := service.GetDaySlots("staff-1", "2025-03-05", 0)

	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, 15, slots[0].DurationMinutes)
}

func TestGetDaySlots_NegativeDurationRejected(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	_, err := service.GetDaySlots("staff-1", "2025-03-05", -30)

	require.Error(t, err)
	store.AssertNotCalled(t, "ListStaffEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetWeeklyRoster(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	weekEnd := testMonday.AddDate(0, 0, 6)
	entries := []*types.Entry{
		weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase),
		weeklyEntry("wp-2", "staff-2", 3, "09:00", "17:00", testBase),
	}
	store.On("ListStaffEntries", []string{"staff-1", "staff-2"}, testMonday, weekEnd).Return(entries, nil)

	view, err := service.GetWeeklyRoster([]string{"staff-1", "staff-2"}, "2025-03-03")

	require.NoError(t, err)
	require.Len(t, view.Staff, 2)
	assert.Equal(t, "staff-1", view.Staff[0].StaffID)
	assert.True(t, view.Staff[0].Days[0].IsAvailable)
	assert.True(t, view.Staff[1].Days[2].IsAvailable)
	assert.Equal(t, 16.0, view.Summary.TotalHours)
	store.AssertExpectations(t)
}

func TestGetWeeklyRoster_EmptyStaffListRejected(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	_, err := service.GetWeeklyRoster(nil, "2025-03-03")

	require.Error(t, err)
	var rerr *types.RosterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrorTypeValidation, rerr.Type)
	store.AssertNotCalled(t, "ListStaffEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetWeeklyRoster_StoreFailure(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	store.On("ListStaffEntries", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	_, err := service.GetWeeklyRoster([]string{"staff-1"}, "2025-03-03")

	require.Error(t, err)
	var rerr *types.RosterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrorTypeExternal, rerr.Type)
}

func TestGetDashboard(t *testing.T) {
	store := new(MockEntryStore)
	service := newTestService(store)

	weekEnd := testMonday.AddDate(0, 0, 6)
	entries := []*types.Entry{
		weeklyEntry("wp-1", "staff-1", 1, "08:00", "16:00", testBase),
	}
	store.On("ListStaffEntries", []string{"staff-1", "staff-2"}, testMonday, weekEnd).Return(entries, nil)

	metrics, err := service.GetDashboard([]string{"staff-1", "staff-2"}, "2025-03-03")

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.ActiveStaff)
	assert.Equal(t, 8.0, metrics.ScheduledHours)
	assert.Equal(t, 14, metrics.CoverageRate)
}
