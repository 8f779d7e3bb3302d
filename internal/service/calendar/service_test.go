package calendar

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCalendar struct {
	mu        sync.Mutex
	policies  []*domain.DayPolicy
	blocked   []*domain.BlockedDate
	override  *int
	upserted  []domain.DayPolicy
	listErr   error
	rangeFrom time.Time
	rangeTo   time.Time
}

func (f *fakeCalendar) ListDayPolicies(context.Context) ([]*domain.DayPolicy, error) {
	return f.policies, nil
}

func (f *fakeCalendar) UpsertDayPolicies(_ context.Context, policies []domain.DayPolicy) error {
	f.upserted = policies
	for i := range policies {
		p := policies[i]
		f.policies = append(f.policies, &p)
	}
	return nil
}

func (f *fakeCalendar) SeedDefaultDayPolicies(context.Context) (bool, error) {
	if len(f.policies) > 0 {
		return false, nil
	}
	for _, p := range domain.DefaultWeek() {
		p := p
		f.policies = append(f.policies, &p)
	}
	return true, nil
}

func (f *fakeCalendar) ListBlockedDates(_ context.Context, from, to time.Time) ([]*domain.BlockedDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeFrom, f.rangeTo = from, to
	return f.blocked, f.listErr
}

func (f *fakeCalendar) AddBlockedDate(_ context.Context, day time.Time, reason string) (*domain.BlockedDate, error) {
	for _, b := range f.blocked {
		if b.Date.Equal(day) {
			return nil, calendarRepo.ErrBlockedDateExists
		}
	}
	b := &domain.BlockedDate{ID: int64(len(f.blocked) + 1), Date: day, Reason: reason}
	f.blocked = append(f.blocked, b)
	return b, nil
}

func (f *fakeCalendar) RemoveBlockedDate(_ context.Context, id int64) error {
	for i, b := range f.blocked {
		if b.ID == id {
			f.blocked = append(f.blocked[:i], f.blocked[i+1:]...)
			return nil
		}
	}
	return calendarRepo.ErrBlockedDateNotFound
}

func (f *fakeCalendar) GetCapacityOverride(context.Context) (*int, error) {
	return f.override, nil
}

func (f *fakeCalendar) SetCapacityOverride(_ context.Context, value *int) error {
	f.override = value
	return nil
}

type fakeLeads struct {
	mu     sync.Mutex
	leads  []*domain.Lead
	filter domain.LeadsFilter
}

func (f *fakeLeads) List(_ context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	return f.leads, nil
}

func newService(cal *fakeCalendar, leads *fakeLeads) *Service {
	return NewService(cal, leads, time.UTC, nopLogger{})
}

func TestGetMonthEvents(t *testing.T) {
	march := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{
		blocked: []*domain.BlockedDate{{ID: 7, Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}},
	}
	lead := &domain.Lead{
		ID:          uuid.New(),
		Status:      domain.LeadStatusBooked,
		FirstName:   "Jane",
		LastName:    "Doe",
		ServiceDate: ptr.Ptr(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)),
		ServiceTime: ptr.Ptr(types.TimeString("10:00")),
		TotalPrice:  190,
	}
	leads := &fakeLeads{leads: []*domain.Lead{lead}}

	resp, err := newService(cal, leads).GetMonthEvents(context.Background(), march)
	require.NoError(t, err)

	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.BlockedDates, 1)
	assert.Equal(t, "2025-03-10", resp.BlockedDates[0].Date)
	assert.Equal(t, domain.ReasonClosed, resp.BlockedDates[0].Reason)

	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "Jane Doe", resp.Bookings[0].CustomerName)
	assert.Equal(t, "2025-03-03", resp.Bookings[0].Date)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), cal.rangeFrom)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond), cal.rangeTo)
	assert.Equal(t, []domain.LeadStatus{domain.LeadStatusBooked}, leads.filter.Statuses)
}

func TestGetMonthEvents_StoreFailure(t *testing.T) {
	cal := &fakeCalendar{listErr: errors.New("connection refused")}

	_, err := newService(cal, &fakeLeads{}).GetMonthEvents(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestBlockDate(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newService(cal, &fakeLeads{})
	date := time.Date(2025, 12, 25, 15, 30, 0, 0, time.UTC)

	resp, err := svc.BlockDate(context.Background(), &models.BlockDateRequest{Date: date, Reason: "Holiday"})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-25", resp.Date)
	assert.Equal(t, "Holiday", resp.Reason)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), cal.blocked[0].Date)

	_, err = svc.BlockDate(context.Background(), &models.BlockDateRequest{Date: date})
	assert.ErrorIs(t, err, ErrDateAlreadyBlocked)
}

func TestBlockDate_ReasonTooLong(t *testing.T) {
	cal := &fakeCalendar{}
	reason := strings.Repeat("a", domain.MaxBlockedReasonLength+1)

	_, err := newService(cal, &fakeLeads{}).BlockDate(context.Background(), &models.BlockDateRequest{
		Date:   time.Now(),
		Reason: reason,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, cal.blocked)
}

func TestUnblockDate(t *testing.T) {
	cal := &fakeCalendar{blocked: []*domain.BlockedDate{{ID: 1, Date: time.Now()}}}
	svc := newService(cal, &fakeLeads{})

	require.NoError(t, svc.UnblockDate(context.Background(), 1))
	assert.Empty(t, cal.blocked)

	assert.ErrorIs(t, svc.UnblockDate(context.Background(), 1), ErrBlockedDateNotFound)
}

func TestGetCalendarSettings_SeedsEmptyTable(t *testing.T) {
	cal := &fakeCalendar{override: ptr.Ptr(5)}

	resp, err := newService(cal, &fakeLeads{}).GetCalendarSettings(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	assert.False(t, resp.Days[0].IsOpen)
	assert.True(t, resp.Days[1].IsOpen)
	assert.Equal(t, types.TimeString("09:00"), resp.Days[1].StartTime)
	assert.Equal(t, 5, *resp.CapacityOverride)
}

func TestUpdateCalendarSettings(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newService(cal, &fakeLeads{})

	_, err := svc.UpdateCalendarSettings(context.Background(), &models.UpdateSettingsRequest{
		Days: []models.DayPolicyInput{
			{Weekday: 6, IsOpen: true, StartTime: "10:00", EndTime: "14:00", DailyCapacity: 2},
			{Weekday: 0, IsOpen: false, StartTime: "09:00", EndTime: "09:00"},
		},
	})
	require.NoError(t, err)

	require.Len(t, cal.upserted, 2)
	assert.Equal(t, time.Saturday, cal.upserted[0].Weekday)
	assert.Equal(t, types.TimeString("14:00"), cal.upserted[0].EndTime)
}

func TestUpdateCalendarSettings_Validation(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayPolicyInput
	}{
		{name: "empty", days: nil},
		{name: "weekday out of range", days: []models.DayPolicyInput{{Weekday: 7, StartTime: "09:00", EndTime: "17:00"}}},
		{name: "duplicate weekday", days: []models.DayPolicyInput{
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
		}},
		{name: "bad time", days: []models.DayPolicyInput{{Weekday: 1, StartTime: "9am", EndTime: "17:00"}}},
		{name: "start after end", days: []models.DayPolicyInput{{Weekday: 1, IsOpen: true, StartTime: "17:00", EndTime: "09:00"}}},
		{name: "capacity too high", days: []models.DayPolicyInput{{Weekday: 1, StartTime: "09:00", EndTime: "17:00", DailyCapacity: 101}}},
		{name: "negative capacity", days: []models.DayPolicyInput{{Weekday: 1, StartTime: "09:00", EndTime: "17:00", DailyCapacity: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := &fakeCalendar{}
			_, err := newService(cal, &fakeLeads{}).UpdateCalendarSettings(context.Background(),
				&models.UpdateSettingsRequest{Days: tt.days})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, cal.upserted)
		})
	}
}

func TestInitializeDefaultSettings(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newService(cal, &fakeLeads{})

	seeded, err := svc.InitializeDefaultSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Len(t, cal.policies, 7)

	seeded, err = svc.InitializeDefaultSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, cal.policies, 7)
}

func TestSetCapacityOverride(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newService(cal, &fakeLeads{})

	require.NoError(t, svc.SetCapacityOverride(context.Background(), ptr.Ptr(0)))
	assert.Equal(t, 0, *cal.override)

	require.NoError(t, svc.SetCapacityOverride(context.Background(), nil))
	assert.Nil(t, cal.override)

	assert.ErrorIs(t, svc.SetCapacityOverride(context.Background(), ptr.Ptr(101)), ErrInvalidInput)
}
