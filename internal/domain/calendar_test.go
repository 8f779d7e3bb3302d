package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

func TestDayPolicy_HourlySlots(t *testing.T) {
	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  []types.TimeString
	}{
		{"morning", "09:00", "12:00", []types.TimeString{"09:00", "10:00", "11:00"}},
		{"end is exclusive for partial hour", "09:00", "11:30", []types.TimeString{"09:00", "10:00", "11:00"}},
		{"half hour start", "09:30", "12:00", []types.TimeString{"09:30", "10:30", "11:30"}},
		{"empty window", "12:00", "12:00", []types.TimeString{}},
		{"until midnight", "21:00", "23:59", []types.TimeString{"21:00", "22:00", "23:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DayPolicy{IsOpen: true, StartTime: tt.start, EndTime: tt.end}
			got, err := p.HourlySlots()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayPolicy_HourlySlots_InvalidTime(t *testing.T) {
	p := DayPolicy{StartTime: "9am", EndTime: "17:00"}
	_, err := p.HourlySlots()
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}

func TestResolveEffectiveCapacity(t *testing.T) {
	policy := &DayPolicy{DailyCapacity: 10}
	zero := &DayPolicy{DailyCapacity: 0}

	t.Run("override wins over policy", func(t *testing.T) {
		assert.Equal(t, 2, ResolveEffectiveCapacity(policy, ptr.Ptr(2), true, 3))
	})

	t.Run("explicit zero override closes the day", func(t *testing.T) {
		assert.Equal(t, 0, ResolveEffectiveCapacity(policy, ptr.Ptr(0), true, 3))
	})

	t.Run("policy capacity without override", func(t *testing.T) {
		assert.Equal(t, 10, ResolveEffectiveCapacity(policy, nil, true, 3))
	})

	t.Run("zero capacity treated as unset", func(t *testing.T) {
		assert.Equal(t, 3, ResolveEffectiveCapacity(zero, nil, true, 3))
	})

	t.Run("zero capacity means no bookings", func(t *testing.T) {
		assert.Equal(t, 0, ResolveEffectiveCapacity(zero, nil, false, 3))
	})

	t.Run("missing policy uses fallback", func(t *testing.T) {
		assert.Equal(t, 3, ResolveEffectiveCapacity(nil, nil, false, 3))
	})
}

func TestDefaultWeek(t *testing.T) {
	week := DefaultWeek()
	require.Len(t, week, 7)

	for _, p := range week {
		if p.Weekday == time.Sunday {
			assert.False(t, p.IsOpen)
			continue
		}
		assert.True(t, p.IsOpen, p.Weekday.String())
		assert.Equal(t, types.TimeString("09:00"), p.StartTime)
		assert.Equal(t, types.TimeString("17:00"), p.EndTime)
		assert.Equal(t, 3, p.DailyCapacity)
	}
}

func TestDayBounds(t *testing.T) {
	date := time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC)
	start, end := DayBounds(date)

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 3, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestFreeSlots(t *testing.T) {
	grid := []types.TimeString{"09:00", "10:00", "11:00"}

	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, FreeSlots(grid, []types.TimeString{"10:00"}))
	assert.Equal(t, grid, FreeSlots(grid, nil))
	assert.Empty(t, FreeSlots(grid, grid))
}

func TestBlockedDate_DisplayReason(t *testing.T) {
	assert.Equal(t, "Closed", (&BlockedDate{}).DisplayReason())
	assert.Equal(t, "Holiday", (&BlockedDate{Reason: "Holiday"}).DisplayReason())
}
