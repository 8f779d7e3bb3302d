package domain

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// DayPolicy represents operating hours and capacity for a weekday
// Ровно одна запись на каждый день недели (0 - воскресенье)
type DayPolicy struct {
	Weekday       time.Weekday
	IsOpen        bool
	StartTime     types.TimeString
	EndTime       types.TimeString
	DailyCapacity int
	UpdatedAt     time.Time
}

// HourlySlots возвращает сетку слотов с шагом SlotStepMinutes
// от StartTime (включительно) до EndTime (не включительно)
func (p *DayPolicy) HourlySlots() ([]types.TimeString, error) {
	if err := p.StartTime.Validate(); err != nil {
		return nil, err
	}
	if err := p.EndTime.Validate(); err != nil {
		return nil, err
	}

	slots := make([]types.TimeString, 0)
	current := p.StartTime
	for current.IsBefore(p.EndTime) {
		slots = append(slots, current)

		next, err := current.AddMinutes(SlotStepMinutes)
		if err != nil {
			// Следующий слот за пределами суток
			break
		}
		current = next
	}

	return slots, nil
}

// BlockedDate represents a calendar date fully closed for bookings
type BlockedDate struct {
	ID        int64
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// DisplayReason возвращает причину блокировки или "Closed" по умолчанию
func (b *BlockedDate) DisplayReason() string {
	if b.Reason == "" {
		return ReasonClosed
	}
	return b.Reason
}

// DefaultWeek возвращает стандартную неделю: воскресенье выходной,
// пн-сб с DefaultStartTime до DefaultEndTime
func DefaultWeek() []DayPolicy {
	week := make([]DayPolicy, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		week = append(week, DayPolicy{
			Weekday:       d,
			IsOpen:        d != time.Sunday,
			StartTime:     DefaultStartTime,
			EndTime:       DefaultEndTime,
			DailyCapacity: DefaultDailyCapacity,
		})
	}
	return week
}

// ResolveEffectiveCapacity вычисляет дневной лимит бронирований
//
// Заданный override всегда главнее, включая 0.
// Иначе берется policy.DailyCapacity; значение 0 при zeroMeansUnset
// трактуется как "не задано" и заменяется на fallback.
func ResolveEffectiveCapacity(policy *DayPolicy, override *int, zeroMeansUnset bool, fallback int) int {
	if override != nil {
		return *override
	}
	if policy == nil {
		return fallback
	}
	if policy.DailyCapacity == 0 && zeroMeansUnset {
		return fallback
	}
	return policy.DailyCapacity
}

// DayBounds возвращает границы суток: 00:00:00.000 и 23:59:59.999
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// MonthBounds возвращает первый и последний момент месяца
func MonthBounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}
