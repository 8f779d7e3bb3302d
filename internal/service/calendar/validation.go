package calendar

import (
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
)

// validateDayPolicies проверяет расписание и конвертирует его в доменные политики
func validateDayPolicies(days []models.DayPolicyInput) ([]domain.DayPolicy, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(days))
	policies := make([]domain.DayPolicy, 0, len(days))

	for _, day := range days {
		if day.Weekday < 0 || day.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday must be between 0 and 6, got %d", ErrInvalidInput, day.Weekday)
		}
		if _, ok := seen[day.Weekday]; ok {
			return nil, fmt.Errorf("%w: weekday %d is duplicated", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = struct{}{}

		if day.DailyCapacity < 0 || day.DailyCapacity > domain.MaxDailyCapacity {
			return nil, fmt.Errorf("%w: daily capacity must be between 0 and %d", ErrInvalidInput, domain.MaxDailyCapacity)
		}

		policy := day.ToDomainDayPolicy()
		if err := policy.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: weekday %d start time: %v", ErrInvalidInput, day.Weekday, err)
		}
		if err := policy.EndTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: weekday %d end time: %v", ErrInvalidInput, day.Weekday, err)
		}

		// Для закрытого дня время хранится, но порядок не проверяется
		if policy.IsOpen && !policy.StartTime.IsBefore(policy.EndTime) {
			return nil, fmt.Errorf("%w: weekday %d start time must be before end time", ErrInvalidInput, day.Weekday)
		}

		policies = append(policies, policy)
	}

	return policies, nil
}
