package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// CalendarRepository интерфейс хранилища календарных политик
type CalendarRepository interface {
	GetBlockedDateByDay(ctx context.Context, day time.Time) (*domain.BlockedDate, error)
	GetDayPolicy(ctx context.Context, weekday time.Weekday) (*domain.DayPolicy, error)
	SeedDefaultDayPolicies(ctx context.Context) (bool, error)
	GetCapacityOverride(ctx context.Context) (*int, error)
}

// LeadRepository интерфейс репозитория лидов
type LeadRepository interface {
	List(ctx context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error)
}

// Metrics интерфейс для метрик доступности
type Metrics interface {
	ObserveAvailability(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
