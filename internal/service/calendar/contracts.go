package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// CalendarRepository интерфейс хранилища календарных политик
type CalendarRepository interface {
	ListDayPolicies(ctx context.Context) ([]*domain.DayPolicy, error)
	UpsertDayPolicies(ctx context.Context, policies []domain.DayPolicy) error
	SeedDefaultDayPolicies(ctx context.Context) (bool, error)
	ListBlockedDates(ctx context.Context, from, to time.Time) ([]*domain.BlockedDate, error)
	AddBlockedDate(ctx context.Context, day time.Time, reason string) (*domain.BlockedDate, error)
	RemoveBlockedDate(ctx context.Context, id int64) error
	GetCapacityOverride(ctx context.Context) (*int, error)
	SetCapacityOverride(ctx context.Context, value *int) error
}

// LeadRepository интерфейс репозитория лидов
type LeadRepository interface {
	List(ctx context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
