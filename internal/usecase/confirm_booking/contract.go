package confirm_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// LeadRepository интерфейс репозитория лидов
type LeadRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	List(ctx context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error)
	MarkBooked(ctx context.Context, id uuid.UUID, bookedAt time.Time) error
}

// CalendarRepository интерфейс хранилища календарных политик
type CalendarRepository interface {
	GetBlockedDateByDay(ctx context.Context, day time.Time) (*domain.BlockedDate, error)
	GetDayPolicy(ctx context.Context, weekday time.Weekday) (*domain.DayPolicy, error)
	GetCapacityOverride(ctx context.Context) (*int, error)
}

// Notifier ставит в очередь уведомление о подтвержденном бронировании
type Notifier interface {
	EnqueueBookingConfirmed(ctx context.Context, lead *domain.Lead) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для метрик подтверждения
type Metrics interface {
	ObserveFinalize(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
