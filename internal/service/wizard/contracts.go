package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
	"github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// SessionStore хранилище сессий мастера
type SessionStore interface {
	Save(ctx context.Context, state *flow.State) error
	Get(ctx context.Context, id string) (*flow.State, error)
}

// LeadService жизненный цикл лида
type LeadService interface {
	Quote(fields *domain.Lead) (*models.Quote, error)
	CreateLead(ctx context.Context, fields *domain.Lead) (uuid.UUID, error)
	UpdateLead(ctx context.Context, id uuid.UUID, fields *domain.Lead) error
	Finalize(ctx context.Context, id uuid.UUID, fields *domain.Lead) (*domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	FindReturningCustomer(ctx context.Context, email string) ([]*domain.Lead, error)
}

// AvailabilityUseCase расчет свободных слотов дня
type AvailabilityUseCase interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// Metrics метрики переходов мастера
type Metrics interface {
	ObserveWizardTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
