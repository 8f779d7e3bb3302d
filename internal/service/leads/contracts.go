package leads

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/pricing"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/promotions"
	"github.com/m04kA/SMC-CleaningBooking/internal/usecase/confirm_booking"
)

// LeadRepository интерфейс репозитория лидов
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	List(ctx context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error)
	AssignStaff(ctx context.Context, id uuid.UUID, staffID *int64) error
}

// ConfirmBookingUseCase подтверждение лида
type ConfirmBookingUseCase interface {
	Execute(ctx context.Context, req *confirm_booking.Request) (*confirm_booking.Response, error)
}

// PriceCalculator расчет цены уборки
type PriceCalculator interface {
	Quote(in pricing.QuoteInput) float64
}

// PromoValidator проверка промокодов
type PromoValidator interface {
	Validate(code string, now time.Time) (*promotions.Discount, error)
}

// Metrics метрики сохранения лидов
type Metrics interface {
	ObserveLeadSave(operation string, err error)
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
