package confirm_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	LeadID uuid.UUID
	// Fields полное состояние мастера, перезаписывает данные лида перед проверками (опционально)
	Fields *domain.Lead
}

// Response модель ответа с подтвержденным лидом
type Response struct {
	Lead *domain.Lead
}

// Options настройки повторной проверки вместимости
type Options struct {
	ZeroCapacityMeansUnset bool
	FallbackCapacity       int
	Location               *time.Location
}
