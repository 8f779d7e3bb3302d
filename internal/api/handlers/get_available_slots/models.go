package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
)

// msgCouldNotFetchSlots текст для клиента, когда доступность не удалось рассчитать
const msgCouldNotFetchSlots = "Could not fetch slots"

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Success           bool     `json:"success"`
	Date              string   `json:"date,omitempty"`
	Open              bool     `json:"open"`
	Slots             []string `json:"slots"`
	Reason            string   `json:"reason,omitempty"`
	EffectiveCapacity int      `json:"effectiveCapacity,omitempty"`
	BookedCount       int      `json:"bookedCount,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Success:           true,
		Date:              resp.Date.Format(domain.DateFormat),
		Open:              resp.Open,
		Slots:             slots,
		Reason:            resp.Reason,
		EffectiveCapacity: resp.EffectiveCapacity,
		BookedCount:       resp.BookedCount,
	}
}

// UnresolvableResponse день показывается недоступным, без деталей ошибки
func UnresolvableResponse() *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Success: false,
		Slots:   []string{},
		Error:   msgCouldNotFetchSlots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{Date: date}, nil
}
