package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date time.Time // Календарный день (время игнорируется)
	// ExcludeLeadID лид, который не занимает вместимость (черновик текущей сессии мастера)
	ExcludeLeadID *uuid.UUID
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date              time.Time          // Начало дня в часовом поясе календаря
	Open              bool               // Работает ли бизнес в этот день
	Slots             []types.TimeString // Свободные слоты по возрастанию
	Reason            string             // Причина недоступности (пусто, если слоты есть)
	EffectiveCapacity int                // Дневной лимит, 0 если день закрыт
	BookedCount       int                // Сколько лидов уже занимают день
}

// Options настройки расчета вместимости
type Options struct {
	// ZeroCapacityMeansUnset вместимость 0 без глобального лимита заменяется на FallbackCapacity
	ZeroCapacityMeansUnset bool
	FallbackCapacity       int
	// Location часовой пояс, в котором считаются границы суток
	Location *time.Location
}
