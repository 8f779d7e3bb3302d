package get_month_events

import (
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
)

const (
	msgMissingMonth = "месяц обязателен"
	msgInvalidMonth = "некорректный формат месяца, ожидается YYYY-MM"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/calendar/events
// Query params: month (required, YYYY-MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		h.logger.Warn("GET /admin/calendar/events - Missing month")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	month, err := ParseMonth(monthStr)
	if err != nil {
		h.logger.Warn("GET /admin/calendar/events - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.service.GetMonthEvents(r.Context(), month)
	if err != nil {
		h.logger.Error("GET /admin/calendar/events - Failed to get events: month=%s, error=%v", monthStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/calendar/events - Events retrieved: month=%s, blocked=%d, bookings=%d",
		monthStr, len(result.BlockedDates), len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
