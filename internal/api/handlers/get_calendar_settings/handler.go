package get_calendar_settings

import (
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
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

// Handle GET /api/v1/admin/calendar/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetCalendarSettings(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/calendar/settings - Failed to get settings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/calendar/settings - Settings retrieved: days=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
