package initialize_calendar_settings

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

// Handle POST /api/v1/admin/calendar/settings/initialize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.service.InitializeDefaultSettings(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/calendar/settings/initialize - Failed to initialize: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/calendar/settings/initialize - Done: initialized=%v", seeded)
	handlers.RespondJSON(w, http.StatusOK, InitializeResponse{Initialized: seeded})
}
