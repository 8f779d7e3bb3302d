package update_capacity_override

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCapacity    = "лимит должен быть от 0 до 100"
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

// Handle PUT /api/v1/admin/calendar/capacity-override
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateCapacityOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/calendar/capacity-override - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetCapacityOverride(r.Context(), req.Capacity); err != nil {
		if errors.Is(err, calendar.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/calendar/capacity-override - Invalid capacity: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCapacity)
			return
		}
		h.logger.Error("PUT /admin/calendar/capacity-override - Failed to save: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/calendar/capacity-override - Override saved")
	handlers.RespondJSON(w, http.StatusOK, UpdateCapacityOverrideResponse{Capacity: req.Capacity})
}
