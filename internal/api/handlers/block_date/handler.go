package block_date

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgReasonTooLong      = "причина блокировки слишком длинная"
	msgAlreadyBlocked     = "дата уже заблокирована"
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

// Handle POST /api/v1/admin/calendar/blocked-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BlockDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/calendar/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/calendar/blocked-dates - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.BlockDate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrDateAlreadyBlocked):
			h.logger.Warn("POST /admin/calendar/blocked-dates - Already blocked: date=%s", req.Date)
			handlers.RespondConflict(w, msgAlreadyBlocked)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /admin/calendar/blocked-dates - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgReasonTooLong)

		default:
			h.logger.Error("POST /admin/calendar/blocked-dates - Failed to block date: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/calendar/blocked-dates - Date blocked: date=%s, id=%d", result.Date, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
