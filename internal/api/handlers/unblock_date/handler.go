package unblock_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar"
)

const (
	msgInvalidID = "некорректный ID блокировки"
	msgNotFound  = "блокировка не найдена"
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

// Handle DELETE /api/v1/admin/calendar/blocked-dates/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("DELETE /admin/calendar/blocked-dates/{id} - Invalid ID: %s", idStr)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.UnblockDate(r.Context(), id); err != nil {
		if errors.Is(err, calendar.ErrBlockedDateNotFound) {
			h.logger.Warn("DELETE /admin/calendar/blocked-dates/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/calendar/blocked-dates/{id} - Failed to unblock: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/calendar/blocked-dates/{id} - Date unblocked: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
