package navigate_wizard

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgInvalidData        = "некорректные данные формы"
	msgInvalidTransition  = "переход с текущего шага невозможен"
	msgSlotsUnavailable   = "не удалось получить свободное время, попробуйте позже"
	msgBookingFailed      = "не удалось подтвердить бронирование, попробуйте еще раз"
)

// respondServiceError переводит ошибку сервиса мастера в HTTP ответ
func (h *Handler) respondServiceError(w http.ResponseWriter, route, sessionID string, err error) {
	var vErr *flow.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.Info("%s - Validation failed: session_id=%s, field=%s", route, sessionID, vErr.Field)
		handlers.RespondFieldError(w, vErr.Field, vErr.Message)

	case errors.Is(err, wizard.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", route, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, wizard.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, wizard.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, wizard.ErrSlotsUnavailable):
		h.logger.Error("%s - Slots unavailable: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgSlotsUnavailable)

	case errors.Is(err, wizard.ErrBookingFailed):
		h.logger.Error("%s - Booking failed: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgBookingFailed)

	default:
		h.logger.Error("%s - Internal error: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
