package start_wizard

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMode        = "режим должен быть new или returning"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/wizard/sessions
// Пустое тело запускает мастер для нового клиента
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.StartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /wizard/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Start(r.Context(), &req)
	if err != nil {
		if errors.Is(err, wizard.ErrInvalidInput) {
			h.logger.Warn("POST /wizard/sessions - Invalid mode: %s", req.Mode)
			handlers.RespondBadRequest(w, msgInvalidMode)
			return
		}
		h.logger.Error("POST /wizard/sessions - Failed to start session: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /wizard/sessions - Session started: session_id=%s, mode=%s", result.SessionID, result.Mode)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
