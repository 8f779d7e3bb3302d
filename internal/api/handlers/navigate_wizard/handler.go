package navigate_wizard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
)

const (
	routeAdvance = "POST /wizard/sessions/{sessionId}/advance"
	routeBack    = "POST /wizard/sessions/{sessionId}/back"
	routeEdit    = "POST /wizard/sessions/{sessionId}/edit"
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

// HandleAdvance POST /api/v1/wizard/sessions/{sessionId}/advance
// Body: {"data": {...}} частичное обновление формы для текущего шага
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req models.AdvanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("%s - Invalid request body: %v", routeAdvance, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Advance(r.Context(), sessionID, &req)
	if err != nil {
		h.respondServiceError(w, routeAdvance, sessionID, err)
		return
	}

	h.logger.Info("%s - Advanced: session_id=%s, step=%s", routeAdvance, sessionID, result.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleBack POST /api/v1/wizard/sessions/{sessionId}/back
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	result, err := h.service.Back(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, routeBack, sessionID, err)
		return
	}

	h.logger.Info("%s - Moved back: session_id=%s, step=%s", routeBack, sessionID, result.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleEdit POST /api/v1/wizard/sessions/{sessionId}/edit
// Body: {"step": "contact_quote"}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req models.EditRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", routeEdit, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Edit(r.Context(), sessionID, &req)
	if err != nil {
		h.respondServiceError(w, routeEdit, sessionID, err)
		return
	}

	h.logger.Info("%s - Editing step: session_id=%s, step=%s", routeEdit, sessionID, result.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, result)
}
