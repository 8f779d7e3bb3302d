package assign_staff

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
)

const (
	msgInvalidLeadID      = "некорректный ID лида"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgLeadNotFound       = "лид не найден"
)

type Handler struct {
	service LeadService
	logger  Logger
}

func NewHandler(service LeadService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/leads/{leadId}/staff
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		h.logger.Warn("PATCH /admin/leads/{leadId}/staff - Invalid lead ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLeadID)
		return
	}

	var req models.AssignStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/leads/{leadId}/staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.AssignStaff(r.Context(), leadID, &req); err != nil {
		switch {
		case errors.Is(err, leads.ErrLeadNotFound):
			h.logger.Warn("PATCH /admin/leads/{leadId}/staff - Lead not found: lead_id=%s", leadID)
			handlers.RespondNotFound(w, msgLeadNotFound)

		case errors.Is(err, leads.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/leads/{leadId}/staff - Invalid staff: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)

		default:
			h.logger.Error("PATCH /admin/leads/{leadId}/staff - Failed to assign: lead_id=%s, error=%v", leadID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/leads/{leadId}/staff - Staff assigned: lead_id=%s", leadID)
	w.WriteHeader(http.StatusNoContent)
}
