package get_lead

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads"
)

const (
	msgInvalidLeadID = "некорректный ID лида"
	msgLeadNotFound  = "лид не найден"
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

// Handle GET /api/v1/admin/leads/{leadId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		h.logger.Warn("GET /admin/leads/{leadId} - Invalid lead ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLeadID)
		return
	}

	result, err := h.service.GetLead(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			h.logger.Warn("GET /admin/leads/{leadId} - Lead not found: lead_id=%s", leadID)
			handlers.RespondNotFound(w, msgLeadNotFound)
			return
		}
		h.logger.Error("GET /admin/leads/{leadId} - Failed to get lead: lead_id=%s, error=%v", leadID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/leads/{leadId} - Lead retrieved: lead_id=%s, status=%s", leadID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
