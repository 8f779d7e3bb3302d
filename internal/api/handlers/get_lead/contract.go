package get_lead

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
)

type LeadService interface {
	GetLead(ctx context.Context, id uuid.UUID) (*models.LeadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
