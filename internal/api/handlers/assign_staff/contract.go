package assign_staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
)

type LeadService interface {
	AssignStaff(ctx context.Context, id uuid.UUID, req *models.AssignStaffRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
