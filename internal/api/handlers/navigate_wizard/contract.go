package navigate_wizard

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
)

type WizardService interface {
	Advance(ctx context.Context, sessionID string, req *models.AdvanceRequest) (*models.SessionResponse, error)
	Back(ctx context.Context, sessionID string) (*models.SessionResponse, error)
	Edit(ctx context.Context, sessionID string, req *models.EditRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
