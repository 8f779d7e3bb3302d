package get_wizard_session

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
)

type WizardService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
