package get_calendar_settings

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
)

type CalendarService interface {
	GetCalendarSettings(ctx context.Context) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
