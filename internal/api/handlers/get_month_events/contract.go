package get_month_events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
)

type CalendarService interface {
	GetMonthEvents(ctx context.Context, month time.Time) (*models.MonthEventsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
