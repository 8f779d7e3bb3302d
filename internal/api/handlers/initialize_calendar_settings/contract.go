package initialize_calendar_settings

import "context"

type CalendarService interface {
	InitializeDefaultSettings(ctx context.Context) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
