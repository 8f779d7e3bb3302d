package update_capacity_override

import "context"

type CalendarService interface {
	SetCapacityOverride(ctx context.Context, value *int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
