package middleware

import "time"

// MetricsRecorder метрики HTTP запросов
type MetricsRecorder interface {
	ObserveHTTPRequest(method, route, status string, duration time.Duration)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
