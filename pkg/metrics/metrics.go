package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration  *prometheus.HistogramVec
	dbQueryErrors    *prometheus.CounterVec
	dbOpenConns      *prometheus.GaugeVec
	dbInUseConns     *prometheus.GaugeVec
	dbIdleConns      *prometheus.GaugeVec
	dbWaitCountTotal *prometheus.GaugeVec

	availabilityTotal *prometheus.CounterVec
	leadSavesTotal    *prometheus.CounterVec
	wizardTransitions *prometheus.CounterVec
	finalizeTotal     *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики с указанным registerer (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	ns := sanitize(serviceName)

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Failed database queries",
		}, []string{"service", "operation"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Open connections in the pool",
		}, []string{"service"}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "in_use_connections",
			Help:      "Connections currently in use",
		}, []string{"service"}),
		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "idle_connections",
			Help:      "Idle connections in the pool",
		}, []string{"service"}),
		dbWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Availability lookups by outcome",
		}, []string{"outcome"}),
		leadSavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "leads",
			Name:      "saves_total",
			Help:      "Progressive lead saves by operation and status",
		}, []string{"operation", "status"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Wizard step transitions",
		}, []string{"from", "to"}),
		finalizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "bookings",
			Name:      "finalize_total",
			Help:      "Booking confirmations by outcome",
		}, []string{"outcome"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCountTotal,
		m.availabilityTotal,
		m.leadSavesTotal,
		m.wizardTransitions,
		m.finalizeTotal,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД (реализует dbmetrics.Recorder)
func (m *Metrics) ObserveDBQuery(service, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(service, operation).Inc()
	}
}

// SetDBPoolStats обновляет статистику connection pool (реализует dbmetrics.Recorder)
func (m *Metrics) SetDBPoolStats(service string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.dbInUseConns.WithLabelValues(service).Set(float64(stats.InUse))
	m.dbIdleConns.WithLabelValues(service).Set(float64(stats.Idle))
	m.dbWaitCountTotal.WithLabelValues(service).Set(float64(stats.WaitCount))
}

// ObserveAvailability фиксирует исход запроса доступности (open, closed, blocked, full, error)
func (m *Metrics) ObserveAvailability(outcome string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
}

// ObserveLeadSave фиксирует прогрессивное сохранение лида
func (m *Metrics) ObserveLeadSave(operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.leadSavesTotal.WithLabelValues(operation, status).Inc()
}

// ObserveWizardTransition фиксирует переход мастера между шагами
func (m *Metrics) ObserveWizardTransition(from, to string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(from, to).Inc()
}

// ObserveFinalize фиксирует исход подтверждения бронирования
func (m *Metrics) ObserveFinalize(outcome string) {
	if m == nil {
		return
	}
	m.finalizeTotal.WithLabelValues(outcome).Inc()
}

// sanitize приводит имя сервиса к допустимому namespace prometheus
func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
