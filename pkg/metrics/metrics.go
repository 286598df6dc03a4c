package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	SubmissionsTotal       *prometheus.CounterVec
	AvailabilityRefreshes  *prometheus.CounterVec
	BlockedDays            *prometheus.GaugeVec
	BackendRequestDuration *prometheus.HistogramVec
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_submissions_total",
			Help:        "Reservation submission attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		AvailabilityRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_refreshes_total",
			Help:        "Availability recomputations by result",
			ConstLabels: labels,
		}, []string{"result"}),
		BlockedDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "venue_blocked_days",
			Help:        "Number of blocked days after the last availability refresh",
			ConstLabels: labels,
		}, []string{"venue"}),
		BackendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "holidaze_backend_request_duration_seconds",
			Help:        "Duration of calls to the Holidaze API",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SubmissionsTotal,
		m.AvailabilityRefreshes,
		m.BlockedDays,
		m.BackendRequestDuration,
	)

	return m
}

// RecordSubmission учитывает завершенную попытку бронирования
func (m *Metrics) RecordSubmission(outcome string) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordRefresh учитывает пересчет доступности площадки
func (m *Metrics) RecordRefresh(venueID string, blockedDays int, err error) {
	if err != nil {
		m.AvailabilityRefreshes.WithLabelValues("error").Inc()
		return
	}
	m.AvailabilityRefreshes.WithLabelValues("ok").Inc()
	m.BlockedDays.WithLabelValues(venueID).Set(float64(blockedDays))
}

// ObserveBackend учитывает длительность запроса к Holidaze API
func (m *Metrics) ObserveBackend(operation string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BackendRequestDuration.WithLabelValues(operation, result).Observe(time.Since(started).Seconds())
}
