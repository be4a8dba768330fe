package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// MetricsCollector owns a private registry with the service's metrics. All
// methods are safe on a nil receiver so callers can run without metrics.
type MetricsCollector struct {
	registry           *prometheus.Registry
	operations         *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	commissionsPaid    prometheus.Counter
	commissionVolume   prometheus.Counter
	balanceCredits     *prometheus.CounterVec
	receiptsWritten    prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
	logger             *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "investment_operations_total",
			Help: "Investment lifecycle operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "investment_operation_duration_seconds",
			Help:    "Time taken by investment lifecycle operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		commissionsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_commissions_paid_total",
			Help: "Number of referral commissions credited",
		}),
		commissionVolume: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_commission_amount_total",
			Help: "Sum of referral commissions credited",
		}),
		balanceCredits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "balance_credit_amount_total",
			Help: "Sum of amounts credited to profile balances",
		}, []string{"field", "reason"}),
		receiptsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "withdrawal_receipts_written_total",
			Help: "Number of withdrawal receipts stored",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logger: logger,
	}
}

// Outcome labels for RecordOperation.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RecordOperation counts a lifecycle operation and observes its duration.
func (m *MetricsCollector) RecordOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCommission counts a credited referral commission.
func (m *MetricsCollector) RecordCommission(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.commissionsPaid.Inc()
	m.commissionVolume.Add(amount.InexactFloat64())
}

// RecordCredit adds a positive balance change to the credited total.
func (m *MetricsCollector) RecordCredit(field, reason string, amount decimal.Decimal) {
	if m == nil || !amount.IsPositive() {
		return
	}
	m.balanceCredits.WithLabelValues(field, reason).Add(amount.InexactFloat64())
}

// RecordReceipt counts a stored withdrawal receipt.
func (m *MetricsCollector) RecordReceipt() {
	if m == nil {
		return
	}
	m.receiptsWritten.Inc()
}

// RecordRequest counts an HTTP request and observes its latency.
func (m *MetricsCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry exposes the underlying registry.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
