package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationCounts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "payment_method_operations_total",
	Help:      "Payment method operations by result.",
}, []string{"operation", "result"})

var operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "billing",
	Name:      "payment_method_operation_seconds",
	Help:      "Time spent serving payment method operations.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation"})

var chargedAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "charged_amount_total",
	Help:      "Sum of successfully charged amounts.",
}, []string{"currency"})

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billing",
	Name:      "cache_lookups_total",
	Help:      "Payment method cache lookups by outcome.",
}, []string{"outcome"})

// Prometheus records service metrics into the default registry.
type Prometheus struct{}

func NewPrometheus() *Prometheus {
	return &Prometheus{}
}

func (p *Prometheus) RecordOperation(op, result string, duration time.Duration) {
	operationCounts.With(prometheus.Labels{"operation": op, "result": result}).Inc()
	operationDuration.With(prometheus.Labels{"operation": op}).Observe(duration.Seconds())
}

func (p *Prometheus) RecordCharge(currency string, amount float64) {
	if amount <= 0 {
		return
	}
	chargedAmount.With(prometheus.Labels{"currency": currency}).Add(amount)
}

func (p *Prometheus) RecordCacheHit() {
	cacheLookups.With(prometheus.Labels{"outcome": "hit"}).Inc()
}

func (p *Prometheus) RecordCacheMiss() {
	cacheLookups.With(prometheus.Labels{"outcome": "miss"}).Inc()
}
