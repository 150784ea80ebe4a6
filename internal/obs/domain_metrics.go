package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SettlementComputeTotal counts settlement runs by operation (apply,
	// recompute, verify).
	SettlementComputeTotal *prometheus.CounterVec
	// SettlementComputeDuration records settlement run latency in
	// milliseconds.
	SettlementComputeDuration *prometheus.HistogramVec
	// TradesRecordedTotal counts recorded sales/purchases by kind and result.
	TradesRecordedTotal *prometheus.CounterVec
	// InvoiceRenderTotal counts invoice render task outcomes.
	InvoiceRenderTotal *prometheus.CounterVec
	// PartyTermsCacheTotal tracks crate-term cache hits and misses.
	PartyTermsCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SettlementComputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_compute_total",
			Help:      "Count of settlement engine runs by operation.",
		}, []string{"operation"})
		SettlementComputeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_compute_duration_ms",
			Help:      "Latency of settlement engine runs in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"})
		TradesRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_recorded_total",
			Help:      "Count of sale/purchase submissions by outcome.",
		}, []string{"kind", "result"})
		InvoiceRenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_render_total",
			Help:      "Count of invoice render task outcomes.",
		}, []string{"result"})
		PartyTermsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "party_terms_cache_total",
			Help:      "Crate-term cache lookups by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, SettlementComputeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SettlementComputeTotal = v
			}
		})
		mustRegisterCollector(reg, SettlementComputeDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				SettlementComputeDuration = v
			}
		})
		mustRegisterCollector(reg, TradesRecordedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				TradesRecordedTotal = v
			}
		})
		mustRegisterCollector(reg, InvoiceRenderTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InvoiceRenderTotal = v
			}
		})
		mustRegisterCollector(reg, PartyTermsCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PartyTermsCacheTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
