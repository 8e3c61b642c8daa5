package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks analysis throughput and catalog state.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	AnalysesTotal     *prometheus.CounterVec
	AnalyzeDuration   prometheus.Histogram
	EligibleSubsidies prometheus.Histogram
	OptimalAmount     prometheus.Histogram
	CalculationFaults *prometheus.CounterVec
	CatalogReloads    *prometheus.CounterVec
	CatalogSubsidies  prometheus.Gauge
	ReportsGenerated  prometheus.Counter
	RateLimitedTotal  prometheus.Counter
}

// New registers all metrics on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "subsidyopt_analyses_total",
			Help: "Total number of profile analyses by outcome",
		}, []string{"outcome"}),
		AnalyzeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "subsidyopt_analyze_duration_seconds",
			Help:    "Duration of a full eligibility and optimization pass",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		EligibleSubsidies: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "subsidyopt_eligible_subsidies",
			Help:    "Number of eligible subsidies per analysis",
			Buckets: prometheus.LinearBuckets(0, 1, 12),
		}),
		OptimalAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "subsidyopt_optimal_amount_won",
			Help:    "Total payout of the optimal combination in KRW",
			Buckets: prometheus.ExponentialBuckets(1_000_000, 2, 10),
		}),
		CalculationFaults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "subsidyopt_calculation_faults_total",
			Help: "Calculation descriptors that evaluated to zero because of a catalog fault",
		}, []string{"subsidy_id"}),
		CatalogReloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "subsidyopt_catalog_swaps_total",
			Help: "Catalog activations by source",
		}, []string{"source"}),
		CatalogSubsidies: f.NewGauge(prometheus.GaugeOpts{
			Name: "subsidyopt_catalog_subsidies",
			Help: "Number of subsidies in the active catalog",
		}),
		ReportsGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "subsidyopt_reports_generated_total",
			Help: "PDF reports rendered",
		}),
		RateLimitedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "subsidyopt_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// ObserveAnalysis records one analysis. Call with time.Now() taken before it started.
func (m *Metrics) ObserveAnalysis(start time.Time, eligible int, optimal int64, hasOptimal bool) {
	if m == nil {
		return
	}
	m.AnalyzeDuration.Observe(time.Since(start).Seconds())
	m.EligibleSubsidies.Observe(float64(eligible))
	if !hasOptimal {
		m.AnalysesTotal.WithLabelValues("none_eligible").Inc()
		return
	}
	m.AnalysesTotal.WithLabelValues("optimized").Inc()
	m.OptimalAmount.Observe(float64(optimal))
}

func (m *Metrics) IncrementFault(subsidyID string) {
	if m == nil {
		return
	}
	m.CalculationFaults.WithLabelValues(subsidyID).Inc()
}

// ObserveCatalog records a catalog activation.
func (m *Metrics) ObserveCatalog(external bool, count int) {
	if m == nil {
		return
	}
	source := "builtin"
	if external {
		source = "external"
	}
	m.CatalogReloads.WithLabelValues(source).Inc()
	m.CatalogSubsidies.Set(float64(count))
}

func (m *Metrics) IncrementReports() {
	if m == nil {
		return
	}
	m.ReportsGenerated.Inc()
}

func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// Handler serves the registry in the Prometheus text format. Compression is
// left to the router's gzip middleware so a scrape is never encoded twice.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{DisableCompression: true})
}
