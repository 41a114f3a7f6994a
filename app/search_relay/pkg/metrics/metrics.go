package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace         = "search_relay"
	MetricsSubsystemCache    = "cache"
	MetricsSubsystemUpstream = "provider"
)

// Metrics 缓存、上游与请求耗时的统计
type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveCacheLookup(kind, outcome string)
	ObserveProviderRequest(provider, outcome string)
	AddExcludedResults(n int)
	ObserveRequestDuration(kind string, elapsed float64)
}

type metrics struct {
	registry *prometheus.Registry

	cacheLookupsTotal     *prometheus.CounterVec
	providerRequestsTotal *prometheus.CounterVec
	excludedResultsTotal  prometheus.Counter
	requestDuration       *prometheus.HistogramVec
}

// NewMetrics 创建独立 Registry 上的统计
func NewMetrics() Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: MetricsNamespace}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemCache,
		Name:      "lookups_total",
		Help:      "The total number of cache lookups by outcome.",
	}, []string{"kind", "outcome"})
	m.registry.MustRegister(m.cacheLookupsTotal)

	m.providerRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemUpstream,
		Name:      "requests_total",
		Help:      "The total number of upstream provider requests by outcome.",
	}, []string{"provider", "outcome"})
	m.registry.MustRegister(m.providerRequestsTotal)

	m.excludedResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "excluded_results_total",
		Help:      "The total number of results removed by exclusion patterns.",
	})
	m.registry.MustRegister(m.excludedResultsTotal)

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Time to answer a search or suggest request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	m.registry.MustRegister(m.requestDuration)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveCacheLookup(kind, outcome string) {
	if m != nil {
		m.cacheLookupsTotal.With(prometheus.Labels{"kind": kind, "outcome": outcome}).Inc()
	}
}

func (m *metrics) ObserveProviderRequest(provider, outcome string) {
	if m != nil {
		m.providerRequestsTotal.With(prometheus.Labels{"provider": provider, "outcome": outcome}).Inc()
	}
}

func (m *metrics) AddExcludedResults(n int) {
	if m != nil && n > 0 {
		m.excludedResultsTotal.Add(float64(n))
	}
}

func (m *metrics) ObserveRequestDuration(kind string, elapsed float64) {
	if m != nil {
		m.requestDuration.With(prometheus.Labels{"kind": kind}).Observe(elapsed)
	}
}

// Noop 不做任何统计
type Noop struct{}

func (Noop) GetRegistry() *prometheus.Registry      { return prometheus.NewRegistry() }
func (Noop) ObserveCacheLookup(string, string)      {}
func (Noop) ObserveProviderRequest(string, string)  {}
func (Noop) AddExcludedResults(int)                 {}
func (Noop) ObserveRequestDuration(string, float64) {}
