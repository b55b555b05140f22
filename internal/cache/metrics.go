package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Every metric is labelled with the Group the cache was opened with.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"cache"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries removed from the cache.",
		},
		[]string{"cache"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of failed cache operations.",
		},
		[]string{"cache", "op"},
	)
)

func init() {
	prometheus.MustRegister(HitsTotal, MissesTotal, EvictionsTotal, ErrorsTotal)
}

type entriesCollector struct {
	desc    *prometheus.Desc
	lenFunc func() int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.lenFunc()))
}

var (
	collectorsMu sync.Mutex
	collectors   = make(map[string]*entriesCollector)
	// entriesReg is swapped for an isolated registry in tests.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector installs the cache_entries gauge for group,
// replacing a collector left behind by an earlier cache of the same group.
func registerEntriesCollector(group string, lenFunc func() int) {
	c := &entriesCollector{
		desc: prometheus.NewDesc(
			"cache_entries",
			"Current number of entries in the cache.",
			nil,
			prometheus.Labels{"cache": group},
		),
		lenFunc: lenFunc,
	}

	collectorsMu.Lock()
	defer collectorsMu.Unlock()

	if old, ok := collectors[group]; ok {
		entriesReg.Unregister(old)
	}
	collectors[group] = c
	_ = entriesReg.Register(c)
}

func unregisterEntriesCollector(group string) {
	collectorsMu.Lock()
	defer collectorsMu.Unlock()

	if c, ok := collectors[group]; ok {
		entriesReg.Unregister(c)
		delete(collectors, group)
	}
}
