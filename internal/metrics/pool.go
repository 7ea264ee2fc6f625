package metrics

import "github.com/prometheus/client_golang/prometheus"

// PoolStats is a snapshot of database connection pool usage.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

var (
	poolAcquiredDesc = prometheus.NewDesc("atlas_db_pool_acquired_conns", "Connections currently checked out of the pool", nil, nil)
	poolIdleDesc     = prometheus.NewDesc("atlas_db_pool_idle_conns", "Idle connections held by the pool", nil, nil)
	poolTotalDesc    = prometheus.NewDesc("atlas_db_pool_total_conns", "Connections held by the pool", nil, nil)
	poolMaxDesc      = prometheus.NewDesc("atlas_db_pool_max_conns", "Configured pool size", nil, nil)
)

type poolCollector struct {
	stat func() PoolStats
}

// NewPoolCollector returns a collector that reads pool usage from stat on
// every scrape.
func NewPoolCollector(stat func() PoolStats) prometheus.Collector {
	return &poolCollector{stat: stat}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolAcquiredDesc
	ch <- poolIdleDesc
	ch <- poolTotalDesc
	ch <- poolMaxDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()

	ch <- prometheus.MustNewConstMetric(poolAcquiredDesc, prometheus.GaugeValue, float64(s.Acquired))
	ch <- prometheus.MustNewConstMetric(poolIdleDesc, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(poolTotalDesc, prometheus.GaugeValue, float64(s.Total))
	ch <- prometheus.MustNewConstMetric(poolMaxDesc, prometheus.GaugeValue, float64(s.Max))
}
