package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes the three metric series named in the external
// interfaces: two counters (total_generated, total_items) and a gauge
// (last_avg_score). Grounded on the teacher's metrics_collector.go
// promauto registration pattern, trimmed to this module's series.
type Recorder struct {
	totalGenerated prometheus.Counter
	totalItems     prometheus.Counter
	lastAvgScore   prometheus.Gauge
}

func NewRecorder() *Recorder {
	return &Recorder{
		totalGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recommendations_total_generated",
			Help: "Total number of recommendation requests that produced a result",
		}),
		totalItems: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recommendations_total_items",
			Help: "Total number of items returned across all recommendation responses",
		}),
		lastAvgScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "recommendations_last_avg_score",
			Help: "Average hybrid score of the most recently generated recommendation list",
		}),
	}
}

// RecordGenerated increments total_generated once per successful request
// and total_items by the number of items returned.
func (r *Recorder) RecordGenerated(count int) {
	r.totalGenerated.Inc()
	r.totalItems.Add(float64(count))
}

// RecordAvgScore sets the last_avg_score gauge. Called only when at least
// one record was returned.
func (r *Recorder) RecordAvgScore(avg float64) {
	r.lastAvgScore.Set(avg)
}
