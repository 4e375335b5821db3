package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// tickDriftSeconds observes how far a tick's actual wall-clock interval
// strayed from its configured interval, as an absolute value, whether the
// scheduler ran behind (GC pause, a slow controller blocking tickAll, CPU
// contention) or ahead.
var tickDriftSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "gameserver_ai_tick_drift_seconds",
	Help:    "Absolute difference between a tick's actual and configured interval.",
	Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
})

// tickDurationSeconds observes how long one tickAll pass over every
// registered controller took.
var tickDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "gameserver_ai_tick_duration_seconds",
	Help:    "Wall-clock time spent running Tick() across all registered AI controllers.",
	Buckets: prometheus.DefBuckets,
})
