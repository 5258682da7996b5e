// Package build generates the theme stylesheets the Inkwell module points its
// host at, either once or on every change to the theme file.
package build

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildResult describes one pipeline run.
type BuildResult struct {
	// Written counts stylesheets whose content changed.
	Written int
	// Unchanged counts stylesheets already up to date on disk.
	Unchanged int
	Duration  time.Duration
	Error     error
}

// CacheHit reports whether every stylesheet was already up to date.
func (r BuildResult) CacheHit() bool {
	return r.Error == nil && r.Written == 0 && r.Unchanged > 0
}

// BuildMetrics tracks build performance in memory and, when registered,
// exports it to Prometheus.
type BuildMetrics struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	CacheHits        int64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
	mutex            sync.RWMutex

	builds    *prometheus.CounterVec
	cacheHits prometheus.Counter
	duration  prometheus.Histogram
}

// NewBuildMetrics creates a new build metrics tracker
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "builds_total",
			Help:      "Total number of stylesheet builds, by result.",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "stylesheet_cache_hits_total",
			Help:      "Total number of generated stylesheets already up to date on disk.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inkwell",
			Name:      "build_duration_seconds",
			Help:      "Duration of stylesheet builds.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
	}
}

// Register exports the metrics through reg.
func (bm *BuildMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{bm.builds, bm.cacheHits, bm.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes the metrics from reg.
func (bm *BuildMetrics) Unregister(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{bm.builds, bm.cacheHits, bm.duration} {
		reg.Unregister(c)
	}
}

// RecordBuild records a build result in the metrics
func (bm *BuildMetrics) RecordBuild(result BuildResult) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	bm.TotalBuilds++
	bm.TotalDuration += result.Duration

	if result.CacheHit() {
		bm.CacheHits++
	}

	label := "success"
	if result.Error != nil {
		bm.FailedBuilds++
		label = "failure"
	} else {
		bm.SuccessfulBuilds++
	}

	bm.AverageDuration = bm.TotalDuration / time.Duration(bm.TotalBuilds)

	bm.builds.WithLabelValues(label).Inc()
	bm.cacheHits.Add(float64(result.Unchanged))
	bm.duration.Observe(result.Duration.Seconds())
}

// GetSnapshot returns a snapshot of current metrics
func (bm *BuildMetrics) GetSnapshot() BuildMetrics {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()
	return BuildMetrics{
		TotalBuilds:      bm.TotalBuilds,
		SuccessfulBuilds: bm.SuccessfulBuilds,
		FailedBuilds:     bm.FailedBuilds,
		CacheHits:        bm.CacheHits,
		AverageDuration:  bm.AverageDuration,
		TotalDuration:    bm.TotalDuration,
	}
}

// GetCacheHitRate returns the share of builds that wrote nothing, as a percentage
func (bm *BuildMetrics) GetCacheHitRate() float64 {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()

	if bm.TotalBuilds == 0 {
		return 0.0
	}

	return float64(bm.CacheHits) / float64(bm.TotalBuilds) * 100.0
}

// GetSuccessRate returns the success rate as a percentage
func (bm *BuildMetrics) GetSuccessRate() float64 {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()

	if bm.TotalBuilds == 0 {
		return 0.0
	}

	return float64(bm.SuccessfulBuilds) / float64(bm.TotalBuilds) * 100.0
}
