package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffmatch",
		Subsystem: "engine",
		Name:      "runs_total",
		Help:      "Match runs processed, by terminal status",
	}, []string{"status"})

	pairsScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staffmatch",
		Subsystem: "engine",
		Name:      "pairs_scored_total",
		Help:      "Employee project pairs scored",
	})

	pairErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staffmatch",
		Subsystem: "engine",
		Name:      "pair_errors_total",
		Help:      "Pairs skipped because the profile failed validation",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staffmatch",
		Subsystem: "engine",
		Name:      "cache_hits_total",
		Help:      "Runs served from the result cache",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "staffmatch",
		Subsystem: "engine",
		Name:      "run_duration_seconds",
		Help:      "Wall time spent executing a match run",
		Buckets:   prometheus.DefBuckets,
	})
)
