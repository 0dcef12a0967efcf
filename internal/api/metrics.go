package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var exportFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "staffmatch",
	Subsystem: "api",
	Name:      "export_failures_total",
	Help:      "CSV exports aborted by a write failure",
})
