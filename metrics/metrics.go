package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrms_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	RollupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrms_rollup_failures_total",
		Help: "Best-effort rollups that failed and were swallowed.",
	}, []string{"kind"})

	TaskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrms_task_transitions_total",
		Help: "Task status transitions applied by the workflow.",
	}, []string{"to"})
)
