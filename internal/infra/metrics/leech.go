package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		leechTasksTotal,
		resolverCallsTotal,
		resolverLatencyMs,
		downloadBytesTotal,
		uploadBytesTotal,
		oversizeRejectedTotal,
	)
}

var (
	leechTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leech_tasks_total",
			Help: "Leech requests by terminal outcome (done/invalid_link/resolution_failed/too_large/download_failed/upload_failed).",
		},
		[]string{"outcome"},
	)

	resolverCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_calls_total",
			Help: "Terabox resolver calls by result.",
		},
		[]string{"success"},
	)

	resolverLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resolver_latency_ms",
			Help:    "Resolver call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)

	downloadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "download_bytes_total",
			Help: "Sum of bytes downloaded from direct links.",
		},
	)

	uploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_bytes_total",
			Help: "Sum of bytes uploaded into chats.",
		},
	)

	oversizeRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oversize_rejected_total",
			Help: "Resolved files rejected for exceeding the upload ceiling.",
		},
	)
)

func IncLeechOutcome(outcome string) {
	leechTasksTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveResolverCall(latencyMs int64, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	resolverCallsTotal.WithLabelValues(label).Inc()
	resolverLatencyMs.Observe(float64(latencyMs))
}

func AddDownloadBytes(n int64) {
	if n > 0 {
		downloadBytesTotal.Add(float64(n))
	}
}

func AddUploadBytes(n int64) {
	if n > 0 {
		uploadBytesTotal.Add(float64(n))
	}
}

func IncOversizeRejected() {
	oversizeRejectedTotal.Inc()
}
