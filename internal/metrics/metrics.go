package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scango_cycles_total",
		Help: "Scan cycles by outcome",
	}, []string{"outcome"}) // outcome=identified|unknown|time_limit_reached|server_unreachable|camera_reinit_failed|capture_failed

	suspensionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scango_suspensions_total",
		Help: "Suspensions by reason",
	}, []string{"reason"}) // reason=network_down|server_down

	uploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scango_upload_duration_seconds",
		Help:    "Frame upload round trip by status",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"status"}) // status=<http code>|transport_error

	joinDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scango_network_join_seconds",
		Help: "Time spent joining the network at the last boot",
	})

	joinResult = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scango_network_join_total",
		Help: "Network join attempts by result",
	}, []string{"result"}) // result=joined|timed_out
)

// RecordOutcome counts one finished cycle.
func RecordOutcome(outcome string) {
	cyclesTotal.WithLabelValues(outcome).Inc()
}

// RecordSuspension counts one suspension.
func RecordSuspension(reason string) {
	suspensionsTotal.WithLabelValues(reason).Inc()
}

// ObserveUpload records one upload round trip.
func ObserveUpload(status string, d time.Duration) {
	uploadDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordJoin records the boot-time network join.
func RecordJoin(result string, d time.Duration) {
	joinResult.WithLabelValues(result).Inc()
	joinDuration.Set(d.Seconds())
}
