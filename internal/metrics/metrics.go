package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "copilot_usage"

// Usage refresh and device flow Prometheus metrics.
var (
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Total number of usage refreshes",
		},
		[]string{"result"}, // "success" / "failure"
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Usage refresh duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PremiumRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "premium_requests",
			Help:      "Premium requests from the last successful refresh",
		},
		[]string{"kind"}, // "used" / "limit"
	)

	PremiumPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "premium_percent",
			Help:      "Premium request usage in percent, unclamped",
		},
	)

	LastSuccessTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		},
	)

	DeviceFlowTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_flow_total",
			Help:      "Device authorization flows by final state",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshDuration)
	prometheus.MustRegister(PremiumRequests)
	prometheus.MustRegister(PremiumPercent)
	prometheus.MustRegister(LastSuccessTimestamp)
	prometheus.MustRegister(DeviceFlowTotal)
}

// ObserveSnapshot records the gauges of a successful refresh.
func ObserveSnapshot(used, limit int64, percent int, fetchedAtUnix float64) {
	PremiumRequests.WithLabelValues("used").Set(float64(used))
	PremiumRequests.WithLabelValues("limit").Set(float64(limit))
	PremiumPercent.Set(float64(percent))
	LastSuccessTimestamp.Set(fetchedAtUnix)
}

// ResetSnapshot zeroes the usage gauges after sign-out.
func ResetSnapshot() {
	PremiumRequests.Reset()
	PremiumPercent.Set(0)
	LastSuccessTimestamp.Set(0)
}
