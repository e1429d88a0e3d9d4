package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StreamOpenTotal tracks stream open attempts by tier and result.
	StreamOpenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "miru_stream_open_total",
		Help: "Stream open attempts by source tier (custom, extraction) and result",
	}, []string{"tier", "result"})

	// StreamRelayBytes counts bytes relayed to clients per source tier.
	StreamRelayBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "miru_stream_relay_bytes_total",
		Help: "Total media bytes relayed to clients by source tier",
	}, []string{"tier"})

	// ActiveStreams gauges currently open client relays.
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "miru_stream_active",
		Help: "Number of media relays currently in flight",
	})
)

// IncStreamOpen records a stream open attempt outcome for a tier.
func IncStreamOpen(tier string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StreamOpenTotal.WithLabelValues(tier, result).Inc()
}

// AddRelayBytes accumulates bytes relayed for a tier.
func AddRelayBytes(tier string, n int64) {
	if n > 0 {
		StreamRelayBytes.WithLabelValues(tier).Add(float64(n))
	}
}
