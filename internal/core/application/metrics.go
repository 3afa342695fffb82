package application

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "rpmirror"

type mirrorMetrics struct {
	accepted     prometheus.Counter
	rejected     prometheus.Counter
	bootstraps   prometheus.Counter
	decodeErrors prometheus.Counter
	tracked      prometheus.Gauge
}

func newMirrorMetrics(registerer prometheus.Registerer) (*mirrorMetrics, error) {
	m := &mirrorMetrics{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "updates_accepted_total",
			Help:      "Number of account root deltas merged into a snapshot.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "updates_rejected_total",
			Help:      "Number of deltas dropped because of a predecessor mismatch.",
		}),
		bootstraps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bootstraps_total",
			Help:      "Number of full snapshots seeded into a tracker.",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_errors_total",
			Help:      "Number of ledger messages that could not be parsed.",
		}),
		tracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tracked_accounts",
			Help:      "Number of accounts currently tracked.",
		}),
	}

	if registerer == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.accepted, m.rejected, m.bootstraps, m.decodeErrors, m.tracked,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
