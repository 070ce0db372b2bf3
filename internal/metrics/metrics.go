package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simako_messages_ingested_total",
			Help: "Inbound messages accepted and stored, by kind",
		},
		[]string{"kind"}, // sms|call
	)

	SimRegistrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simako_sim_registrations_total",
			Help: "SIM cards registered",
		},
	)

	OutboundQueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simako_outbound_queued_total",
			Help: "Outbound SMS requests accepted for sending",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		MessagesIngested,
		SimRegistrations,
		OutboundQueued,
	)
}
