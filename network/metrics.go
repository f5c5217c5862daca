package network

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "blockledger"
	outcomeAccepted  = "accepted"
)

type metrics struct {
	registry     *prometheus.Registry
	blockAppends *prometheus.CounterVec
	peerAppends  *prometheus.CounterVec
}

func newMetrics(chain Ledger, peers Registry) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		blockAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "block_appends_total",
			Help:      "Blocks submitted for append, by outcome.",
		}, []string{"outcome"}),
		peerAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "peer_appends_total",
			Help:      "Peers submitted for registration, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.blockAppends,
		m.peerAppends,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chain_length",
			Help:      "Number of blocks in the chain, genesis included.",
		}, func() float64 { return float64(chain.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "peers",
			Help:      "Number of registered peers.",
		}, func() float64 { return float64(peers.Len()) }),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
