// Package network exposes a node's chain and peer registry over HTTP.
//
// # Core Components
//
// Server: owns the HTTP listener, the chi router and the metrics registry.
// It holds handles to a Ledger and a Registry and never touches global
// state, so several servers can run in the same process.
//
// # Routes
//
//	GET  /blocks/last        tail block
//	GET  /blocks?from_index  suffix of the chain as {"items": [...]}
//	POST /blocks             append a block
//	GET  /peers              registered peers as {"items": [...]}
//	POST /peers              register a peer
//	GET  /status             node summary
//	GET  /metrics            Prometheus exposition
//
// # Rejections
//
// Every rejected request answers 400 with a wire.ErrorAndReason body.
// Registering a peer twice is not a rejection: the second call answers 200
// instead of 201.
//
// # TLS
//
// WithCertificate switches the listener to TLS. WithLimitedCAs additionally
// requires clients to present a certificate signed by one of the given CAs.
package network
