package network

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"time"
)

type ServerOption func(*Server)

// WithLogger sets the logger used for request and rejection records.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTimeout bounds the time spent reading a request and writing its
// response.
func WithTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// WithCertificate serves over TLS with cert. It can be given more than once.
func WithCertificate(cert tls.Certificate) ServerOption {
	return func(s *Server) {
		if s.tlsConfig == nil {
			s.tlsConfig = &tls.Config{}
		}
		s.tlsConfig.Certificates = append(s.tlsConfig.Certificates, cert)
	}
}

// WithLimitedCAs only accepts clients presenting a certificate signed by one
// of the CAs in certPool.
func WithLimitedCAs(certPool *x509.CertPool) ServerOption {
	return func(s *Server) {
		if s.tlsConfig == nil {
			s.tlsConfig = &tls.Config{}
		}
		s.tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		s.tlsConfig.ClientCAs = certPool
	}
}

// WithCORS allows cross origin requests from any origin.
func WithCORS(enabled bool) ServerOption {
	return func(s *Server) {
		s.cors = enabled
	}
}

// WithNodeID overrides the random node identifier reported by /status.
func WithNodeID(id string) ServerOption {
	return func(s *Server) {
		s.nodeID = id
	}
}
