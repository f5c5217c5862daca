package network

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
	"github.com/luca-patrignani/blockledger/wire"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleLastBlock(w http.ResponseWriter, r *http.Request) {
	tail, err := s.chain.GetLatest()
	if err != nil {
		s.reject(w, r, http.StatusInternalServerError, wire.FromBlockError(err))
		return
	}
	writeJSON(w, http.StatusOK, tail)
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	limits, err := wire.ParseLimits(r.URL.Query())
	if err != nil {
		s.reject(w, r, http.StatusBadRequest, wire.Malformed(err))
		return
	}
	writeJSON(w, http.StatusOK, wire.NewList(s.chain.From(limits.FromIndex)))
}

func (s *Server) handleAddBlock(w http.ResponseWriter, r *http.Request) {
	var candidate ledger.Block
	err := decodeBody(w, r, &candidate)
	if err == nil && candidate.Data == nil {
		err = ledger.ErrMissingPayload
	}
	if err != nil {
		s.metrics.blockAppends.WithLabelValues(wire.MalformedRequestLabel).Inc()
		s.reject(w, r, http.StatusBadRequest, wire.Malformed(err))
		return
	}

	stored, err := s.chain.Append(candidate)
	if err != nil {
		pair := wire.FromBlockError(err)
		s.metrics.blockAppends.WithLabelValues(pair.Label).Inc()
		s.reject(w, r, http.StatusBadRequest, pair)
		return
	}

	s.metrics.blockAppends.WithLabelValues(outcomeAccepted).Inc()
	s.logger.Info("block appended", "index", stored.Index, "hash", stored.Hash())
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleListPeers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wire.NewList(s.registry.List()))
}

func (s *Server) handleAddPeer(w http.ResponseWriter, r *http.Request) {
	var entry peers.Entry
	if err := decodeBody(w, r, &entry); err != nil {
		s.metrics.peerAppends.WithLabelValues(wire.MalformedRequestLabel).Inc()
		s.reject(w, r, http.StatusBadRequest, wire.Malformed(err))
		return
	}

	added, err := s.registry.Append(entry)
	var present peers.AlreadyPresentError
	switch {
	case err == nil:
		s.metrics.peerAppends.WithLabelValues(outcomeAccepted).Inc()
		s.logger.Info("peer registered", "peer", added.Peer)
		writeJSON(w, http.StatusCreated, added)
	case errors.As(err, &present):
		// Registering twice already achieved what the caller asked for.
		s.metrics.peerAppends.WithLabelValues(wire.EntryAlreadyPresentLabel).Inc()
		writeJSON(w, http.StatusOK, present.Entry)
	default:
		pair := wire.FromEntryError(err)
		s.metrics.peerAppends.WithLabelValues(pair.Label).Inc()
		s.reject(w, r, http.StatusBadRequest, pair)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := wire.Status{
		NodeID: s.nodeID,
		Length: s.chain.Len(),
		Peers:  s.registry.Len(),
	}
	if tail, err := s.chain.GetLatest(); err == nil {
		status.LastIndex = tail.Index
		status.LastHash = tail.Hash()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, code int, pair wire.ErrorAndReason) {
	s.logger.Info("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"label", pair.Label,
		"reason", pair.Reason,
	)
	writeJSON(w, code, pair)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
