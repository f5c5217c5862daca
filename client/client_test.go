package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/network"
	"github.com/luca-patrignani/blockledger/peers"
	"github.com/luca-patrignani/blockledger/wire"
)

var genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// startNode serves a fresh chain and registry and returns a client for it.
func startNode(t *testing.T) (*Client, *ledger.Blockchain) {
	t.Helper()
	chain := ledger.NewBlockchain("Genesis block", ledger.WithClock(clock.NewTestClock(genesisTime)))
	server := network.NewServer(chain, peers.NewRegistry())
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL, WithTimeout(5*time.Second)), chain
}

// TestGetAllBlocks verifies that the client lists the whole chain.
func TestGetAllBlocks(t *testing.T) {
	c, chain := startNode(t)
	ctx := context.Background()

	blocks, err := c.GetAllBlocks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, actual %d", len(blocks))
	}

	genesis := blocks[0]
	if _, err := chain.Append(genesis.Next(genesis.Timestamp+100, ledger.MessagePayload("Second block data"))); err != nil {
		t.Fatal(err)
	}

	blocks, err = c.GetAllBlocks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, actual %d", len(blocks))
	}
	if blocks[1].Data["message"] != "Second block data" {
		t.Fatalf("expected Second block data, actual %v", blocks[1].Data["message"])
	}
}

// TestGetBlocksSendsFromIndex checks the query sent for a suffix.
func TestGetBlocksSendsFromIndex(t *testing.T) {
	var gotQuery, gotMethod string
	var gotBody int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotMethod = r.Method
		gotBody = r.ContentLength
		_ = json.NewEncoder(w).Encode(wire.NewList([]ledger.Block{
			{Index: 1, Data: ledger.MessagePayload("one")},
			{Index: 2, Data: ledger.MessagePayload("two")},
		}))
	}))
	defer ts.Close()

	blocks, err := New(ts.URL).GetBlocks(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, actual %d", len(blocks))
	}
	if gotQuery != "from_index=1" {
		t.Fatalf("expected from_index=1, actual %s", gotQuery)
	}
	if gotMethod != http.MethodGet || gotBody != 0 {
		t.Fatalf("expected a bodiless GET, actual %s with %d bytes", gotMethod, gotBody)
	}
}

// TestSendBlockAccepted verifies that an accepted block is returned as
// stored by the node.
func TestSendBlockAccepted(t *testing.T) {
	c, chain := startNode(t)
	ctx := context.Background()

	tail, err := c.GetLastBlock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	next := tail.Next(tail.Timestamp+100, ledger.Payload{"message": "hi", "n": json.Number("1.50")})

	confirmed, err := c.SendBlock(ctx, next)
	if err != nil {
		t.Fatal(err)
	}
	if !next.Equal(confirmed) {
		t.Fatalf("expected %+v, actual %+v", next, confirmed)
	}
	if chain.Len() != 2 {
		t.Fatalf("expected 2 blocks, actual %d", chain.Len())
	}

	stored, err := chain.GetLatest()
	if err != nil {
		t.Fatal(err)
	}
	if stored.Hash() != next.Hash() {
		t.Fatalf("expected hash %s, actual %s", next.Hash(), stored.Hash())
	}
}

// TestSendBlockRejected verifies that every rejection comes back as the
// typed ledger error the node produced.
func TestSendBlockRejected(t *testing.T) {
	c, chain := startNode(t)
	ctx := context.Background()
	genesis, err := chain.GetLatest()
	if err != nil {
		t.Fatal(err)
	}
	ts := genesis.Timestamp

	tests := []struct {
		name  string
		block ledger.Block
		want  error
	}{
		{
			name:  "hash",
			block: ledger.Block{Index: 1, PreviousHash: "bogus", Timestamp: ts + 1, Data: ledger.MessagePayload("x")},
			want:  ledger.HashNotMatchingError{Given: "bogus", Expected: genesis.Hash()},
		},
		{
			name:  "index",
			block: ledger.Block{Index: 3, PreviousHash: genesis.Hash(), Timestamp: ts + 1, Data: ledger.MessagePayload("x")},
			want:  ledger.NotCorrelatedError{Given: 3, Expected: 0},
		},
		{
			name:  "timestamp",
			block: ledger.Block{Index: 1, PreviousHash: genesis.Hash(), Timestamp: ts - 1, Data: ledger.MessagePayload("x")},
			want:  ledger.NotPosteriorError{Given: ts - 1, Expected: ts},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.SendBlock(ctx, tt.block); err != tt.want {
				t.Fatalf("expected %v, actual %v", tt.want, err)
			}
		})
	}
}

// TestSendBlockUnknownRejection verifies that rejections the codec cannot
// read surface as ledger.ErrUnknown with the raw reason attached.
func TestSendBlockUnknownRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(wire.ErrorAndReason{Label: "Previous hash not matching", Reason: "previous hash is expected but given was provided"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).SendBlock(context.Background(), ledger.Block{})
	if !errors.Is(err, ledger.ErrUnknown) {
		t.Fatalf("expected %v, actual %v", ledger.ErrUnknown, err)
	}
	if !strings.Contains(err.Error(), "previous hash is expected but given was provided") {
		t.Fatalf("expected the reason in %q", err.Error())
	}
}

// TestUnexpectedStatus verifies that other failures are reported with their
// status code.
func TestUnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	c := New(ts.URL)
	ctx := context.Background()

	_, err := c.SendBlock(ctx, ledger.Block{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, actual %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError || statusErr.Body != "boom\n" {
		t.Fatalf("expected 500 boom, actual %d %q", statusErr.Code, statusErr.Body)
	}

	if _, err := c.GetAllBlocks(ctx); !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, actual %v", err)
	}
	if err := c.AddPeer(ctx, peers.Entry{Peer: "http://a"}); !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, actual %v", err)
	}
}

// TestPeers covers registration, idempotence, rejection and listing.
func TestPeers(t *testing.T) {
	c, _ := startNode(t)
	ctx := context.Background()

	list, err := c.ListPeers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no peers, actual %v", list)
	}

	entry := peers.Entry{Peer: "ws://localhost:5055"}
	for i := 0; i < 2; i++ {
		if err := c.AddPeer(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}

	expectedErr := peers.InvalidURLError{URL: "localhost:5055"}
	if err := c.AddPeer(ctx, peers.Entry{Peer: "localhost:5055"}); err != expectedErr {
		t.Fatalf("expected %v, actual %v", expectedErr, err)
	}

	list, err = c.ListPeers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(list, []peers.Entry{entry}) {
		t.Fatalf("expected [%v], actual %v", entry, list)
	}
}

// TestStatus verifies the node summary after an append.
func TestStatus(t *testing.T) {
	c, chain := startNode(t)
	ctx := context.Background()
	genesis, err := chain.GetLatest()
	if err != nil {
		t.Fatal(err)
	}
	next := genesis.Next(genesis.Timestamp, ledger.MessagePayload("same millisecond"))
	if _, err := c.SendBlock(ctx, next); err != nil {
		t.Fatal(err)
	}

	status, err := c.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.NodeID == "" {
		t.Fatal("expected a node id")
	}
	if status.Length != 2 || status.LastIndex != 1 {
		t.Fatalf("expected length 2 and last index 1, actual %d and %d", status.Length, status.LastIndex)
	}
	if status.LastHash != next.Hash() {
		t.Fatalf("expected hash %s, actual %s", next.Hash(), status.LastHash)
	}
}

// TestCancelledContext verifies that the context bounds every call.
func TestCancelledContext(t *testing.T) {
	c, _ := startNode(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.GetLastBlock(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected %v, actual %v", context.Canceled, err)
	}
}

// TestTrailingSlash verifies that the base URL may end with a slash.
func TestTrailingSlash(t *testing.T) {
	chain := ledger.NewBlockchain("Genesis block")
	ts := httptest.NewServer(network.NewServer(chain, peers.NewRegistry()).Handler())
	defer ts.Close()

	if _, err := New(ts.URL + "/").GetLastBlock(context.Background()); err != nil {
		t.Fatal(err)
	}
}
