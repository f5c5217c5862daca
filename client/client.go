// Package client talks to a node's HTTP API and turns its rejections back
// into the typed errors of the ledger and peers packages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
	"github.com/luca-patrignani/blockledger/wire"
)

const maxResponseBytes = 16 << 20

// StatusError reports a response that is neither a success nor a decodable
// rejection.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(Client) Client

// WithHTTPClient replaces the HTTP client, for instance to trust a self
// signed certificate.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c Client) Client {
		c.httpClient = httpClient
		return c
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c Client) Client {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
		return c
	}
}

// New returns a client for the node reachable at baseURL, for example
// "http://127.0.0.1:8080".
func New(baseURL string, opts ...Option) *Client {
	c := Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return &c
}

// GetAllBlocks returns the whole chain.
func (c *Client) GetAllBlocks(ctx context.Context) ([]ledger.Block, error) {
	var list wire.BlockList
	if err := c.get(ctx, "/blocks", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetBlocks returns the blocks from position from to the tail.
func (c *Client) GetBlocks(ctx context.Context, from int) ([]ledger.Block, error) {
	var list wire.BlockList
	limits := wire.Limits{FromIndex: from}
	if err := c.get(ctx, "/blocks?"+limits.Query(), &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) GetLastBlock(ctx context.Context) (ledger.Block, error) {
	var block ledger.Block
	if err := c.get(ctx, "/blocks/last", &block); err != nil {
		return ledger.Block{}, err
	}
	return block, nil
}

// SendBlock submits b for append. A rejection is returned as the ledger
// error the node reported, e.g. ledger.HashNotMatchingError.
func (c *Client) SendBlock(ctx context.Context, b ledger.Block) (ledger.Block, error) {
	code, body, err := c.roundTrip(ctx, http.MethodPost, "/blocks", b)
	if err != nil {
		return ledger.Block{}, err
	}
	switch {
	case isSuccess(code):
		var confirmed ledger.Block
		if err := json.Unmarshal(body, &confirmed); err != nil {
			return ledger.Block{}, fmt.Errorf("client: decoding block: %w", err)
		}
		return confirmed, nil
	case code == http.StatusBadRequest:
		pair, ok := decodeRejection(body)
		if !ok {
			return ledger.Block{}, &StatusError{Code: code, Body: string(body)}
		}
		return ledger.Block{}, unknownWithDetail(pair.BlockError(), ledger.ErrUnknown, pair)
	default:
		return ledger.Block{}, &StatusError{Code: code, Body: string(body)}
	}
}

// AddPeer registers e. Registering a peer that is already known succeeds.
func (c *Client) AddPeer(ctx context.Context, e peers.Entry) error {
	code, body, err := c.roundTrip(ctx, http.MethodPost, "/peers", e)
	if err != nil {
		return err
	}
	switch {
	case isSuccess(code):
		return nil
	case code == http.StatusBadRequest:
		pair, ok := decodeRejection(body)
		if !ok {
			return &StatusError{Code: code, Body: string(body)}
		}
		return unknownWithDetail(pair.EntryError(), peers.ErrUnknown, pair)
	default:
		return &StatusError{Code: code, Body: string(body)}
	}
}

func (c *Client) ListPeers(ctx context.Context) ([]peers.Entry, error) {
	var list wire.PeerList
	if err := c.get(ctx, "/peers", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) Status(ctx context.Context) (wire.Status, error) {
	var status wire.Status
	if err := c.get(ctx, "/status", &status); err != nil {
		return wire.Status{}, err
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	code, body, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !isSuccess(code) {
		return &StatusError{Code: code, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("client: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("client: reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func decodeRejection(body []byte) (wire.ErrorAndReason, bool) {
	var pair wire.ErrorAndReason
	if err := json.Unmarshal(body, &pair); err != nil || pair.Label == "" {
		return wire.ErrorAndReason{}, false
	}
	return pair, true
}

// unknownWithDetail keeps the label and reason of rejections the codec
// could not map to a variant.
func unknownWithDetail(decoded, unknown error, pair wire.ErrorAndReason) error {
	if errors.Is(decoded, unknown) {
		return fmt.Errorf("%w: %v", unknown, pair)
	}
	return decoded
}
