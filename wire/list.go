package wire

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
)

// List wraps a collection so that it travels as {"items": [...]}.
type List[T any] struct {
	Items []T `json:"items"`
}

// BlockList is the body of GET /blocks.
type BlockList = List[ledger.Block]

// PeerList is the body of GET /peers.
type PeerList = List[peers.Entry]

// NewList returns a List that always encodes its items as an array, never
// as null.
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items}
}

const fromIndexParam = "from_index"

// Limits selects a suffix of the chain.
type Limits struct {
	FromIndex int
}

// Query renders the limits as a URL query string.
func (l Limits) Query() string {
	v := url.Values{}
	v.Set(fromIndexParam, strconv.Itoa(l.FromIndex))
	return v.Encode()
}

// ParseLimits reads the limits from a query. A missing from_index means the
// whole chain.
func ParseLimits(q url.Values) (Limits, error) {
	raw := q.Get(fromIndexParam)
	if raw == "" {
		return Limits{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Limits{}, fmt.Errorf("wire: invalid %s %q: %w", fromIndexParam, raw, err)
	}
	if n < 0 {
		return Limits{}, fmt.Errorf("wire: %s must not be negative, got %d", fromIndexParam, n)
	}
	return Limits{FromIndex: n}, nil
}
