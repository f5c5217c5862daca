package network

import (
	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
)

// Ledger is the chain a Server publishes. *ledger.Blockchain satisfies it.
type Ledger interface {
	// Append validates and stores a block.
	Append(candidate ledger.Block) (ledger.Block, error)

	// GetLatest returns the tail block.
	GetLatest() (ledger.Block, error)

	// From returns the blocks from offset to the tail.
	From(offset int) []ledger.Block

	Len() int
}

// Registry is the peer set a Server publishes. *peers.Registry satisfies it.
type Registry interface {
	Append(entry peers.Entry) (peers.Entry, error)
	List() []peers.Entry
	Len() int
}

var (
	_ Ledger   = (*ledger.Blockchain)(nil)
	_ Registry = (*peers.Registry)(nil)
)
