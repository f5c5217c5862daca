package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

type Blockchain struct {
	mu     sync.RWMutex
	blocks []Block
	clock  clock.Clock
}

// Option configures a Blockchain at construction time.
type Option func(*Blockchain)

// WithClock sets the clock used to stamp the genesis block.
func WithClock(c clock.Clock) Option {
	return func(bc *Blockchain) {
		bc.clock = c
	}
}

// NewBlockchain creates a new blockchain seeded with a genesis block.
// The genesis block has index 0, an empty previous hash, the current time
// and the payload {"message": message}.
func NewBlockchain(message string, opts ...Option) *Blockchain {
	bc := &Blockchain{
		blocks: make([]Block, 0, 1),
		clock:  clock.NewDefaultClock(),
	}
	for _, opt := range opts {
		opt(bc)
	}

	genesis := Block{
		Index:        0,
		PreviousHash: "",
		Timestamp:    Millis(bc.clock.Now()),
		Data:         MessagePayload(message),
	}
	bc.blocks = append(bc.blocks, genesis)

	return bc
}

// Millis converts t to milliseconds since the Unix epoch.
func Millis(t time.Time) uint64 {
	return uint64(t.UnixMilli())
}

// Append validates candidate against the current tail and, if every check
// passes, stores it unchanged and returns it. Only the first failing check
// is reported and nothing is stored on failure.
func (bc *Blockchain) Append(candidate Block) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(bc.blocks) == 0 {
		return Block{}, ErrGenesisNotFound
	}
	if err := validateBlock(candidate, bc.blocks[len(bc.blocks)-1]); err != nil {
		return Block{}, err
	}
	if _, err := encodePayload(candidate.Data); err != nil {
		return Block{}, err
	}

	bc.blocks = append(bc.blocks, candidate)

	return candidate, nil
}

// GetLatest returns the most recently added block in the blockchain.
// Returns an error if the blockchain is empty.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, ErrGenesisNotFound
	}

	return bc.blocks[len(bc.blocks)-1], nil
}

// GetByIndex retrieves a block by its position in the chain.
func (bc *Blockchain) GetByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("ledger: index %d out of range", index)
	}

	return bc.blocks[index], nil
}

// From returns a copy of the blocks from position offset to the tail.
// An offset outside the chain yields an empty list.
func (bc *Blockchain) From(offset int) []Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if offset < 0 || offset >= len(bc.blocks) {
		return []Block{}
	}
	suffix := make([]Block, len(bc.blocks)-offset)
	copy(suffix, bc.blocks[offset:])
	return suffix
}

// Len returns the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// Verify re-checks the link between every pair of adjacent blocks.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return ErrGenesisNotFound
	}
	if bc.blocks[0].Index != 0 || bc.blocks[0].PreviousHash != "" {
		return fmt.Errorf("ledger: invalid genesis block")
	}

	for i := 1; i < len(bc.blocks); i++ {
		if err := validateBlock(bc.blocks[i], bc.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}

	return nil
}

// validateBlock checks current against previous: index continuity first,
// then timestamp ordering, then the hash link.
func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return NotCorrelatedError{Given: current.Index, Expected: previous.Index}
	}

	// Equal timestamps are accepted.
	if current.Timestamp < previous.Timestamp {
		return NotPosteriorError{Given: current.Timestamp, Expected: previous.Timestamp}
	}

	if expected := previous.Hash(); current.PreviousHash != expected {
		return HashNotMatchingError{Given: current.PreviousHash, Expected: expected}
	}

	return nil
}
