package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrGenesisNotFound is returned when appending to a chain without a
	// genesis block.
	ErrGenesisNotFound = errors.New("ledger: genesis block not found")

	// ErrUnknown stands for a rejection whose details could not be
	// recovered, typically after decoding a wire error.
	ErrUnknown = errors.New("ledger: unknown error")

	// ErrUnencodablePayload is returned for payloads that cannot be
	// serialized as JSON.
	ErrUnencodablePayload = errors.New("ledger: payload is not JSON encodable")

	// ErrMissingPayload is returned when a block arrives without a data
	// object.
	ErrMissingPayload = errors.New("ledger: block data must be a JSON object")
)

// NotCorrelatedError rejects a block whose index is not the immediate
// successor of the tail. Expected holds the tail index.
type NotCorrelatedError struct {
	Given    uint64
	Expected uint64
}

func (e NotCorrelatedError) Error() string {
	return fmt.Sprintf("ledger: block index %d does not follow tail index %d", e.Given, e.Expected)
}

// NotPosteriorError rejects a block older than the tail.
type NotPosteriorError struct {
	Given    uint64
	Expected uint64
}

func (e NotPosteriorError) Error() string {
	return fmt.Sprintf("ledger: block timestamp %d is earlier than tail timestamp %d", e.Given, e.Expected)
}

// HashNotMatchingError rejects a block that does not link to the tail.
type HashNotMatchingError struct {
	Given    string
	Expected string
}

func (e HashNotMatchingError) Error() string {
	return fmt.Sprintf("ledger: previous hash %q does not match tail hash %q", e.Given, e.Expected)
}
