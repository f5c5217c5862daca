package ledger

import (
	"bytes"
	"encoding/json"
)

// Payload is the opaque JSON object carried by a block.
type Payload map[string]any

// UnmarshalJSON keeps numbers as json.Number so that they are re-encoded
// with the exact literal they arrived with. A null payload is rejected.
func (p *Payload) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ErrMissingPayload
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Block is a single record of the chain. The hash is derived from the four
// stored fields and is never serialized.
type Block struct {
	Index        uint64  `json:"index"`
	PreviousHash string  `json:"previous_hash"`
	Timestamp    uint64  `json:"timestamp"` // milliseconds since the Unix epoch
	Data         Payload `json:"data"`
}

// MessagePayload wraps a plain text message into a payload.
func MessagePayload(message string) Payload {
	return Payload{"message": message}
}

// Hash returns the lowercase hex digest of the block.
func (b Block) Hash() string {
	return defaultHasher.Sum(b)
}

// Next builds the immediate successor of b carrying data.
func (b Block) Next(timestamp uint64, data Payload) Block {
	return Block{
		Index:        b.Index + 1,
		PreviousHash: b.Hash(),
		Timestamp:    timestamp,
		Data:         data,
	}
}

// Equal reports whether both blocks hold the same index, previous hash,
// timestamp and payload.
func (b Block) Equal(other Block) bool {
	if b.Index != other.Index || b.PreviousHash != other.PreviousHash || b.Timestamp != other.Timestamp {
		return false
	}
	left, err := encodePayload(b.Data)
	if err != nil {
		return false
	}
	right, err := encodePayload(other.Data)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
