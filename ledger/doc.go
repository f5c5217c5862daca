// Package ledger implements an append-only, hash-linked chain of blocks kept
// in memory by a single node.
//
// # Core Components
//
// Blockchain: the ordered block sequence, seeded with a genesis block and
// mutated only through Append.
//
// Block: a single record holding an index, the hash of its predecessor, a
// millisecond timestamp and an opaque JSON payload.
//
// Hasher: digests the canonical serialization of a block and renders it as
// lowercase hex.
//
// # Chain Invariants
//
// For every adjacent pair (prev, next):
//   - next.Index == prev.Index + 1
//   - next.Timestamp >= prev.Timestamp
//   - next.PreviousHash == prev.Hash()
//
// Append enforces the invariants in that order and reports only the first
// violation as one of the typed errors in errors.go.
//
// # Canonical Form
//
// The hash covers a fixed-shape JSON object with the keys data, index,
// previous_hash and timestamp. The payload is embedded as a JSON string and
// the timestamp as a decimal string. Changing that shape changes every hash.
package ledger
