package ledger

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"strconv"

	"go.dedis.ch/kyber/v4/suites"
)

// canonicalBlock is the exact object that gets digested. encoding/json keeps
// struct field order, so the keys below must stay sorted.
type canonicalBlock struct {
	Data         string `json:"data"`
	Index        uint64 `json:"index"`
	PreviousHash string `json:"previous_hash"`
	Timestamp    string `json:"timestamp"`
}

// DefaultSuite names the kyber suite whose hash function digests blocks.
// Its hash is SHA-256, which is what existing chains were built with.
const DefaultSuite = "Ed25519"

var defaultHasher = NewHasher(suites.MustFind(DefaultSuite).Hash)

// Canonicalize returns the byte representation of b that is fed to the
// hash function.
func Canonicalize(b Block) ([]byte, error) {
	data, err := encodePayload(b.Data)
	if err != nil {
		return nil, err
	}
	return encodeJSON(canonicalBlock{
		Data:         string(data),
		Index:        b.Index,
		PreviousHash: b.PreviousHash,
		Timestamp:    strconv.FormatUint(b.Timestamp, 10),
	})
}

// Hasher digests canonical blocks.
type Hasher struct {
	newHash func() hash.Hash
}

// NewHasher returns a Hasher that builds a fresh digest with newHash for
// every block.
func NewHasher(newHash func() hash.Hash) Hasher {
	return Hasher{newHash: newHash}
}

// SuiteHasher returns a Hasher using the hash function of the named kyber
// suite.
func SuiteHasher(name string) (Hasher, error) {
	suite, err := suites.Find(name)
	if err != nil {
		return Hasher{}, err
	}
	return NewHasher(suite.Hash), nil
}

// Sum returns the lowercase hex digest of the canonical form of b, or an
// empty string if the payload cannot be serialized.
func (h Hasher) Sum(b Block) string {
	canonical, err := Canonicalize(b)
	if err != nil {
		return ""
	}
	d := h.newHash()
	d.Write(canonical)
	return hex.EncodeToString(d.Sum(nil))
}

// encodePayload serializes a payload as compact JSON. Object keys come out
// sorted, so the same logical payload always yields the same bytes.
func encodePayload(p Payload) ([]byte, error) {
	if p == nil {
		p = Payload{}
	}
	b, err := encodeJSON(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodablePayload, err)
	}
	return b, nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 raw. encoding/json always
// escapes them, while existing chains were hashed with them unescaped.
// Escaped backslashes are skipped so a literal `\\u2028` is left alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
