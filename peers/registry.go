// Package peers keeps the list of known peer nodes. Peers are bookkeeping
// only: the registry never dials them.
package peers

import (
	"net/url"
	"sync"
)

// Entry is a single peer, identified by the absolute URL it is reachable at.
type Entry struct {
	Peer string `json:"peer"`
}

// Registry is a deduplicating, insertion-ordered set of entries keyed by the
// exact peer string.
type Registry struct {
	mu      sync.RWMutex
	members []Entry
	index   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		members: []Entry{},
		index:   make(map[string]struct{}),
	}
}

// Append validates entry and adds it at the end of the registry.
// It fails with InvalidURLError when the peer is not an absolute URL and
// with AlreadyPresentError when the same peer string is already known.
func (r *Registry) Append(entry Entry) (Entry, error) {
	if !isAbsoluteURL(entry.Peer) {
		return Entry{}, InvalidURLError{URL: entry.Peer}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[entry.Peer]; ok {
		return Entry{}, AlreadyPresentError{Entry: entry}
	}
	r.index[entry.Peer] = struct{}{}
	r.members = append(r.members, entry)
	return entry, nil
}

// List returns a copy of the entries in insertion order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Entry, len(r.members))
	copy(members, r.members)
	return members
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

func (r *Registry) Contains(peer string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[peer]
	return ok
}

// isAbsoluteURL requires both a scheme and an authority.
func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
