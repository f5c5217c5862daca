package peers

import (
	"errors"
	"fmt"
)

// ErrUnknown stands for a rejection whose details could not be recovered.
var ErrUnknown = errors.New("peers: unknown error")

// InvalidURLError rejects a peer that is not an absolute URL.
type InvalidURLError struct {
	URL string
}

func (e InvalidURLError) Error() string {
	return fmt.Sprintf("peers: invalid peer URL %q", e.URL)
}

// AlreadyPresentError rejects a peer that is already registered.
type AlreadyPresentError struct {
	Entry Entry
}

func (e AlreadyPresentError) Error() string {
	return fmt.Sprintf("peers: %s is already registered", e.Entry.Peer)
}
