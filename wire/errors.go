package wire

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/luca-patrignani/blockledger/ledger"
	"github.com/luca-patrignani/blockledger/peers"
)

const (
	HashNotMatchingLabel     = "Previous hash not matching"
	IndexNotCorrelativeLabel = "New block index is not correlative"
	TimestampNotLaterLabel   = "New block timestamp must be later to previous"

	EntryAlreadyPresentLabel = "Entry is already on list"
	EntryURLInvalidLabel     = "Invalid entry URL"

	UnknownLabel  = "Unknown error"
	UnknownReason = "reason"
)

const (
	hashNotMatchingTemplate     = "previous hash is %s but %s was provided"
	notCorrelativeTemplate      = "expected index %d but received %d which is not inmediate next"
	notPosteriorTemplate        = "Given timestamp %d is not later to %d"
	entryAlreadyPresentTemplate = "Entry is already a member: %s"
	entryInvalidURLTemplate     = "Entry URL is invalid: %s"
)

var (
	hashNotMatchingRegex     = regexp.MustCompile(`(?s)^previous hash is ([0-9a-f]*) but (.*) was provided$`)
	notCorrelativeRegex      = regexp.MustCompile(`^expected index (\d+) but received (\d+) which is not inmediate next$`)
	notPosteriorRegex        = regexp.MustCompile(`^Given timestamp (\d+) is not later to (\d+)$`)
	entryAlreadyPresentRegex = regexp.MustCompile(`(?s)^Entry is already a member: (.*)$`)
	entryInvalidURLRegex     = regexp.MustCompile(`(?s)^Entry URL is invalid: (.*)$`)
)

// ErrorAndReason is the body of every rejected request.
type ErrorAndReason struct {
	Label  string `json:"error"`
	Reason string `json:"reason"`
}

// Unknown is the pair sent for errors outside the known variants.
var Unknown = ErrorAndReason{Label: UnknownLabel, Reason: UnknownReason}

func (e ErrorAndReason) Error() string {
	return e.Label + ": " + e.Reason
}

// FromBlockError encodes a ledger rejection. Wrapped errors are unwrapped;
// anything that is not a ledger variant encodes as Unknown.
func FromBlockError(err error) ErrorAndReason {
	var (
		mismatch      ledger.HashNotMatchingError
		notCorrelated ledger.NotCorrelatedError
		notPosterior  ledger.NotPosteriorError
	)
	switch {
	case errors.As(err, &mismatch):
		return ErrorAndReason{
			Label:  HashNotMatchingLabel,
			Reason: fmt.Sprintf(hashNotMatchingTemplate, mismatch.Expected, mismatch.Given),
		}
	case errors.As(err, &notCorrelated):
		return ErrorAndReason{
			Label:  IndexNotCorrelativeLabel,
			Reason: fmt.Sprintf(notCorrelativeTemplate, notCorrelated.Expected, notCorrelated.Given),
		}
	case errors.As(err, &notPosterior):
		return ErrorAndReason{
			Label:  TimestampNotLaterLabel,
			Reason: fmt.Sprintf(notPosteriorTemplate, notPosterior.Given, notPosterior.Expected),
		}
	default:
		return Unknown
	}
}

// BlockError decodes the pair into the ledger error it was built from, or
// ledger.ErrUnknown when that is not possible.
func (e ErrorAndReason) BlockError() error {
	switch e.Label {
	case HashNotMatchingLabel:
		m := hashNotMatchingRegex.FindStringSubmatch(e.Reason)
		if m == nil {
			return ledger.ErrUnknown
		}
		// The template names the expected hash first.
		return ledger.HashNotMatchingError{Given: m[2], Expected: m[1]}
	case IndexNotCorrelativeLabel:
		expected, given, ok := parsePair(notCorrelativeRegex, e.Reason)
		if !ok {
			return ledger.ErrUnknown
		}
		return ledger.NotCorrelatedError{Given: given, Expected: expected}
	case TimestampNotLaterLabel:
		given, expected, ok := parsePair(notPosteriorRegex, e.Reason)
		if !ok {
			return ledger.ErrUnknown
		}
		return ledger.NotPosteriorError{Given: given, Expected: expected}
	default:
		return ledger.ErrUnknown
	}
}

// FromEntryError encodes a peer registry rejection.
func FromEntryError(err error) ErrorAndReason {
	var (
		invalid peers.InvalidURLError
		present peers.AlreadyPresentError
	)
	switch {
	case errors.As(err, &invalid):
		return ErrorAndReason{
			Label:  EntryURLInvalidLabel,
			Reason: fmt.Sprintf(entryInvalidURLTemplate, invalid.URL),
		}
	case errors.As(err, &present):
		return ErrorAndReason{
			Label:  EntryAlreadyPresentLabel,
			Reason: fmt.Sprintf(entryAlreadyPresentTemplate, present.Entry.Peer),
		}
	default:
		return Unknown
	}
}

// EntryError decodes the pair into the peers error it was built from, or
// peers.ErrUnknown when that is not possible.
func (e ErrorAndReason) EntryError() error {
	switch e.Label {
	case EntryURLInvalidLabel:
		m := entryInvalidURLRegex.FindStringSubmatch(e.Reason)
		if m == nil {
			return peers.ErrUnknown
		}
		return peers.InvalidURLError{URL: m[1]}
	case EntryAlreadyPresentLabel:
		m := entryAlreadyPresentRegex.FindStringSubmatch(e.Reason)
		if m == nil {
			return peers.ErrUnknown
		}
		return peers.AlreadyPresentError{Entry: peers.Entry{Peer: m[1]}}
	default:
		return peers.ErrUnknown
	}
}

// parsePair extracts the two unsigned integers captured by re, in capture
// order. ok is false if the reason does not match or a number overflows.
func parsePair(re *regexp.Regexp, reason string) (first, second uint64, ok bool) {
	m := re.FindStringSubmatch(reason)
	if m == nil {
		return 0, 0, false
	}
	first, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	second, err = strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return first, second, true
}
