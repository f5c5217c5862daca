// Package wire defines the shapes exchanged between nodes and clients and
// the codec that turns typed rejections into {error, reason} pairs and back.
//
// # Labels and Reasons
//
// The label selects the error variant and is matched exactly. The reason is
// a human readable sentence built from a fixed template; decoding recovers
// the variant payload from it with an anchored regular expression.
//
// The templates are part of the wire contract and are kept verbatim,
// including the spelling of "inmediate" and the order in which the hash
// template names the expected hash before the given one.
//
// # Totality
//
// Decoding never fails. An unknown label, a reason that does not match its
// template or a number that does not fit its field all decode to the
// package specific unknown error.
package wire
