// Package tdberr defines sentinel errors shared by the codec, store, and
// session packages.
package tdberr

import "errors"

var (
	// ErrInvalidHeaderSize is returned when a .dtf header is shorter than HeaderSize bytes.
	ErrInvalidHeaderSize = errors.New("tdberr: invalid header size")

	// ErrInvalidMagic is returned when a .dtf file does not start with the expected magic bytes.
	ErrInvalidMagic = errors.New("tdberr: invalid magic number")

	// ErrShortRecord is returned when the body of a .dtf file ends mid-record.
	ErrShortRecord = errors.New("tdberr: short record in body")

	// ErrMalformedRecord is returned by the record-line parser when a line does not
	// match the six-field grammar.
	ErrMalformedRecord = errors.New("tdberr: malformed record")

	// ErrInvariant marks an invariant violation: the current store name is set
	// but missing from the session's store map. Fatal within the session.
	ErrInvariant = errors.New("tdberr: invariant violation")
)
