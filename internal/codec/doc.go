// Package codec reads and writes the .dtf tick-file format.
//
// A .dtf file is a fixed-size header followed by a body of fixed-width
// 22-byte records:
//
//	+----------------+--------+
//	| HEADER (fixed) | BODY   |
//	+----------------+--------+
//
// The header carries the record count and the min/max timestamp so that
// GetSize needs only the header and Append needs only seek to the tail —
// neither operation scans the body. All integers are big-endian.
package codec
