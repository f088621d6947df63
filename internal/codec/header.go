package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/fmagege/tectonicdb/internal/tdberr"
)

// Header is the fixed-size header at the start of a .dtf file.
type Header struct {
	Version uint16
	Name    string // store name, truncated to NameSize bytes on write
	Count   uint64
	MinTS   uint64
	MaxTS   uint64
}

// Bytes serializes the Header into a HeaderSize-byte slice, big-endian.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	copy(b[offMagic:offMagic+MagicSize], Magic[:])
	binary.BigEndian.PutUint16(b[offVersion:offVersion+2], h.Version)

	name := h.Name
	if len(name) > NameSize {
		name = name[:NameSize]
	}
	copy(b[offName:offName+NameSize], name)

	binary.BigEndian.PutUint64(b[offCount:offCount+8], h.Count)
	binary.BigEndian.PutUint64(b[offMinTS:offMinTS+8], h.MinTS)
	binary.BigEndian.PutUint64(b[offMaxTS:offMaxTS+8], h.MaxTS)

	return b
}

// ParseHeader parses a Header from the first HeaderSize bytes of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("codec: %w: got %d bytes, want %d", tdberr.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	if !bytes.Equal(data[offMagic:offMagic+MagicSize], Magic[:]) {
		return Header{}, tdberr.ErrInvalidMagic
	}

	var h Header
	h.Version = binary.BigEndian.Uint16(data[offVersion : offVersion+2])
	h.Name = trimNul(string(data[offName : offName+NameSize]))
	h.Count = binary.BigEndian.Uint64(data[offCount : offCount+8])
	h.MinTS = binary.BigEndian.Uint64(data[offMinTS : offMinTS+8])
	h.MaxTS = binary.BigEndian.Uint64(data[offMaxTS : offMaxTS+8])

	return h, nil
}

func trimNul(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return s[:i]
		}
	}
	return s
}
