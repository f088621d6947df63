package codec

import (
	"encoding/binary"
	"math"

	"github.com/fmagege/tectonicdb/internal/update"
)

// putRecord serializes u into b, which must be at least RecordSize bytes.
func putRecord(b []byte, u update.Update) {
	binary.BigEndian.PutUint64(b[recOffTs:recOffTs+8], uint64(u.Ts))
	binary.BigEndian.PutUint32(b[recOffSeq:recOffSeq+4], u.Seq)

	var flags byte
	if u.IsTrade {
		flags |= flagIsTrade
	}
	if u.IsBid {
		flags |= flagIsBid
	}
	b[recOffFlags] = flags
	// the byte at recOffFlags+1 is reserved padding, left zero.

	binary.BigEndian.PutUint32(b[recOffPrice:recOffPrice+4], math.Float32bits(u.Price))
	binary.BigEndian.PutUint32(b[recOffSize:recOffSize+4], math.Float32bits(u.Size))
}

// parseRecord deserializes a RecordSize-byte slice into an Update.
func parseRecord(b []byte) update.Update {
	flags := b[recOffFlags]

	return update.Update{
		Ts:      int64(binary.BigEndian.Uint64(b[recOffTs : recOffTs+8])),
		Seq:     binary.BigEndian.Uint32(b[recOffSeq : recOffSeq+4]),
		IsTrade: flags&flagIsTrade != 0,
		IsBid:   flags&flagIsBid != 0,
		Price:   math.Float32frombits(binary.BigEndian.Uint32(b[recOffPrice : recOffPrice+4])),
		Size:    math.Float32frombits(binary.BigEndian.Uint32(b[recOffSize : recOffSize+4])),
	}
}
