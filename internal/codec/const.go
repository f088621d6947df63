package codec

const (
	// MagicSize is the width in bytes of the magic field.
	MagicSize = 8
	// NameSize is the width in bytes of the store-name field, ASCII,
	// right-padded with NUL.
	NameSize = 16
	// HeaderSize is the total fixed header size, padded to a round
	// power-of-two boundary for future extension.
	HeaderSize = 64
	// RecordSize is the fixed width in bytes of a single body record.
	RecordSize = 22

	// CurrentVersion is the version written into new files.
	CurrentVersion uint16 = 1
)

// Magic is the fixed 8-byte file identifier at offset 0.
var Magic = [MagicSize]byte{'D', 'T', 'F', 0, 0, 0, 0, 0}

// flag bits within the record's flags byte.
const (
	flagIsTrade = 1 << 0
	flagIsBid   = 1 << 1
)

// Byte offsets of each header field, in order.
const (
	offMagic   = 0
	offVersion = offMagic + MagicSize
	offName    = offVersion + 2
	offCount   = offName + NameSize
	offMinTS   = offCount + 8
	offMaxTS   = offMinTS + 8
	offEnd     = offMaxTS + 8 // 50; the remainder up to HeaderSize is reserved, zeroed
)

// Byte offsets of each record field, in order.
const (
	recOffTs    = 0
	recOffSeq   = recOffTs + 8
	recOffFlags = recOffSeq + 4
	// 1 reserved byte at recOffFlags+1 pads the record to RecordSize.
	recOffPrice = recOffFlags + 2
	recOffSize  = recOffPrice + 4
)
