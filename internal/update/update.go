// Package update defines the Update value type: one tick record, trade
// or order-book event.
package update

import (
	"strconv"
	"strings"
)

// Update is a single market-data event. It is immutable once constructed;
// the pair (Ts, Seq) is its identity for ordering purposes, with Ts the
// primary key and Seq breaking ties.
type Update struct {
	Ts      int64 // milliseconds since epoch
	Seq     uint32
	IsTrade bool
	IsBid   bool
	Price   float32
	Size    float32
}

// ToJSON renders the Update as a single compact JSON object. Ts is split
// into whole seconds and a three-digit millisecond fraction, matching the
// wire format's sub-second precision.
func (u Update) ToJSON() string {
	var b strings.Builder
	b.Grow(96)

	b.WriteString(`{"ts":`)
	b.WriteString(strconv.FormatInt(u.Ts/1000, 10))
	b.WriteByte('.')
	frac := u.Ts % 1000
	if frac < 0 {
		frac = -frac
	}
	fracStr := strconv.FormatInt(frac, 10)
	for i := len(fracStr); i < 3; i++ {
		b.WriteByte('0')
	}
	b.WriteString(fracStr)

	b.WriteString(`,"seq":`)
	b.WriteString(strconv.FormatUint(uint64(u.Seq), 10))

	b.WriteString(`,"is_trade":`)
	b.WriteString(strconv.FormatBool(u.IsTrade))

	b.WriteString(`,"is_bid":`)
	b.WriteString(strconv.FormatBool(u.IsBid))

	b.WriteString(`,"price":`)
	b.WriteString(strconv.FormatFloat(float64(u.Price), 'f', -1, 32))

	b.WriteString(`,"size":`)
	b.WriteString(strconv.FormatFloat(float64(u.Size), 'f', -1, 32))

	b.WriteByte('}')
	return b.String()
}
