package session

import (
	"fmt"
	"strconv"

	"github.com/fmagege/tectonicdb/internal/tdberr"
	"github.com/fmagege/tectonicdb/internal/update"
)

// numField identifies the position of a field within a record line.
type numField int

const (
	fieldTs numField = iota
	fieldSeq
	fieldIsTrade
	fieldIsBid
	fieldPrice
	fieldSize
	fieldCount // sentinel: total number of fields a record line carries
)

// ParseRecordLine parses one record line of the form
//
//	<ts_float>, <seq_int>, <is_trade_flag>, <is_bid_flag>, <price_float>, <size_float>;
//
// The ts field's decimal point is removed rather than interpreted: the
// digits on either side are concatenated and parsed as an integer of
// milliseconds, so "1505177459.658" yields ts = 1505177459658. The
// terminating ';' is required. Whitespace around and within fields is
// ignored. Any deviation from the six-field grammar is reported as
// tdberr.ErrMalformedRecord.
func ParseRecordLine(line string) (update.Update, error) {
	var (
		u         update.Update
		buf       []byte
		field     numField
		lastBool  bool
		flagChars int
		dots      int
		seenSemi  bool
	)

	flush := func() error {
		s := string(buf)
		buf = buf[:0]

		switch field {
		case fieldTs:
			if dots != 1 {
				return fmt.Errorf("%w: ts field must have exactly one decimal point", tdberr.ErrMalformedRecord)
			}
			ts, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad ts: %v", tdberr.ErrMalformedRecord, err)
			}
			u.Ts = ts
		case fieldSeq:
			seq, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return fmt.Errorf("%w: bad seq: %v", tdberr.ErrMalformedRecord, err)
			}
			u.Seq = uint32(seq)
		case fieldIsTrade, fieldIsBid:
			if flagChars != 1 || s != "" {
				return fmt.Errorf("%w: flag field must be a single 't' or 'f'", tdberr.ErrMalformedRecord)
			}
			if field == fieldIsTrade {
				u.IsTrade = lastBool
			} else {
				u.IsBid = lastBool
			}
		case fieldPrice:
			price, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return fmt.Errorf("%w: bad price: %v", tdberr.ErrMalformedRecord, err)
			}
			u.Price = float32(price)
		case fieldSize:
			size, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return fmt.Errorf("%w: bad size: %v", tdberr.ErrMalformedRecord, err)
			}
			u.Size = float32(size)
		default:
			return fmt.Errorf("%w: too many fields", tdberr.ErrMalformedRecord)
		}

		field++
		dots = 0
		flagChars = 0
		return nil
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t':
			continue
		case ch == '.':
			if field == fieldTs {
				dots++
				continue // the decimal point is stripped, not kept, for the ts field
			}
			buf = append(buf, ch)
		case ch >= '0' && ch <= '9':
			buf = append(buf, ch)
		case ch == 't' || ch == 'f':
			if field != fieldIsTrade && field != fieldIsBid {
				return update.Update{}, fmt.Errorf("%w: unexpected flag character at field %d", tdberr.ErrMalformedRecord, field)
			}
			lastBool = ch == 't'
			flagChars++
		case ch == ',':
			if err := flush(); err != nil {
				return update.Update{}, err
			}
		case ch == ';':
			if err := flush(); err != nil {
				return update.Update{}, err
			}
			seenSemi = true
		default:
			return update.Update{}, fmt.Errorf("%w: unexpected character %q", tdberr.ErrMalformedRecord, ch)
		}
		if seenSemi {
			break
		}
	}

	if !seenSemi {
		return update.Update{}, fmt.Errorf("%w: missing terminating ';'", tdberr.ErrMalformedRecord)
	}
	if field != fieldCount {
		return update.Update{}, fmt.Errorf("%w: expected %d fields, got %d", tdberr.ErrMalformedRecord, fieldCount, field)
	}

	return u, nil
}
