package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fmagege/tectonicdb/internal/pool"
	"github.com/fmagege/tectonicdb/internal/tdberr"
	"github.com/fmagege/tectonicdb/internal/update"
)

// Encode writes a fresh .dtf file at path, overwriting any existing file.
func Encode(path, name string, updates []update.Update) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("codec: encode %s: %w", path, err)
	}
	defer f.Close()

	minTS, maxTS := minMaxTS(updates)
	hdr := Header{
		Version: CurrentVersion,
		Name:    name,
		Count:   uint64(len(updates)),
		MinTS:   minTS,
		MaxTS:   maxTS,
	}

	w := bufio.NewWriter(f)
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("codec: encode %s: write header: %w", path, err)
	}
	if err := writeRecords(w, updates); err != nil {
		return fmt.Errorf("codec: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("codec: encode %s: flush: %w", path, err)
	}

	return nil
}

// Append appends to an existing .dtf file only the updates whose Ts is
// strictly greater than the file's current max Ts. Updates equal to or
// below the current max are silently dropped. It returns the number of
// records actually appended.
func Append(path string, updates []update.Update) (int, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return 0, fmt.Errorf("codec: append %s: %w", path, err)
	}
	defer f.Close()

	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hdrBuf); err != nil {
		return 0, fmt.Errorf("codec: append %s: read header: %w", path, err)
	}
	hdr, err := ParseHeader(hdrBuf)
	if err != nil {
		return 0, fmt.Errorf("codec: append %s: %w", path, err)
	}

	fresh := make([]update.Update, 0, len(updates))
	maxTS := hdr.MaxTS
	for _, u := range updates {
		ts := uint64(u.Ts)
		if ts > hdr.MaxTS {
			fresh = append(fresh, u)
			if ts > maxTS {
				maxTS = ts
			}
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	// Body-then-header: write the new records first, so a crash mid-append
	// leaves a header that undercounts rather than overcounts the body.
	if _, err := f.Seek(int64(HeaderSize+hdr.Count*RecordSize), io.SeekStart); err != nil {
		return 0, fmt.Errorf("codec: append %s: seek: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := writeRecords(w, fresh); err != nil {
		return 0, fmt.Errorf("codec: append %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("codec: append %s: flush body: %w", path, err)
	}

	hdr.Count += uint64(len(fresh))
	hdr.MaxTS = maxTS
	if _, err := f.WriteAt(hdr.Bytes(), 0); err != nil {
		return 0, fmt.Errorf("codec: append %s: rewrite header: %w", path, err)
	}

	return len(fresh), nil
}

// Decode reads the full record body of a .dtf file and returns it in
// on-disk order.
func Decode(path string) ([]update.Update, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, fmt.Errorf("codec: decode %s: read header: %w", path, err)
	}
	hdr, err := ParseHeader(hdrBuf)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s: %w", path, err)
	}

	out := make([]update.Update, 0, hdr.Count)
	rec := make([]byte, RecordSize)
	for i := uint64(0); i < hdr.Count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("codec: decode %s: %w: at record %d of %d", path, tdberr.ErrShortRecord, i, hdr.Count)
			}
			return nil, fmt.Errorf("codec: decode %s: %w", path, err)
		}
		out = append(out, parseRecord(rec))
	}

	return out, nil
}

// GetSize reads only the header of a .dtf file and returns its stored
// record count, without touching the body.
func GetSize(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("codec: get-size %s: %w", path, err)
	}
	defer f.Close()

	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hdrBuf); err != nil {
		return 0, fmt.Errorf("codec: get-size %s: read header: %w", path, err)
	}
	hdr, err := ParseHeader(hdrBuf)
	if err != nil {
		return 0, fmt.Errorf("codec: get-size %s: %w", path, err)
	}

	return hdr.Count, nil
}

// writeRecords encodes updates into a pooled scratch buffer and flushes
// it to w in one call, instead of one syscall-sized write per record.
func writeRecords(w io.Writer, updates []update.Update) error {
	bb := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(bb)

	rec := make([]byte, RecordSize)
	for _, u := range updates {
		putRecord(rec, u)
		bb.MustWrite(rec)
	}

	if _, err := bb.WriteTo(w); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

func minMaxTS(updates []update.Update) (min, max uint64) {
	if len(updates) == 0 {
		return 0, 0
	}
	min, max = uint64(updates[0].Ts), uint64(updates[0].Ts)
	for _, u := range updates[1:] {
		ts := uint64(u.Ts)
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return min, max
}
