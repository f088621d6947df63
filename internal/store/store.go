// Package store implements the Store engine: a named, possibly-persisted
// buffer of Updates bound to one .dtf file.
package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fmagege/tectonicdb/internal/codec"
	"github.com/fmagege/tectonicdb/internal/update"
	"go.uber.org/zap"
)

// Store is a single named dataset: an in-memory buffer of Updates plus a
// bound .dtf file. It never rejects an Add; the append-monotonicity
// invariant is enforced only at Flush time by the codec.
type Store struct {
	Name     string
	Folder   string
	InMemory bool
	Size     uint64
	Buffer   []update.Update

	log *zap.Logger
}

// New creates an empty, not-in-memory Store named name under folder.
func New(name, folder string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		Name:   name,
		Folder: folder,
		log:    log.With(zap.String("store", name)),
	}
}

// Path returns the .dtf file path this Store is bound to.
func (s *Store) Path() string {
	return filepath.Join(s.Folder, s.Name+".dtf")
}

// Exists reports whether the bound .dtf file exists on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Add appends u to the buffer, increments Size, and marks the Store
// in-memory. Monotonicity is not checked here; it is enforced by Flush.
func (s *Store) Add(u update.Update) {
	s.Buffer = append(s.Buffer, u)
	s.Size++
	s.InMemory = true
}

// Flush persists the buffer to the bound .dtf file: Append if the file
// exists, Encode otherwise. After a successful flush, InMemory remains
// true; Size is only re-read from the file header by Clear or Load.
func (s *Store) Flush() error {
	if s.Exists() {
		n, err := codec.Append(s.Path(), s.Buffer)
		if err != nil {
			return err
		}
		s.log.Info("flushed store", zap.Int("appended", n), zap.Int("candidates", len(s.Buffer)))
		return nil
	}

	if err := codec.Encode(s.Path(), s.Name, s.Buffer); err != nil {
		return err
	}
	s.log.Info("flushed store", zap.Int("encoded", len(s.Buffer)))
	return nil
}

// Load replaces the buffer with the full decoded contents of the bound
// file and marks the Store in-memory. If the file does not exist, Load
// is a no-op.
func (s *Store) Load() error {
	if !s.Exists() {
		return nil
	}

	updates, err := codec.Decode(s.Path())
	if err != nil {
		return err
	}

	s.Buffer = updates
	s.Size = uint64(len(updates))
	s.InMemory = true
	s.log.Info("loaded store", zap.Uint64("count", s.Size))
	return nil
}

// Clear empties the buffer, marks the Store not-in-memory, and refreshes
// Size from the file header (or 0 if the file does not exist).
func (s *Store) Clear() error {
	s.Buffer = nil
	s.InMemory = false

	if !s.Exists() {
		s.Size = 0
		return nil
	}

	size, err := codec.GetSize(s.Path())
	if err != nil {
		return err
	}
	s.Size = size
	return nil
}

// ToString renders the first count buffer entries (or all, if count < 0)
// as a JSON array followed by a newline.
func (s *Store) ToString(count int) string {
	n := len(s.Buffer)
	if count >= 0 && count < n {
		n = count
	}

	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.Buffer[i].ToJSON())
	}
	b.WriteString("]\n")
	return b.String()
}
