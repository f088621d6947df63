// Package session implements the per-connection command state machine:
// it owns the set of Stores a client can address, parses the text
// protocol, and dispatches to the right Store.
package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fmagege/tectonicdb/internal/hash"
	"github.com/fmagege/tectonicdb/internal/store"
	"github.com/fmagege/tectonicdb/internal/tdberr"
	"go.uber.org/zap"
)

const helpText = "PING, INFO, USE [db], CREATE [db],\n" +
	"ADD [ts],[seq],[is_trade],[is_bid],[price],[size];\n" +
	"BULKADD ...; DDAKLUB\n" +
	"FLUSH, FLUSHALL, GETALL, GET [count], CLEAR\n"

const defaultStoreName = "default"

var connCounter uint64

// Session is one client connection's engine state: a map of stores it
// can address, the name of the current store, and whether it is in
// bulk-ingest mode. Sessions never share state with one another.
type Session struct {
	ID      uint64
	folder  string
	log     *zap.Logger
	stores  map[string]*store.Store
	current string
	adding  bool
}

// New scans folder for *.dtf files, registers one Store per file
// (metadata only, via codec.GetSize, never a full decode), adds the
// implicit "default" store if absent, and returns a ready Session.
func New(folder string, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("session: create folder %s: %w", folder, err)
	}

	id := hash.ID(fmt.Sprintf("%s-%d", folder, atomic.AddUint64(&connCounter, 1)))
	log = log.With(zap.Uint64("session_id", id))

	s := &Session{
		ID:      id,
		folder:  folder,
		log:     log,
		stores:  make(map[string]*store.Store),
		current: defaultStoreName,
	}
	s.stores[defaultStoreName] = store.New(defaultStoreName, folder, log)

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("session: list folder %s: %w", folder, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".dtf") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".dtf")
		st := store.New(name, folder, log)
		if err := st.Clear(); err != nil { // Clear with no buffer just loads size from the header
			return nil, fmt.Errorf("session: stat store %s: %w", name, err)
		}
		s.stores[name] = st
	}

	return s, nil
}

// currentStore returns the Store named by s.current. It can only be
// missing if an invariant elsewhere in the Session was violated, since
// current is always set to a key that exists in stores.
func (s *Session) currentStore() (*store.Store, error) {
	st, ok := s.stores[s.current]
	if !ok {
		return nil, fmt.Errorf("%w: current store %q missing from session map", tdberr.ErrInvariant, s.current)
	}
	return st, nil
}

// Dispatch processes one line of client input and returns the text
// response to write back to the socket. Protocol-level problems are
// returned as an ordinary response string, not an error, and so are
// I/O failures during flush, clear or load ("ERR io: ..."); only an
// invariant violation propagates as an error.
func (s *Session) Dispatch(line string) (string, error) {
	if s.adding {
		return s.dispatchBulk(line)
	}

	cmd := parseCommand(line)
	switch cmd.kind {
	case cmdEmpty:
		return "", nil
	case cmdPing:
		return "PONG.\n", nil
	case cmdHelp:
		return helpText, nil
	case cmdInfo:
		return s.info(), nil
	case cmdBulkAdd:
		s.adding = true
		return "", nil
	case cmdDdaklub:
		// DDAKLUB outside of bulk mode is the original's accepted no-op exit.
		s.adding = false
		return "1\n", nil
	case cmdGetAll:
		st, err := s.currentStore()
		if err != nil {
			return "", err
		}
		return st.ToString(-1), nil
	case cmdGet:
		st, err := s.currentStore()
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(cmd.arg)
		if err != nil {
			return fmt.Sprintf("ERR bad GET count %q.\n", cmd.arg), nil
		}
		return st.ToString(n), nil
	case cmdFlush:
		st, err := s.currentStore()
		if err != nil {
			return "", err
		}
		if err := st.Flush(); err != nil {
			s.log.Error("flush failed", zap.String("store", st.Name), zap.Error(err))
			return fmt.Sprintf("ERR io: %s\n", err), nil
		}
		return "1\n", nil
	case cmdFlushAll:
		for _, st := range s.stores {
			if err := st.Flush(); err != nil {
				s.log.Error("flush failed", zap.String("store", st.Name), zap.Error(err))
				return fmt.Sprintf("ERR io: %s\n", err), nil
			}
		}
		return "1\n", nil
	case cmdClear:
		st, err := s.currentStore()
		if err != nil {
			return "", err
		}
		if err := st.Clear(); err != nil {
			s.log.Error("clear failed", zap.String("store", st.Name), zap.Error(err))
			return fmt.Sprintf("ERR io: %s\n", err), nil
		}
		return "1\n", nil
	case cmdClearAll:
		for _, st := range s.stores {
			if err := st.Clear(); err != nil {
				s.log.Error("clear failed", zap.String("store", st.Name), zap.Error(err))
				return fmt.Sprintf("ERR io: %s\n", err), nil
			}
		}
		return "1\n", nil
	case cmdUse:
		st, ok := s.stores[cmd.arg]
		if !ok {
			return fmt.Sprintf("ERR unknown DB `%s`.\n", cmd.arg), nil
		}
		if err := st.Load(); err != nil {
			s.log.Error("load failed", zap.String("store", st.Name), zap.Error(err))
			return fmt.Sprintf("ERR io: %s\n", err), nil
		}
		s.current = cmd.arg
		return fmt.Sprintf("SWITCHED TO DB `%s`.\n", cmd.arg), nil
	case cmdCreate:
		s.stores[cmd.arg] = store.New(cmd.arg, s.folder, s.log) // overwrites an existing in-session entry silently
		s.log.Info("created store", zap.String("store", cmd.arg))
		return fmt.Sprintf("Created DB `%s`.\n", cmd.arg), nil
	case cmdAdd:
		u, err := ParseRecordLine(cmd.arg)
		if err != nil {
			s.log.Warn("malformed record", zap.String("line", cmd.arg), zap.Error(err))
			return fmt.Sprintf("ERR %s\n", err), nil
		}
		st, err := s.currentStore()
		if err != nil {
			return "", err
		}
		st.Add(u)
		return "1\n", nil
	default:
		s.log.Warn("unknown command", zap.String("line", line))
		return fmt.Sprintf("ERR unknown command '%s'.\n", line), nil
	}
}

// dispatchBulk handles one line while the Session is in BULK_ADD mode:
// DDAKLUB exits the mode, every other line is a record.
func (s *Session) dispatchBulk(line string) (string, error) {
	if line == "DDAKLUB" {
		s.adding = false
		return "1\n", nil
	}

	u, err := ParseRecordLine(line)
	if err != nil {
		s.log.Warn("malformed bulk record", zap.String("line", line), zap.Error(err))
		return fmt.Sprintf("ERR %s\n", err), nil
	}

	st, err := s.currentStore()
	if err != nil {
		return "", err
	}
	st.Add(u)
	return "", nil
}

// info renders one JSON object per store, in the original's
// space-after-colon, comma-space-joined style.
func (s *Session) info() string {
	parts := make([]string, 0, len(s.stores))
	for _, st := range s.stores {
		parts = append(parts, fmt.Sprintf(`{"name": "%s", "in_memory": %t, "count": %d}`, st.Name, st.InMemory, st.Size))
	}
	return "[" + strings.Join(parts, ", ") + "]\n"
}

// Close does not flush pending stores; a client that wants its writes
// durable sends FLUSH before disconnecting. It gives callers a place
// to log session teardown.
func (s *Session) Close() {
	s.log.Info("session closed")
}
