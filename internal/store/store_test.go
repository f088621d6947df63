package store

import (
	"testing"

	"github.com/fmagege/tectonicdb/internal/update"
	"github.com/stretchr/testify/require"
)

func TestStore_AddNeverRejects(t *testing.T) {
	s := New("foo", t.TempDir(), nil)

	s.Add(update.Update{Ts: 2000, Seq: 1, Price: 1, Size: 1})
	s.Add(update.Update{Ts: 1000, Seq: 2, Price: 1, Size: 1}) // out of order, still accepted

	require.True(t, s.InMemory)
	require.EqualValues(t, 2, s.Size)
	require.Len(t, s.Buffer, 2)
}

func TestStore_FlushEncodesThenAppends(t *testing.T) {
	s := New("foo", t.TempDir(), nil)
	s.Add(update.Update{Ts: 1000, Seq: 1, Price: 1, Size: 1})
	s.Add(update.Update{Ts: 2000, Seq: 2, Price: 1, Size: 1})

	require.NoError(t, s.Flush())
	require.True(t, s.Exists())

	s.Add(update.Update{Ts: 1500, Seq: 3, Price: 1, Size: 1}) // stale, will be dropped on flush
	s.Add(update.Update{Ts: 3000, Seq: 4, Price: 1, Size: 1})
	require.NoError(t, s.Flush())

	require.NoError(t, s.Load())
	require.Len(t, s.Buffer, 3)
	require.EqualValues(t, 3, s.Size)
}

func TestStore_ClearRefreshesSizeFromHeader(t *testing.T) {
	s := New("foo", t.TempDir(), nil)
	s.Add(update.Update{Ts: 1000, Seq: 1, Price: 1, Size: 1})
	require.NoError(t, s.Flush())

	require.NoError(t, s.Clear())
	require.False(t, s.InMemory)
	require.Empty(t, s.Buffer)
	require.EqualValues(t, 1, s.Size)
}

func TestStore_ClearWithoutFileIsZero(t *testing.T) {
	s := New("default", t.TempDir(), nil)
	require.NoError(t, s.Clear())
	require.EqualValues(t, 0, s.Size)
}

func TestStore_LoadMissingFileIsNoop(t *testing.T) {
	s := New("missing", t.TempDir(), nil)
	require.NoError(t, s.Load())
	require.False(t, s.InMemory)
	require.Empty(t, s.Buffer)
}

func TestStore_ToString(t *testing.T) {
	s := New("foo", t.TempDir(), nil)
	s.Add(update.Update{Ts: 1000, Seq: 1, IsTrade: true, IsBid: true, Price: 1, Size: 1})
	s.Add(update.Update{Ts: 2000, Seq: 2, IsTrade: true, IsBid: true, Price: 1, Size: 1})

	require.Equal(t, "[]\n", s.ToString(0))

	all := s.ToString(-1)
	require.Equal(t, "["+s.Buffer[0].ToJSON()+","+s.Buffer[1].ToJSON()+"]\n", all)

	first := s.ToString(1)
	require.Equal(t, "["+s.Buffer[0].ToJSON()+"]\n", first)
}
