package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fmagege/tectonicdb/internal/tdberr"
	"github.com/fmagege/tectonicdb/internal/update"
	"github.com/stretchr/testify/require"
)

func sample() []update.Update {
	return []update.Update{
		{Ts: 1000, Seq: 1, IsTrade: false, IsBid: true, Price: 0.0703629, Size: 7.65064249},
		{Ts: 2000, Seq: 2, IsTrade: true, IsBid: false, Price: 1.5, Size: 2.5},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")
	updates := sample()

	require.NoError(t, Encode(path, "foo", updates))

	decoded, err := Decode(path)
	require.NoError(t, err)
	require.Equal(t, updates, decoded)
}

func TestEncode_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")

	require.NoError(t, Encode(path, "foo", sample()))
	require.NoError(t, Encode(path, "foo", []update.Update{{Ts: 5, Seq: 9, Price: 1, Size: 1}}))

	decoded, err := Decode(path)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, int64(5), decoded[0].Ts)
}

func TestGetSize_ReadsHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")
	require.NoError(t, Encode(path, "foo", sample()))

	size, err := GetSize(path)
	require.NoError(t, err)
	require.Equal(t, uint64(2), size)
}

func TestAppend_FiltersByMaxTS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")
	require.NoError(t, Encode(path, "foo", []update.Update{
		{Ts: 1000, Seq: 1, Price: 1, Size: 1},
		{Ts: 2000, Seq: 2, Price: 1, Size: 1},
	}))

	n, err := Append(path, []update.Update{
		{Ts: 1500, Seq: 3, Price: 1, Size: 1}, // dropped: <= max
		{Ts: 2000, Seq: 4, Price: 1, Size: 1}, // dropped: <= max
		{Ts: 3000, Seq: 5, Price: 1, Size: 1}, // kept
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	size, err := GetSize(path)
	require.NoError(t, err)
	require.Equal(t, uint64(3), size)

	decoded, err := Decode(path)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	require.Equal(t, int64(3000), decoded[2].Ts)
}

func TestAppend_AllDropped_FileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")
	require.NoError(t, Encode(path, "foo", []update.Update{{Ts: 2000, Seq: 1, Price: 1, Size: 1}}))

	n, err := Append(path, []update.Update{{Ts: 1000, Seq: 2, Price: 1, Size: 1}})
	require.NoError(t, err)
	require.Equal(t, 0, n)

	size, err := GetSize(path)
	require.NoError(t, err)
	require.Equal(t, uint64(1), size)
}

func TestAppend_UpdatesMaxTS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.dtf")
	require.NoError(t, Encode(path, "foo", []update.Update{{Ts: 1000, Seq: 1, Price: 1, Size: 1}}))

	_, err := Append(path, []update.Update{{Ts: 900, Seq: 2, Price: 1, Size: 1}, {Ts: 3000, Seq: 3, Price: 1, Size: 1}})
	require.NoError(t, err)

	decoded, err := Decode(path)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	require.Equal(t, int64(3000), decoded[1].Ts)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	hdr, err := ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), hdr.MaxTS)
	require.Equal(t, uint64(1000), hdr.MinTS)
}

func TestParseHeader_InvalidMagic(t *testing.T) {
	data := make([]byte, HeaderSize)
	_, err := ParseHeader(data)
	require.ErrorIs(t, err, tdberr.ErrInvalidMagic)
}

func TestParseHeader_TooShort(t *testing.T) {
	_, err := ParseHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestHeader_NameTruncatedAndTrimmed(t *testing.T) {
	h := Header{Version: 1, Name: "a-very-long-store-name-that-exceeds-the-field"}
	b := h.Bytes()

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, "a-very-long-stor", parsed.Name)
	require.Len(t, parsed.Name, NameSize)
}
