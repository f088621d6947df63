package session

import (
	"testing"

	"github.com/fmagege/tectonicdb/internal/tdberr"
	"github.com/fmagege/tectonicdb/internal/update"
	"github.com/stretchr/testify/require"
)

func TestParseRecordLine_Valid(t *testing.T) {
	got, err := ParseRecordLine("1505177459.658, 139010, f, t, 0.0703629, 7.65064249;")
	require.NoError(t, err)
	require.Equal(t, update.Update{
		Ts:      1505177459658,
		Seq:     139010,
		IsTrade: false,
		IsBid:   true,
		Price:   0.0703629,
		Size:    7.65064249,
	}, got)
}

func TestParseRecordLine_SecondValid(t *testing.T) {
	got, err := ParseRecordLine("1505177459.650, 139010, t, f, 0.0703620, 7.65064240;")
	require.NoError(t, err)
	require.Equal(t, update.Update{
		Ts:      1505177459650,
		Seq:     139010,
		IsTrade: true,
		IsBid:   false,
		Price:   0.0703620,
		Size:    7.65064240,
	}, got)
}

func TestParseRecordLine_ExtraEmptyFieldsShiftParse(t *testing.T) {
	_, err := ParseRecordLine("1505177459.658, 139010,,, f, t, 0.0703629, 7.65064249;")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}

func TestParseRecordLine_MissingSemicolon(t *testing.T) {
	_, err := ParseRecordLine("1.000, 1, t, t, 1.0, 1.0")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}

func TestParseRecordLine_NoDecimalPointInTs(t *testing.T) {
	_, err := ParseRecordLine("1000, 1, t, t, 1.0, 1.0;")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}

func TestParseRecordLine_TwoDecimalPointsInTs(t *testing.T) {
	_, err := ParseRecordLine("10.00.0, 1, t, t, 1.0, 1.0;")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}

func TestParseRecordLine_BadFlagChar(t *testing.T) {
	_, err := ParseRecordLine("1000.0, 1, x, t, 1.0, 1.0;")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}

func TestParseRecordLine_TooFewFields(t *testing.T) {
	_, err := ParseRecordLine("1000.0, 1, t;")
	require.ErrorIs(t, err, tdberr.ErrMalformedRecord)
}
