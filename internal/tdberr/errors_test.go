package tdberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinels_WrapAndUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("codec: decode foo.dtf: %w", ErrShortRecord)
	require.ErrorIs(t, wrapped, ErrShortRecord)
	require.False(t, errors.Is(wrapped, ErrInvalidMagic))
}

func TestSentinels_Distinct(t *testing.T) {
	sentinels := []error{ErrInvalidHeaderSize, ErrInvalidMagic, ErrShortRecord, ErrMalformedRecord, ErrInvariant}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.NotErrorIs(t, a, b)
		}
	}
}
