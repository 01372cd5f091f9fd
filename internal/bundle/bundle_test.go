package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preflate-go/preflate"
	"github.com/preflate-go/preflate/internal/container"
)

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	b := Bundle{
		Kind:        container.KindGzip,
		Header:      []byte{0x1F, 0x8B, 8, 0, 0, 0, 0, 0, 0, 0xFF},
		Trailer:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
		Params:      preflate.DefaultParameters(6, true),
		Corrections: []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}

	got, err := Unmarshal(Marshal(b))
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	_, err := Unmarshal([]byte{0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestUnmarshalRejectsTruncated(t *testing.T) {
	full := Marshal(Bundle{
		Kind:        container.KindZlib,
		Params:      preflate.DefaultParameters(1, false),
		Corrections: []byte{1, 2, 3},
	})
	_, err := Unmarshal(full[:len(full)-2])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestMarshalUnmarshalEmptyEnvelope(t *testing.T) {
	b := Bundle{
		Kind:        container.KindUnknown,
		Params:      preflate.DefaultParameters(9, false),
		Corrections: nil,
	}
	got, err := Unmarshal(Marshal(b))
	require.NoError(t, err)
	assert.Equal(t, b.Params, got.Params)
	assert.Empty(t, got.Header)
	assert.Empty(t, got.Trailer)
	assert.Empty(t, got.Corrections)
}
