package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preflate-go/preflate"
)

func TestContentKeyStableAndDistinct(t *testing.T) {
	a := []byte("the quick brown fox")
	b := []byte("the quick brown fox")
	c := []byte("the lazy dog")

	assert.Equal(t, ContentKey(a), ContentKey(b))
	assert.NotEqual(t, ContentKey(a), ContentKey(c))
}

func TestStorePutGetRoundtrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	plaintext := []byte("hello, archive")
	params := preflate.DefaultParameters(6, true)
	entry := Entry{Params: params, Corrections: []byte{0x01, 0x02, 0x03, 0xFF}}

	require.NoError(t, store.Put(plaintext, entry))

	got, err := store.Get(plaintext)
	require.NoError(t, err)
	assert.Equal(t, entry.Corrections, got.Corrections)
	assert.Equal(t, entry.Params, got.Params)
}

func TestStoreGetMissing(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get([]byte("never stored"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreOverwritesExistingEntry(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	plaintext := []byte("overwrite me")
	first := Entry{Params: preflate.DefaultParameters(1, false), Corrections: []byte{0x01}}
	second := Entry{Params: preflate.DefaultParameters(9, true), Corrections: []byte{0x02, 0x03}}

	require.NoError(t, store.Put(plaintext, first))
	require.NoError(t, store.Put(plaintext, second))

	got, err := store.Get(plaintext)
	require.NoError(t, err)
	assert.Equal(t, second.Corrections, got.Corrections)
	assert.Equal(t, second.Params, got.Params)
}

func TestDecodeEntryRejectsTruncatedBuffer(t *testing.T) {
	_, err := decodeEntry([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrCorruptEntry)

	full := encodeEntry(Entry{Params: preflate.DefaultParameters(6, true), Corrections: []byte{1, 2, 3, 4}})
	_, err = decodeEntry(full[:len(full)-2])
	assert.ErrorIs(t, err, ErrCorruptEntry)
}
