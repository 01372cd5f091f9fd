package container

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGzip(deflate []byte, crc32, isize uint32) []byte {
	header := []byte{0x1F, 0x8B, 8, 0, 0, 0, 0, 0, 0, 0xFF}
	trailer := make([]byte, 8)
	binary.LittleEndian.PutUint32(trailer[0:4], crc32)
	binary.LittleEndian.PutUint32(trailer[4:8], isize)
	out := append(append([]byte{}, header...), deflate...)
	return append(out, trailer...)
}

func TestSniffGzip(t *testing.T) {
	data := buildGzip([]byte{0x01, 0x02}, 0xdeadbeef, 2)
	assert.Equal(t, KindGzip, Sniff(data))
}

func TestDemuxGzip(t *testing.T) {
	payload := []byte{0x03, 0x00}
	data := buildGzip(payload, 0x12345678, 99)

	s, err := Demux(data)
	require.NoError(t, err)
	assert.Equal(t, KindGzip, s.Kind)
	assert.Equal(t, payload, s.Deflate)
	assert.Equal(t, uint32(0x12345678), s.CRC32)
	assert.Equal(t, uint32(99), s.UncompressedSize)
	assert.Equal(t, data, append(append(append([]byte{}, s.Header...), s.Deflate...), s.Trailer...))
}

func TestSniffZlib(t *testing.T) {
	// CMF=0x78 (deflate, 32K window), FLG chosen so (CMF<<8|FLG) % 31 == 0.
	data := []byte{0x78, 0x9C, 0, 0, 0, 0}
	assert.Equal(t, KindZlib, Sniff(data))
}

func TestDemuxZlib(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	adler := make([]byte, 4)
	binary.BigEndian.PutUint32(adler, 0x01020304)
	data := append([]byte{0x78, 0x9C}, payload...)
	data = append(data, adler...)

	s, err := Demux(data)
	require.NoError(t, err)
	assert.Equal(t, KindZlib, s.Kind)
	assert.Equal(t, payload, s.Deflate)
	assert.Equal(t, uint32(0x01020304), s.Adler32)
}

func TestDemuxUnrecognized(t *testing.T) {
	_, err := Demux([]byte{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrUnrecognizedContainer)
}

func buildZipLocalEntry(payload []byte, crc32 uint32, name string) []byte {
	header := make([]byte, zipLocalFileHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], zipLocalFileHeaderSignature)
	binary.LittleEndian.PutUint16(header[8:10], zipMethodDeflate)
	binary.LittleEndian.PutUint32(header[14:18], crc32)
	binary.LittleEndian.PutUint32(header[18:22], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[22:26], uint32(len(payload)*2))
	binary.LittleEndian.PutUint16(header[26:28], uint16(len(name)))

	out := append(header, []byte(name)...)
	return append(out, payload...)
}

func TestDemuxZip(t *testing.T) {
	payload := []byte{0x11, 0x22, 0x33, 0x44}
	data := buildZipLocalEntry(payload, 0xCAFEBABE, "hello.txt")

	s, err := Demux(data)
	require.NoError(t, err)
	assert.Equal(t, KindZip, s.Kind)
	assert.Equal(t, payload, s.Deflate)
	assert.Equal(t, uint32(0xCAFEBABE), s.CRC32)
}
