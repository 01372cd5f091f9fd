// Package container demultiplexes the three outer framings a DEFLATE stream
// is commonly found wrapped in — gzip (RFC 1952), zlib (RFC 1950), and a zip
// archive's local file header — locating the embedded raw DEFLATE bytes and
// the original container's trailing checksum/size metadata, so a
// reconstructed bitstream can be verified against it. This is pure format
// demultiplexing: it never touches DEFLATE's own bit-level framing, which is
// internal/deflatebits' job.
package container

import (
	"encoding/binary"
	"fmt"
)

// ErrUnrecognizedContainer is returned when the input matches none of
// gzip's, zlib's, or zip's magic bytes.
var ErrUnrecognizedContainer = fmt.Errorf("container: unrecognized container format")

// ErrTruncated is returned when a container's header or trailer runs past
// the end of the input.
var ErrTruncated = fmt.Errorf("container: truncated container")

// Kind names which outer framing Sniff detected.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindGzip
	KindZlib
	KindZip
)

// Stream is a demultiplexed container: the raw embedded DEFLATE bytes plus
// whatever trailing integrity metadata the format carries for them.
type Stream struct {
	Kind Kind

	// Deflate is the embedded raw DEFLATE stream, ready for
	// internal/deflatebits.Decode.
	Deflate []byte

	// Header and Trailer are the container bytes immediately before and
	// after Deflate, verbatim. A caller that re-serializes Deflate (e.g.
	// after a preflate reconstruction round-trip) reproduces the exact
	// original container by concatenating Header, the new Deflate bytes,
	// and Trailer.
	Header  []byte
	Trailer []byte

	// UncompressedSize is the original content length the container
	// recorded, when the format carries one up front (zip) or as a
	// trailer (gzip); 0 for zlib, which doesn't record it at all.
	UncompressedSize uint32

	// CRC32 is set for gzip and zip (both use RFC 1952/PKZIP's CRC-32);
	// Adler32 is set for zlib (RFC 1950 uses Adler-32 instead).
	CRC32   uint32
	Adler32 uint32
}

// Sniff identifies which container format data starts with, from its magic
// bytes, without fully parsing it.
func Sniff(data []byte) Kind {
	switch {
	case len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B:
		return KindGzip
	case len(data) >= 2 && data[0] == 0x78 && isValidZlibHeader(data[0], data[1]):
		return KindZlib
	case len(data) >= 4 && binary.LittleEndian.Uint32(data) == zipLocalFileHeaderSignature:
		return KindZip
	default:
		return KindUnknown
	}
}

func isValidZlibHeader(cmf, flg byte) bool {
	return (uint16(cmf)<<8+uint16(flg))%31 == 0 && cmf&0x0F == 8
}

// Demux sniffs data's container format and extracts its embedded DEFLATE
// stream plus trailing metadata.
func Demux(data []byte) (*Stream, error) {
	switch Sniff(data) {
	case KindGzip:
		return demuxGzip(data)
	case KindZlib:
		return demuxZlib(data)
	case KindZip:
		return demuxZip(data)
	default:
		return nil, ErrUnrecognizedContainer
	}
}
