// Package bundle defines the on-disk artifact cmd/preflate's encode
// subcommand writes and its decode subcommand reads: everything besides the
// plaintext itself that's needed to reconstruct an original compressed file
// byte-for-byte — the container envelope bytes, the Parameters the level
// estimator settled on, and the correction stream EncodeBlob produced.
//
// Field layout follows internal/archive's fixed-width encoding of
// Parameters; this package adds the container framing bytes around it.
package bundle

import (
	"encoding/binary"
	"fmt"

	"github.com/preflate-go/preflate"
	"github.com/preflate-go/preflate/internal/container"
)

var magic = [4]byte{'P', 'R', 'F', '1'}

// ErrBadMagic is returned when the input doesn't start with this package's
// magic bytes, meaning it isn't a bundle this version of the tool wrote.
var ErrBadMagic = fmt.Errorf("bundle: not a preflate bundle (bad magic)")

// ErrTruncated is returned when a bundle is shorter than its own declared
// field lengths, meaning it was cut off or corrupted in transit.
var ErrTruncated = fmt.Errorf("bundle: truncated bundle")

// Bundle is everything besides the plaintext required to reproduce the
// original compressed file.
type Bundle struct {
	Kind        container.Kind
	Header      []byte // container bytes preceding the DEFLATE stream, verbatim
	Trailer     []byte // container bytes following the DEFLATE stream, verbatim
	Params      preflate.Parameters
	Corrections []byte
}

// Marshal serializes b to its wire form.
func Marshal(b Bundle) []byte {
	buf := make([]byte, 0, 64+len(b.Header)+len(b.Trailer)+len(b.Corrections))
	buf = append(buf, magic[:]...)
	buf = append(buf, byte(b.Kind))
	buf = appendBytes(buf, b.Header)
	buf = appendBytes(buf, b.Trailer)
	buf = appendParams(buf, b.Params)
	buf = appendBytes(buf, b.Corrections)
	return buf
}

// Unmarshal parses a Bundle previously produced by Marshal.
func Unmarshal(data []byte) (Bundle, error) {
	if len(data) < 5 || [4]byte(data[:4]) != magic {
		return Bundle{}, ErrBadMagic
	}
	var b Bundle
	b.Kind = container.Kind(data[4])
	pos := 5

	header, pos, err := readBytes(data, pos)
	if err != nil {
		return Bundle{}, err
	}
	trailer, pos, err := readBytes(data, pos)
	if err != nil {
		return Bundle{}, err
	}
	params, pos, err := readParams(data, pos)
	if err != nil {
		return Bundle{}, err
	}
	corrections, _, err := readBytes(data, pos)
	if err != nil {
		return Bundle{}, err
	}

	b.Header, b.Trailer, b.Params, b.Corrections = header, trailer, params, corrections
	return b, nil
}

func appendBytes(buf, b []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, b...)
}

func readBytes(data []byte, pos int) ([]byte, int, error) {
	if len(data) < pos+4 {
		return nil, 0, ErrTruncated
	}
	n := int(binary.BigEndian.Uint32(data[pos:]))
	pos += 4
	if len(data) < pos+n {
		return nil, 0, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, data[pos:pos+n])
	return out, pos + n, nil
}

func appendParams(buf []byte, p preflate.Parameters) []byte {
	buf = append(buf, p.WindowBits, p.HashBits, p.HashShift, byte(p.HuffTreeAlgorithm))
	buf = append(buf, boolByte(p.ZlibCompatible), boolByte(p.MatchesToStartDetected),
		boolByte(p.VeryFarMatchesDetected), boolByte(p.IsFastCompressor))
	buf = appendU32(buf, p.HashMask)
	buf = appendU32(buf, p.MaxTokenCount)
	buf = appendU32(buf, p.GoodLength)
	buf = appendU32(buf, p.NiceLength)
	buf = appendU32(buf, p.MaxLazy)
	buf = appendU32(buf, p.MaxChain)
	buf = appendU32(buf, p.MaxDist3Matches)
	buf = appendU32(buf, p.Log2OfMaxChainDepthM1)
	return buf
}

const paramsLen = 8 + 4*8

func readParams(data []byte, pos int) (preflate.Parameters, int, error) {
	if len(data) < pos+paramsLen {
		return preflate.Parameters{}, 0, ErrTruncated
	}
	var p preflate.Parameters
	p.WindowBits, p.HashBits, p.HashShift = data[pos], data[pos+1], data[pos+2]
	p.HuffTreeAlgorithm = preflate.HufftreeAlgorithm(data[pos+3])
	p.ZlibCompatible = data[pos+4] != 0
	p.MatchesToStartDetected = data[pos+5] != 0
	p.VeryFarMatchesDetected = data[pos+6] != 0
	p.IsFastCompressor = data[pos+7] != 0
	pos += 8

	readU32 := func() uint32 {
		v := binary.BigEndian.Uint32(data[pos:])
		pos += 4
		return v
	}
	p.HashMask = readU32()
	p.MaxTokenCount = readU32()
	p.GoodLength = readU32()
	p.NiceLength = readU32()
	p.MaxLazy = readU32()
	p.MaxChain = readU32()
	p.MaxDist3Matches = readU32()
	p.Log2OfMaxChainDepthM1 = readU32()
	return p, pos, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
