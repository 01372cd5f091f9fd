// Package archive is a small content-addressed store mapping a plaintext's
// hash to the Parameters and correction stream needed to reconstruct the
// DEFLATE bitstream it was originally compressed into: the "dedup/archival"
// use case spec.md frames this whole project around, made concrete. Two
// byte-identical plaintexts compressed by two different tools need their
// own correction streams, but only one copy of the plaintext itself.
//
// Grounded on elliotnunn/BeHierarchic's use of cockroachdb/pebble as a local
// KV layer and cespare/xxhash as its content-hash function.
package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"

	"github.com/preflate-go/preflate"
)

// ErrNotFound is returned by Get when no entry exists for the plaintext.
var ErrNotFound = fmt.Errorf("archive: no entry for this plaintext")

// ErrCorruptEntry is returned when a stored value is shorter than its
// encoding requires, which should only happen if the store was damaged or
// written by an incompatible version of this package.
var ErrCorruptEntry = fmt.Errorf("archive: corrupt stored entry")

// Entry is everything needed to reconstruct one blob's original compressed
// bytes, given only its plaintext: the parameters the level estimator
// settled on, and the encoded correction stream EncodeBlob produced.
type Entry struct {
	Params      preflate.Parameters
	Corrections []byte
}

// Store is a pebble-backed key/value store keyed by ContentKey(plaintext).
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a Store rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ContentKey hashes plaintext with xxhash, the same content-addressing
// scheme BeHierarchic uses for its own local cache keys.
func ContentKey(plaintext []byte) uint64 { return xxhash.Sum64(plaintext) }

// Put stores entry under plaintext's content key, overwriting any existing
// entry for the same plaintext.
func (s *Store) Put(plaintext []byte, entry Entry) error {
	return s.db.Set(encodeKey(ContentKey(plaintext)), encodeEntry(entry), pebble.Sync)
}

// Get looks up the entry for plaintext. It returns ErrNotFound (wrapped,
// check with errors.Is) when nothing is stored for this content.
func (s *Store) Get(plaintext []byte) (Entry, error) {
	val, closer, err := s.db.Get(encodeKey(ContentKey(plaintext)))
	if err == pebble.ErrNotFound {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(val)
}

func encodeKey(h uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, h)
	return key
}

// entry wire format: fixed-width Parameters fields (avoiding a reflection-
// based codec for a handful of scalars), followed by a length-prefixed
// correction blob.
func encodeEntry(e Entry) []byte {
	p := e.Params
	buf := make([]byte, 0, 40+len(e.Corrections))
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
	buf = appendU32(buf, uint32(len(e.Corrections)))
	buf = append(buf, e.Corrections...)
	return buf
}

func decodeEntry(buf []byte) (Entry, error) {
	const fixedLen = 8 + 4*8 + 4
	if len(buf) < fixedLen {
		return Entry{}, ErrCorruptEntry
	}
	var p preflate.Parameters
	p.WindowBits, p.HashBits, p.HashShift = buf[0], buf[1], buf[2]
	p.HuffTreeAlgorithm = preflate.HufftreeAlgorithm(buf[3])
	p.ZlibCompatible = buf[4] != 0
	p.MatchesToStartDetected = buf[5] != 0
	p.VeryFarMatchesDetected = buf[6] != 0
	p.IsFastCompressor = buf[7] != 0

	pos := 8
	readU32 := func() uint32 {
		v := binary.BigEndian.Uint32(buf[pos:])
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
	corrLen := readU32()

	if len(buf) < pos+int(corrLen) {
		return Entry{}, ErrCorruptEntry
	}
	corrections := make([]byte, corrLen)
	copy(corrections, buf[pos:pos+int(corrLen)])

	return Entry{Params: p, Corrections: corrections}, nil
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
