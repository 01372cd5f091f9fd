package preflate_test

import (
	"bytes"
	"compress/flate"
	"fmt"
	"strings"
	"testing"

	"github.com/preflate-go/preflate"
	"github.com/preflate-go/preflate/internal/deflatebits"
	"github.com/preflate-go/preflate/internal/paccodec"
)

// buildStaticHuffmanDeflate hand-assembles a minimal single-block static
// Huffman DEFLATE stream over plaintext using this repo's own encoder, so
// this test can exercise the full external entry points (EstimateParameters,
// EncodeBlob, DecodeBlob) against a real parsed Block/token stream rather
// than a synthetic one. The block is seven literals followed by one
// distance-7 reference, so plaintext must repeat with period 7 (as
// "banana " does).
func buildStaticHuffmanDeflate(t *testing.T, plaintext []byte) []byte {
	t.Helper()
	block := preflate.NewBlock(preflate.BlockStaticHuff)
	for i := 0; i < 7 && i < len(plaintext); i++ {
		block.AddLiteral(plaintext[i])
	}
	if len(plaintext) > 7 {
		block.AddReference(uint32(len(plaintext)-7), 7, false)
	}
	block.Final = true

	deflate, err := deflatebits.Encode(plaintext, []*preflate.Block{block})
	if err != nil {
		t.Fatalf("deflatebits.Encode: %v", err)
	}
	return deflate
}

func TestEncodeBlobDecodeBlobRoundtripEndToEnd(t *testing.T) {
	plaintext := []byte("banana banana banana banana banana")
	deflate := buildStaticHuffmanDeflate(t, plaintext)

	gotPlaintext, blocks, err := deflatebits.Decode(deflate)
	if err != nil {
		t.Fatalf("deflatebits.Decode: %v", err)
	}
	if !bytes.Equal(gotPlaintext, plaintext) {
		t.Fatalf("decoded plaintext mismatch: got %q, want %q", gotPlaintext, plaintext)
	}

	params, err := preflate.EstimateParameters(plaintext, blocks, 15)
	if err != nil {
		t.Fatalf("EstimateParameters: %v", err)
	}

	enc := paccodec.NewRangeEncoder()
	if err := preflate.EncodeBlob(plaintext, blocks, params, enc); err != nil {
		t.Fatalf("EncodeBlob: %v", err)
	}

	dec := paccodec.NewRangeDecoder(enc.Bytes())
	gotBlocks, err := preflate.DecodeBlob(plaintext, params, dec)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}

	reencoded, err := deflatebits.Encode(plaintext, gotBlocks)
	if err != nil {
		t.Fatalf("deflatebits.Encode (reconstructed): %v", err)
	}
	if !bytes.Equal(reencoded, deflate) {
		t.Fatalf("reconstructed deflate stream differs from the original:\noriginal:      % x\nreconstructed: % x", deflate, reencoded)
	}
}

func TestEncodeBlobRejectsEmptyInput(t *testing.T) {
	err := preflate.EncodeBlob(nil, nil, preflate.Parameters{}, paccodec.NewRangeEncoder())
	if err != preflate.ErrEmptyInput {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestDecodeBlobRejectsEmptyInput(t *testing.T) {
	_, err := preflate.DecodeBlob(nil, preflate.Parameters{}, paccodec.NewRangeDecoder(nil))
	if err != preflate.ErrEmptyInput {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

// TestEncodeBlobDecodeBlobRoundtripRealEncoder compresses plaintext with the
// standard library's own flate implementation, entirely independent of this
// repo's predictor/encoder, and checks that EstimateParameters/EncodeBlob/
// DecodeBlob/deflatebits.Encode reproduce those bytes exactly. Unlike a
// self-generated token stream, a real encoder's output exercises whatever
// lazy-match and fast-compressor decisions it actually made, dynamic Huffman
// trees built from a real frequency distribution, and hash-chain states a
// hand-built fixture never reaches.
func TestEncodeBlobDecodeBlobRoundtripRealEncoder(t *testing.T) {
	plaintext := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200) +
		strings.Repeat("a", 500) +
		"some trailing unique text to break up the runs of repetition.")

	levels := []int{flate.BestSpeed, 3, 6, flate.BestCompression}
	for _, level := range levels {
		t.Run(fmt.Sprintf("level=%d", level), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := flate.NewWriter(&buf, level)
			if err != nil {
				t.Fatalf("flate.NewWriter: %v", err)
			}
			if _, err := w.Write(plaintext); err != nil {
				t.Fatalf("flate write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("flate close: %v", err)
			}
			deflate := buf.Bytes()

			gotPlaintext, blocks, err := deflatebits.Decode(deflate)
			if err != nil {
				t.Fatalf("deflatebits.Decode: %v", err)
			}
			if !bytes.Equal(gotPlaintext, plaintext) {
				t.Fatalf("decoded plaintext mismatch (len got %d, want %d)", len(gotPlaintext), len(plaintext))
			}

			params, err := preflate.EstimateParameters(plaintext, blocks, 15)
			if err != nil {
				t.Fatalf("EstimateParameters: %v", err)
			}

			enc := paccodec.NewRangeEncoder()
			if err := preflate.EncodeBlob(plaintext, blocks, params, enc); err != nil {
				t.Fatalf("EncodeBlob: %v", err)
			}

			dec := paccodec.NewRangeDecoder(enc.Bytes())
			gotBlocks, err := preflate.DecodeBlob(plaintext, params, dec)
			if err != nil {
				t.Fatalf("DecodeBlob: %v", err)
			}

			reencoded, err := deflatebits.Encode(plaintext, gotBlocks)
			if err != nil {
				t.Fatalf("deflatebits.Encode (reconstructed): %v", err)
			}
			if !bytes.Equal(reencoded, deflate) {
				t.Fatalf("reconstructed deflate stream differs from the real encoder's output (original %d bytes, reconstructed %d bytes)",
					len(deflate), len(reencoded))
			}
		})
	}
}
