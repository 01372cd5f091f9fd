package deflatebits

import (
	"bytes"
	"testing"

	"github.com/preflate-go/preflate"
)

// buildStoredStream hand-assembles a minimal one-block stored DEFLATE
// stream so decode can be exercised without a real compressor: BFINAL=1,
// BTYPE=00, byte-aligned, LEN/NLEN, then the raw bytes.
func buildStoredStream(payload []byte) []byte {
	w := &bitWriter{}
	w.WriteBit(1)
	w.WriteBits(0, 2)
	w.AlignToByte()
	n := uint32(len(payload))
	w.WriteBits(n&0xFF, 8)
	w.WriteBits((n>>8)&0xFF, 8)
	nlen := (^n) & 0xFFFF
	w.WriteBits(nlen&0xFF, 8)
	w.WriteBits((nlen>>8)&0xFF, 8)
	w.WriteBytes(payload)
	return w.Bytes()
}

func TestDecodeStoredBlock(t *testing.T) {
	payload := []byte("hello, stored block")
	stream := buildStoredStream(payload)

	out, blocks, err := Decode(stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("got %q, want %q", out, payload)
	}
	if len(blocks) != 1 || blocks[0].Type != preflate.BlockStored || !blocks[0].Final {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
	if blocks[0].StoredLength != uint32(len(payload)) {
		t.Fatalf("stored length %d, want %d", blocks[0].StoredLength, len(payload))
	}
}

func TestEncodeStoredBlockRoundtrip(t *testing.T) {
	payload := []byte("round trip me")
	block := preflate.NewBlock(preflate.BlockStored)
	block.Final = true
	block.StoredLength = uint32(len(payload))

	encoded, err := Encode(payload, []*preflate.Block{block})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, blocks, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("got %q, want %q", out, payload)
	}
	if len(blocks) != 1 || blocks[0].StoredLength != uint32(len(payload)) {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}

func TestStaticHuffmanBlockRoundtrip(t *testing.T) {
	block := preflate.NewBlock(preflate.BlockStaticHuff)
	block.Final = true
	for _, b := range []byte("abcabcabc") {
		block.AddLiteral(b)
	}
	block.AddReference(3, 6, false) // a back-reference to the second "abc"

	encoded, err := Encode(nil, []*preflate.Block{block})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, blocks, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "abcabcabcabc"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
	if len(blocks) != 1 || blocks[0].Type != preflate.BlockStaticHuff {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}
