package deflatebits

import "github.com/preflate-go/preflate"

// Encode serializes blocks back into an exact RFC 1951 bitstream. plaintext
// must be the same plaintext the blocks were produced from: stored blocks
// copy their raw bytes from it directly, since Block itself only records a
// stored block's length, not its content.
func Encode(plaintext []byte, blocks []*preflate.Block) ([]byte, error) {
	w := &bitWriter{}
	pos := 0

	for _, block := range blocks {
		final := 0
		if block.Final {
			final = 1
		}
		w.WriteBit(final)
		w.WriteBits(uint32(block.Type), 2)

		switch block.Type {
		case preflate.BlockStored:
			w.AlignToByte()
			w.WriteBits(uint32(block.StoredLength&0xFF), 8)
			w.WriteBits(uint32(block.StoredLength>>8)&0xFF, 8)
			nlen := (^block.StoredLength) & 0xFFFF
			w.WriteBits(nlen&0xFF, 8)
			w.WriteBits((nlen>>8)&0xFF, 8)
			w.WriteBytes(plaintext[pos : pos+int(block.StoredLength)])
			pos += int(block.StoredLength)
		case preflate.BlockStaticHuff:
			litCode := buildHuffmanCode(staticLiteralLengths)
			distCode := buildHuffmanCode(staticDistanceLengths)
			pos += encodeTokens(w, block.Tokens, litCode, distCode)
		case preflate.BlockDynamicHuff:
			encodeDynamicHeader(w, block.Huffman)
			litCode := buildHuffmanCode(block.Huffman.LiteralLengths())
			distCode := buildHuffmanCode(block.Huffman.DistanceLengths())
			pos += encodeTokens(w, block.Tokens, litCode, distCode)
		default:
			return nil, ErrCorruptStream
		}
	}
	return w.Bytes(), nil
}

func encodeTokens(w *bitWriter, tokens []preflate.Token, litCode, distCode *huffmanCode) int {
	consumed := 0
	for _, t := range tokens {
		if t.IsLiteral() {
			litCode.encode(w, int(t.Literal))
			consumed++
			continue
		}
		r := t.Ref
		length := r.Len()
		if r.Irregular258() && length == preflate.MaxMatch {
			// The irregular-258 encoding writes length code 284 with all
			// five extra bits set (227+31 = 258) instead of the canonical
			// length code 285.
			litCode.encode(w, preflate.NonlenCodeCount+27)
			w.WriteBits(31, 5)
			distSym, distExtraBits, distExtraVal := preflate.DistanceToCode(r.Dist())
			distCode.encode(w, int(distSym))
			if distExtraBits > 0 {
				w.WriteBits(distExtraVal, int(distExtraBits))
			}
		} else {
			emitReference(w, litCode, distCode, length, r.Dist())
		}
		consumed += int(length)
	}
	litCode.encode(w, 256)
	return consumed
}

func emitReference(w *bitWriter, litCode, distCode *huffmanCode, length, dist uint32) {
	lenSym, lenExtraBits, lenExtraVal := preflate.LengthToCode(length)
	litCode.encode(w, preflate.NonlenCodeCount+int(lenSym))
	if lenExtraBits > 0 {
		w.WriteBits(lenExtraVal, int(lenExtraBits))
	}
	distSym, distExtraBits, distExtraVal := preflate.DistanceToCode(dist)
	distCode.encode(w, int(distSym))
	if distExtraBits > 0 {
		w.WriteBits(distExtraVal, int(distExtraBits))
	}
}

func encodeDynamicHeader(w *bitWriter, h *preflate.HuffmanHeader) {
	w.WriteBits(uint32(h.NumLiterals-257), 5)
	w.WriteBits(uint32(h.NumDist-1), 5)
	w.WriteBits(uint32(h.NumCodeLengths-4), 4)

	for i := 0; i < h.NumCodeLengths; i++ {
		w.WriteBits(uint32(h.CodeLengths[preflate.TreeCodeOrderTable[i]]), 3)
	}

	clCode := buildHuffmanCode(h.CodeLengths[:])
	for _, e := range h.Lengths {
		switch e.Type {
		case preflate.TreeCodeCode:
			clCode.encode(w, int(e.Data))
		case preflate.TreeCodeRepeat:
			clCode.encode(w, 16)
			w.WriteBits(uint32(e.Data), 2)
		case preflate.TreeCodeZeroShort:
			clCode.encode(w, 17)
			w.WriteBits(uint32(e.Data), 3)
		case preflate.TreeCodeZeroLong:
			clCode.encode(w, 18)
			w.WriteBits(uint32(e.Data), 7)
		}
	}
}
