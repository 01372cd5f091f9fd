package deflatebits

import "github.com/preflate-go/preflate"

// Decode parses a raw RFC 1951 DEFLATE stream into its decompressed
// plaintext and the sequence of blocks (with, for dynamic blocks, the
// transmitted Huffman header) that produced it. This is the one place in
// the repository that runs a real DEFLATE decompressor; everything
// preflate.DecodeBlob/EncodeBlob does operates on the resulting
// []preflate.Block instead of raw bits.
func Decode(data []byte) ([]byte, []*preflate.Block, error) {
	r := newBitReader(data)
	var output []byte
	var blocks []*preflate.Block

	for {
		finalBit, err := r.ReadBit()
		if err != nil {
			return nil, nil, err
		}
		btypeBits, err := r.ReadBits(2)
		if err != nil {
			return nil, nil, err
		}

		var block *preflate.Block
		switch btypeBits {
		case 0:
			block, output, err = decodeStoredBlock(r, output)
		case 1:
			block, output, err = decodeHuffmanBlock(r, output, preflate.BlockStaticHuff, nil, nil, nil)
		case 2:
			block, output, err = decodeDynamicBlock(r, output)
		default:
			return nil, nil, ErrCorruptStream
		}
		if err != nil {
			return nil, nil, err
		}

		block.Final = finalBit == 1
		blocks = append(blocks, block)
		if block.Final {
			return output, blocks, nil
		}
	}
}

func decodeStoredBlock(r *bitReader, output []byte) (*preflate.Block, []byte, error) {
	padding := r.AlignToByte()
	lenBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, nil, err
	}
	length := uint32(lenBytes[0]) | uint32(lenBytes[1])<<8
	nlength := uint32(lenBytes[2]) | uint32(lenBytes[3])<<8
	if length != (^nlength)&0xFFFF {
		return nil, nil, ErrCorruptStream
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, nil, err
	}
	output = append(output, data...)

	block := preflate.NewBlock(preflate.BlockStored)
	block.StoredLength = length
	block.PaddingBits = padding
	return block, output, nil
}

// decodeHuffmanBlock decodes tokens against litTable/distTable (nil means
// use the static RFC 1951 tables), used for both static and dynamic blocks.
func decodeHuffmanBlock(r *bitReader, output []byte, blockType preflate.BlockType, litTable, distTable *huffmanDecodeTable, header *preflate.HuffmanHeader) (*preflate.Block, []byte, error) {
	if litTable == nil {
		litTable = newHuffmanDecodeTable(staticLiteralLengths)
	}
	if distTable == nil {
		distTable = newHuffmanDecodeTable(staticDistanceLengths)
	}

	block := preflate.NewBlock(blockType)
	block.Huffman = header

	for {
		sym, err := litTable.decode(r)
		if err != nil {
			return nil, nil, err
		}
		if sym == 256 {
			return block, output, nil
		}
		if sym < 256 {
			block.AddLiteral(byte(sym))
			output = append(output, byte(sym))
			continue
		}

		lenCode := sym - preflate.NonlenCodeCount
		if lenCode < 0 || lenCode >= len(preflate.LengthCodeBase) {
			return nil, nil, ErrCorruptStream
		}
		extra, err := r.ReadBits(int(preflate.LengthCodeExtraBits[lenCode]))
		if err != nil {
			return nil, nil, err
		}
		length := uint32(preflate.LengthCodeBase[lenCode]) + extra

		distSym, err := distTable.decode(r)
		if err != nil {
			return nil, nil, err
		}
		if distSym < 0 || distSym >= len(preflate.DistCodeBase) {
			return nil, nil, ErrCorruptStream
		}
		distExtra, err := r.ReadBits(int(preflate.DistCodeExtraBits[distSym]))
		if err != nil {
			return nil, nil, err
		}
		dist := uint32(preflate.DistCodeBase[distSym]) + distExtra
		if dist == 0 || int(dist) > len(output) {
			return nil, nil, ErrCorruptStream
		}

		start := len(output) - int(dist)
		for i := uint32(0); i < length; i++ {
			output = append(output, output[start+int(i)])
		}

		// A length of 258 written as code 284 with extra value 31, instead
		// of the canonical code 285, is recorded as an Irregular258 token
		// so Encode can reproduce the same code.
		block.AddReference(length, dist, lenCode == 27 && extra == 31)
	}
}

func decodeDynamicBlock(r *bitReader, output []byte) (*preflate.Block, []byte, error) {
	hlit, err := r.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := r.ReadBits(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := r.ReadBits(4)
	if err != nil {
		return nil, nil, err
	}
	numLiterals := int(hlit) + 257
	numDist := int(hdist) + 1
	numCodeLengths := int(hclen) + 4

	var codeLengths [preflate.CodetreeCodeCount]byte
	for i := 0; i < numCodeLengths; i++ {
		v, err := r.ReadBits(3)
		if err != nil {
			return nil, nil, err
		}
		codeLengths[preflate.TreeCodeOrderTable[i]] = byte(v)
	}

	clTable := newHuffmanDecodeTable(codeLengths[:])

	entries, flat, err := decodeTreeCodeStream(r, clTable, numLiterals+numDist)
	if err != nil {
		return nil, nil, err
	}

	header := &preflate.HuffmanHeader{
		NumLiterals:    numLiterals,
		NumDist:        numDist,
		NumCodeLengths: numCodeLengths,
		CodeLengths:    codeLengths,
		Lengths:        entries,
	}

	litLengths := flat[:numLiterals]
	distLengths := flat[numLiterals:]
	litTable := newHuffmanDecodeTable(litLengths)
	distTable := newHuffmanDecodeTable(distLengths)

	return decodeHuffmanBlock(r, output, preflate.BlockDynamicHuff, litTable, distTable, header)
}

// decodeTreeCodeStream reads the RLE-encoded code-length alphabet stream
// until totalSymbols flat bit lengths have been produced, returning both
// the raw TreeCodeEntry sequence (for HuffmanHeader.Lengths) and the
// expanded flat array (to build the literal/distance decode tables).
func decodeTreeCodeStream(r *bitReader, clTable *huffmanDecodeTable, totalSymbols int) ([]preflate.TreeCodeEntry, []byte, error) {
	var entries []preflate.TreeCodeEntry
	flat := make([]byte, 0, totalSymbols)
	var prev byte

	for len(flat) < totalSymbols {
		sym, err := clTable.decode(r)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			entries = append(entries, preflate.TreeCodeEntry{Type: preflate.TreeCodeCode, Data: byte(sym)})
			flat = append(flat, byte(sym))
			prev = byte(sym)
		case sym == 16:
			extra, err := r.ReadBits(2)
			if err != nil {
				return nil, nil, err
			}
			count := int(extra) + 3
			entries = append(entries, preflate.TreeCodeEntry{Type: preflate.TreeCodeRepeat, Data: byte(extra)})
			for i := 0; i < count; i++ {
				flat = append(flat, prev)
			}
		case sym == 17:
			extra, err := r.ReadBits(3)
			if err != nil {
				return nil, nil, err
			}
			count := int(extra) + 3
			entries = append(entries, preflate.TreeCodeEntry{Type: preflate.TreeCodeZeroShort, Data: byte(extra)})
			for i := 0; i < count; i++ {
				flat = append(flat, 0)
			}
			prev = 0
		case sym == 18:
			extra, err := r.ReadBits(7)
			if err != nil {
				return nil, nil, err
			}
			count := int(extra) + 11
			entries = append(entries, preflate.TreeCodeEntry{Type: preflate.TreeCodeZeroLong, Data: byte(extra)})
			for i := 0; i < count; i++ {
				flat = append(flat, 0)
			}
			prev = 0
		default:
			return nil, nil, ErrCorruptStream
		}
	}
	return entries, flat, nil
}
