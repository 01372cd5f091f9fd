package preflate

// EncodeBlob reconciles the real, already-parsed blocks of a DEFLATE stream
// against what this package's predictors would have guessed for the same
// plaintext under params, writing every misprediction and correction to
// enc. DecodeBlob is its exact mirror: given the same plaintext, params,
// and the recorded corrections, it reproduces blocks byte-for-byte.
//
// Each block's Huffman header, when present, is decoded from the block's
// own token frequencies rather than transmitted independently: the tree
// predictor needs TokenFrequency, which can only be computed from real
// tokens, so every block's tokens are always predicted/recreated before its
// header is.
func EncodeBlob(plaintext []byte, blocks []*Block, params Parameters, enc PredictionEncoder) error {
	if len(plaintext) == 0 {
		return ErrEmptyInput
	}
	tp := NewTokenPredictor(plaintext, params)
	treep := NewTreePredictor()

	for i, block := range blocks {
		encodeBlockHeader(enc, block)

		switch block.Type {
		case BlockStored:
			encodeStoredBlock(enc, block)
			tp.State().SkipHash(block.StoredLength)
		case BlockStaticHuff, BlockDynamicHuff:
			if err := tp.PredictBlockTokens(enc, block.Tokens, i); err != nil {
				return wrapBlockErr(i, err)
			}
			if block.Type == BlockDynamicHuff {
				freq := block.Frequencies()
				if err := treep.PredictTree(enc, freq, params, block.Huffman); err != nil {
					return wrapBlockErr(i, err)
				}
			}
		default:
			return wrapBlockErr(i, ErrUnsupportedBlockType)
		}
	}
	return nil
}

// DecodeBlob recreates a blob's blocks from plaintext, params, and a
// PredictionDecoder previously fed by EncodeBlob's corrections (or,
// directly, by a concrete range coder reading a real compressed stream's
// side channel). The number of blocks is not known ahead of time: decoding
// continues until a block is read with its final-block flag set.
func DecodeBlob(plaintext []byte, params Parameters, dec PredictionDecoder) ([]*Block, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyInput
	}
	tp := NewTokenPredictor(plaintext, params)
	treep := NewTreePredictor()

	var blocks []*Block
	for i := 0; ; i++ {
		blockType, final, err := decodeBlockHeader(dec, i)
		if err != nil {
			return nil, wrapBlockErr(i, err)
		}
		block := NewBlock(blockType)
		block.Final = final

		switch blockType {
		case BlockStored:
			if err := decodeStoredBlock(dec, block); err != nil {
				return nil, wrapBlockErr(i, err)
			}
			tp.State().SkipHash(block.StoredLength)
		case BlockStaticHuff, BlockDynamicHuff:
			tokenCount, err := decodeTokenCount(dec)
			if err != nil {
				return nil, wrapBlockErr(i, err)
			}
			tokens, err := tp.RecreateBlockTokens(dec, tokenCount, i)
			if err != nil {
				return nil, wrapBlockErr(i, err)
			}
			block.Tokens = tokens
			if blockType == BlockDynamicHuff {
				freq := block.Frequencies()
				block.Huffman = treep.RecreateTree(dec, freq, params)
			}
		default:
			return nil, wrapBlockErr(i, ErrUnsupportedBlockType)
		}

		blocks = append(blocks, block)
		if final {
			return blocks, nil
		}
	}
}

// predictedBlockType is the default guess for a block's type: most real
// content compresses to dynamic Huffman blocks, so that is what gets
// predicted and any deviation is paid for as a correction.
const predictedBlockType = BlockDynamicHuff

// encodeBlockHeader writes a block's final-block flag and type. The final
// flag's "prediction" is always false (a decoder has no way to know the
// blob's true block count ahead of time, so it always guesses "more blocks
// follow" until told otherwise): only the actual last block pays for this
// bit, every other block costs nothing.
func encodeBlockHeader(enc PredictionEncoder, block *Block) {
	enc.EncodeMisprediction(MispredFinalBlock, block.Final)
	enc.EncodeCorrection(CorrBlockTypeCorrection, EncodeDifference(uint32(predictedBlockType), uint32(block.Type)))
	if block.Type != BlockStored {
		enc.EncodeCorrection(CorrTokenCount, EncodeDifference(0, uint32(len(block.Tokens))))
	}
}

func decodeBlockHeader(dec PredictionDecoder, expectedIndex int) (BlockType, bool, error) {
	final := dec.DecodeMisprediction(MispredFinalBlock)
	blockType := BlockType(DecodeDifference(uint32(predictedBlockType), dec.DecodeCorrection(CorrBlockTypeCorrection)))
	return blockType, final, nil
}

func decodeTokenCount(dec PredictionDecoder) (int, error) {
	return int(DecodeDifference(0, dec.DecodeCorrection(CorrTokenCount))), nil
}

// encodeStoredBlock writes a stored block's length and padding bits. Both
// are transmitted directly: a stored block's length has no relationship to
// anything the predictors track, and non-zero padding is the rare case
// worth flagging as a misprediction rather than always paying for it.
func encodeStoredBlock(enc PredictionEncoder, block *Block) {
	enc.EncodeValue(block.StoredLength, 16)
	enc.EncodeMisprediction(MispredNonZeroPadding, block.PaddingBits != 0)
	if block.PaddingBits != 0 {
		enc.EncodeCorrection(CorrNonZeroPaddingCorrection, EncodeDifference(0, uint32(block.PaddingBits)))
	}
}

func decodeStoredBlock(dec PredictionDecoder, block *Block) error {
	block.StoredLength = dec.DecodeValue(16)
	if dec.DecodeMisprediction(MispredNonZeroPadding) {
		block.PaddingBits = byte(DecodeDifference(0, dec.DecodeCorrection(CorrNonZeroPaddingCorrection)))
	}
	return nil
}
