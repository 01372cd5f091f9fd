package preflate

// CodecMisprediction names a single yes/no prediction point the token or
// tree predictor makes. The encoder emits one bool per occurrence (false
// when the prediction held); the decoder consumes them in the same order to
// steer recreation back onto the real stream.
type CodecMisprediction uint8

const (
	MispredLiteralPredictionWrong CodecMisprediction = iota
	MispredReferencePredictionWrong
	MispredLiteralCountMisprediction
	MispredDistanceCountMisprediction
	MispredTreeCodeCountMisprediction
	MispredIrregularLen258
	MispredNonZeroPadding
	MispredFinalBlock
)

// CodecCorrection names a single numeric correction point. The encoder
// emits one zigzag-encoded delta per occurrence (0 when the prediction was
// exact); the decoder applies the delta to its own prediction to recover
// the real value.
type CodecCorrection uint8

const (
	CorrBlockTypeCorrection CodecCorrection = iota
	CorrTokenCount
	CorrLenCorrection
	CorrDistOnlyCorrection
	CorrDistAfterLenCorrection
	CorrTreeCodeBitLengthCorrection
	CorrLDTypeCorrection
	CorrLDBitLengthCorrection
	CorrRepeatCountCorrection
	CorrNonZeroPaddingCorrection
)

// PredictionEncoder is the abstract entropy-coding surface the predictors
// write to. A concrete implementation (see internal/paccodec) assigns a
// statistical model per event kind; the core engine never depends on one.
type PredictionEncoder interface {
	EncodeMisprediction(kind CodecMisprediction, value bool)
	EncodeCorrection(kind CodecCorrection, value uint32)
	// EncodeValue writes a raw, unmodeled value of the given bit width
	// (used for data that isn't usefully predicted, such as stored-block
	// padding bits).
	EncodeValue(value uint32, bits uint8)
	// EncodeVerifyState is an optional debugging rendezvous: implementations
	// may no-op it. It lets an encoder and decoder assert they agree on
	// some checkpoint value (e.g. a token index) at matching points in the
	// encode/decode walk.
	EncodeVerifyState(label string, checksum uint64)
}

// PredictionDecoder is the read side of PredictionEncoder.
type PredictionDecoder interface {
	DecodeMisprediction(kind CodecMisprediction) bool
	DecodeCorrection(kind CodecCorrection) uint32
	DecodeValue(bits uint8) uint32
	DecodeVerifyState(label string, checksum uint64)
}

// EncodeDifference zigzag-encodes target-predicted so that 0 always means
// "predicted correctly", keeping small deltas (the overwhelmingly common
// case) cheap to encode regardless of sign.
func EncodeDifference(predicted, target uint32) uint32 {
	delta := int32(target) - int32(predicted)
	return zigzagEncode32(delta)
}

// DecodeDifference reverses EncodeDifference.
func DecodeDifference(predicted, code uint32) uint32 {
	delta := zigzagDecode32(code)
	return uint32(int32(predicted) + delta)
}

func zigzagEncode32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func zigzagDecode32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
