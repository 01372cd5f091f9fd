package preflate

// TokenPredictor predicts, and recreates, one blob's sequence of LZ77
// tokens by running the same hash-chain search and lazy-match heuristic a
// real encoder would have run, then reconciling against (or reproducing
// from) a correction stream. It owns the PredictorState for the blob and is
// reused across every block in it, since hash-chain state is cumulative
// over the whole input.
type TokenPredictor struct {
	state  *PredictorState
	params Parameters

	// pending holds a lazy-match lookahead's result (predictToken's
	// "is the match one byte later even better" check) so the *next* call
	// can reuse it instead of re-searching the chain: this only happens
	// for zlib-compatible parameters, matching the original encoder's own
	// one-slot lookahead cache.
	pending *ReferenceToken
}

// NewTokenPredictor primes hash-chain state for plaintext and returns a
// predictor ready to process its first block.
func NewTokenPredictor(plaintext []byte, params Parameters) *TokenPredictor {
	tp := &TokenPredictor{state: NewPredictorState(plaintext, params), params: params}
	in := tp.state.Input()
	if in.Size() > 0 {
		tp.state.UpdateRunningHash(byteAt(in, 0))
	}
	if in.Size() > 1 {
		tp.state.UpdateRunningHash(byteAt(in, 1))
	}
	return tp
}

func (tp *TokenPredictor) State() *PredictorState { return tp.state }

// predictToken guesses the token at the current cursor position. A match
// found one byte later (the lazy-match lookahead) and a run of repeated
// bytes (the RLE fast path) both defer to a literal here so the longer
// match is taken at the next position instead; a fast compressor skips all
// of this and takes the first match it finds, and a short match lying
// suspiciously far away is rejected outright as not worth its distance
// bits. Non-zlib-compatible parameters search the chain to a depth derived
// from Log2OfMaxChainDepthM1 instead of the usual MaxChain/NiceLength
// bound.
func (tp *TokenPredictor) predictToken() Token {
	st := tp.state
	if st.CurrentInputPos() == 0 || st.AvailableInputSize() < MinMatch {
		return LiteralToken(byteAt(st.Input(), 0))
	}

	hash := st.CalculateHash()

	var m MatchResult
	if tp.pending != nil {
		m = MatchResult{Kind: MatchSuccess, Ref: *tp.pending}
	} else {
		depth := uint32(0)
		if !tp.params.ZlibCompatible {
			depth = uint32(1) << tp.params.Log2OfMaxChainDepthM1
		}
		m = st.MatchToken(hash, 0, 0, depth)
	}
	tp.pending = nil

	if m.Kind != MatchSuccess {
		return LiteralToken(byteAt(st.Input(), 0))
	}
	best := m.Ref
	if best.Len() < MinMatch {
		return LiteralToken(byteAt(st.Input(), 0))
	}
	if tp.params.IsFastCompressor {
		return ReferenceTok(best)
	}

	// A length-3 match this far away costs more in distance bits than it
	// saves: not worth encoding as a reference.
	if best.Len() == MinMatch && best.Dist() > tp.params.MaxDist3Matches {
		return LiteralToken(byteAt(st.Input(), 0))
	}

	if best.Len() < tp.params.MaxLazy && st.AvailableInputSize() >= best.Len()+2 {
		hashNext := st.CalculateHashNext()
		depthNext := uint32(0)
		if !tp.params.ZlibCompatible {
			depthNext = uint32(2) << tp.params.Log2OfMaxChainDepthM1
		}
		matchNext := st.MatchToken(hashNext, best.Len(), 1, depthNext)

		if hashNext == hash {
			// The byte one ahead hashes the same as the current one: check
			// whether a run of the same repeated byte reaches further than
			// either match already found, which the ordinary hash-chain
			// search can miss for long runs.
			maxSize := minU32(st.AvailableInputSize()-1, MaxMatch)
			cur := st.InputCursor()
			b := cur[0]
			var rle uint32
			for rle < maxSize && cur[1+rle] == b {
				rle++
			}
			matchNextLen := uint32(0)
			if matchNext.Kind == MatchSuccess {
				matchNextLen = matchNext.Ref.Len()
			}
			if rle > best.Len() && rle > matchNextLen {
				matchNext = MatchResult{Kind: MatchSuccess, Ref: NewReferenceToken(rle, 1, false)}
			}
		}

		if matchNext.Kind == MatchSuccess && matchNext.Ref.Len() > best.Len() {
			next := matchNext.Ref
			if tp.params.ZlibCompatible {
				tp.pending = &next
			}
			return LiteralToken(byteAt(st.Input(), 0))
		}
	}

	return ReferenceTok(best)
}

// commitToken advances hash-chain state past the real token, independent of
// what was predicted: the chain must always reflect the actual plaintext
// consumed.
func (tp *TokenPredictor) commitToken(actual Token) {
	st := tp.state
	if actual.IsLiteral() {
		st.UpdateHash(1)
		return
	}
	// max_lazy is reused by the fast compressor to mean that a match larger
	// than this size isn't worth adding to the dictionary.
	length := actual.Ref.Len()
	if tp.params.IsFastCompressor && length > tp.params.MaxLazy {
		st.SkipHash(length)
	} else {
		st.UpdateHash(length)
	}
}

// PredictBlockTokens reconciles actual (the block's real tokens) against
// this predictor's own guesses, writing mispredictions/corrections to enc.
// blockIndex is only used to attribute a returned error to its block.
func (tp *TokenPredictor) PredictBlockTokens(enc PredictionEncoder, actual []Token, blockIndex int) error {
	tp.pending = nil
	for i, tok := range actual {
		predicted := tp.predictToken()
		if err := tp.encodeTokenDiff(enc, predicted, tok); err != nil {
			return wrapTokenErr(blockIndex, i, err)
		}
		tp.commitToken(tok)
	}
	return nil
}

// RecreateBlockTokens decodes tokenCount tokens from dec by running the same
// predictions and applying the transmitted corrections. blockIndex is only
// used to attribute a returned error to its block.
func (tp *TokenPredictor) RecreateBlockTokens(dec PredictionDecoder, tokenCount int, blockIndex int) ([]Token, error) {
	tp.pending = nil
	tokens := make([]Token, 0, tokenCount)
	for i := 0; i < tokenCount; i++ {
		predicted := tp.predictToken()
		tok, err := tp.recreateTokenDiff(dec, predicted)
		if err != nil {
			return nil, wrapTokenErr(blockIndex, i, err)
		}
		tokens = append(tokens, tok)
		tp.commitToken(tok)
	}
	return tokens, nil
}

// encodeTokenDiff reconciles one predicted/actual token pair. Distance is
// never transmitted as a raw value: it is re-derived as a hop count on the
// hash chain (CalculateHops), since the real match is overwhelmingly likely
// to be one of the first few nodes visited from the current position. This
// must run before commitToken advances the chain past the token.
func (tp *TokenPredictor) encodeTokenDiff(enc PredictionEncoder, predicted, actual Token) error {
	predictedIsRef := predicted.IsReference()
	actualIsRef := actual.IsReference()

	if predictedIsRef {
		enc.EncodeMisprediction(MispredReferencePredictionWrong, !actualIsRef)
	} else {
		enc.EncodeMisprediction(MispredLiteralPredictionWrong, actualIsRef)
	}

	if !actualIsRef {
		return nil
	}

	predictedLen := uint32(0)
	if predictedIsRef {
		predictedLen = predicted.Ref.Len()
	}
	enc.EncodeCorrection(CorrLenCorrection, EncodeDifference(predictedLen, actual.Ref.Len()))

	hops, err := tp.state.CalculateHops(actual.Ref)
	if err != nil {
		return err
	}
	if predictedIsRef && predictedLen == actual.Ref.Len() {
		enc.EncodeCorrection(CorrDistOnlyCorrection, EncodeDifference(1, hops))
	} else {
		enc.EncodeCorrection(CorrDistAfterLenCorrection, EncodeDifference(1, hops))
	}

	if tp.params.ZlibCompatible {
		enc.EncodeMisprediction(MispredIrregularLen258, actual.Ref.Irregular258())
	}
	return nil
}

// recreateTokenDiff is the decode-side mirror of encodeTokenDiff.
func (tp *TokenPredictor) recreateTokenDiff(dec PredictionDecoder, predicted Token) (Token, error) {
	predictedIsRef := predicted.IsReference()

	var actualIsRef bool
	if predictedIsRef {
		actualIsRef = !dec.DecodeMisprediction(MispredReferencePredictionWrong)
	} else {
		actualIsRef = dec.DecodeMisprediction(MispredLiteralPredictionWrong)
	}

	if !actualIsRef {
		return LiteralToken(byteAt(tp.state.Input(), 0)), nil
	}

	predictedLen := uint32(0)
	if predictedIsRef {
		predictedLen = predicted.Ref.Len()
	}
	lenDiff := dec.DecodeCorrection(CorrLenCorrection)
	length := DecodeDifference(predictedLen, lenDiff)

	var hops uint32
	if predictedIsRef && predictedLen == length {
		hops = DecodeDifference(1, dec.DecodeCorrection(CorrDistOnlyCorrection))
	} else {
		hops = DecodeDifference(1, dec.DecodeCorrection(CorrDistAfterLenCorrection))
	}

	dist, err := tp.state.HopMatch(length, hops)
	if err != nil {
		return Token{}, err
	}

	irregular258 := false
	if tp.params.ZlibCompatible {
		irregular258 = dec.DecodeMisprediction(MispredIrregularLen258)
	}
	return ReferenceTok(NewReferenceToken(length, dist, irregular258)), nil
}
