package preflate

// CompLevelInfo accumulates the diagnostic signal LevelEstimator gathers
// while walking a blob's tokens: which zlib compression levels remain
// consistent with every observed match, plus the distance-distribution
// quirks that pick zlib-compatible parameter defaults.
type CompLevelInfo struct {
	// PossibleCompressionLevels is a bitmask over levels 1-9 (bit i for
	// level i); a level's bit is cleared the first time a match is found
	// that its hash-chain configuration could not have produced.
	PossibleCompressionLevels uint32

	MatchesToStartDetected bool
	VeryFarMatchesDetected bool
	FarLen3MatchesDetected bool

	UnfoundReferences int
	LongestLen3Dist   uint32
}

// LevelEstimator replays a blob's tokens through four parallel hash chains
// (one per fast level 1-3, one shared "slow" chain standing in for levels
// 4-9) and, for each reference token, measures how many hops deep in each
// chain the real match distance sits. A level stays "possible" only as long
// as every match seen so far is within that level's max_chain depth bound.
//
// Grounded on the teacher's hash-chain match finder (sliding_window.go),
// generalized to run several independently configured chains over the same
// input so a single pass can test every candidate level at once, rather
// than re-parsing the blob once per level.
type LevelEstimator struct {
	input      *Input
	slow       *HashChain
	fast       [3]*HashChain
	windowBits uint8
	windowSize uint32
	info       CompLevelInfo
}

// NewLevelEstimator starts a fresh estimation pass over plaintext.
func NewLevelEstimator(plaintext []byte, windowBits uint8) *LevelEstimator {
	const hashBits = 15
	shift, mask := DeriveHashParams(hashBits)

	le := &LevelEstimator{
		input:      NewInput(plaintext),
		slow:       newHashChain(hashBits, shift, mask, windowBits),
		windowBits: windowBits,
		windowSize: uint32(1) << windowBits,
	}
	for i := range le.fast {
		le.fast[i] = newHashChain(hashBits, shift, mask, windowBits)
	}
	le.info.PossibleCompressionLevels = 0x3FE // bits 1..9 set

	in := le.input
	prime := func(b byte) {
		le.slow.UpdateRunningHash(b)
		for _, f := range le.fast {
			f.UpdateRunningHash(b)
		}
	}
	if in.Size() > 0 {
		prime(byteAt(in, 0))
	}
	if in.Size() > 1 {
		prime(byteAt(in, 1))
	}
	return le
}

// chainHopsToPos walks h's bucket for the current position and returns how
// many hops from the head a node at exactly targetDist is found at.
func chainHopsToPos(h *HashChain, input *Input, targetDist, maxDist uint32) (hops uint32, found bool) {
	if targetDist > maxDist {
		return 0xffff, false
	}
	hashVal := h.curHashAt(input)
	it := h.IterateFromHead(hashVal, input.Pos(), maxDist)
	if !it.Valid() {
		return 0xffff, false
	}
	for {
		d := it.Dist()
		if d == targetDist {
			return hops, true
		}
		if d > targetDist {
			return 0xffff, false
		}
		if !it.Next() {
			return 0xffff, false
		}
		hops++
	}
}

func (le *LevelEstimator) checkMatch(tok ReferenceToken) {
	curPos := le.input.Pos()
	curMaxDist := minU32(curPos, le.windowSize)
	dist := tok.Dist()

	if dist > curMaxDist {
		le.info.UnfoundReferences++
		return
	}
	if curPos > 0 && dist >= curPos {
		le.info.MatchesToStartDetected = true
	}
	if le.windowSize > MinLookahead && dist > le.windowSize-MinLookahead {
		le.info.VeryFarMatchesDetected = true
	}

	for i, cfg := range FastParserSettings {
		hops, found := chainHopsToPos(le.fast[i], le.input, dist, curMaxDist)
		levelBit := uint32(1) << uint(i+1)
		if !found || hops >= cfg.MaxChain {
			le.info.PossibleCompressionLevels &^= levelBit
		}
	}

	slowHops, slowFound := chainHopsToPos(le.slow, le.input, dist, curMaxDist)
	if !slowFound {
		le.info.UnfoundReferences++
	}
	for i, cfg := range SlowParserSettings {
		levelBit := uint32(1) << uint(i+4)
		maxChain := cfg.MaxChain
		if tok.Len() >= cfg.GoodLength {
			maxChain >>= 2
		}
		if !slowFound || slowHops >= maxChain {
			le.info.PossibleCompressionLevels &^= levelBit
		}
	}

	if tok.Len() == MinMatch && dist > 4096 {
		le.info.FarLen3MatchesDetected = true
		if dist > le.info.LongestLen3Dist {
			le.info.LongestLen3Dist = dist
		}
	}
}

func (le *LevelEstimator) advanceAll(length uint32) {
	le.slow.UpdateHash(le.input, length)
	for i, f := range le.fast {
		// A fast compressor does not insert the positions covered by a
		// match longer than its MaxLazy setting (see commitToken).
		if length > FastParserSettings[i].MaxLazy {
			f.SkipHash(le.input, length)
		} else {
			f.UpdateHash(le.input, length)
		}
	}
	le.input.Advance(length)
}

// CheckBlock replays one block's tokens, updating the running diagnostics.
func (le *LevelEstimator) CheckBlock(block *Block) {
	for _, t := range block.Tokens {
		if t.IsReference() {
			le.checkMatch(t.Ref)
			le.advanceAll(t.Ref.Len())
		} else {
			le.advanceAll(1)
		}
	}
}

// Info returns the diagnostics accumulated so far.
func (le *LevelEstimator) Info() CompLevelInfo { return le.info }

// Recommend derives a concrete Parameters from the diagnostics accumulated
// across every block checked so far: the lowest level still consistent
// with every match observed, zlib-compatibility inferred from whether any
// suspiciously distant length-3 match was seen (real zlib's near-window
// distance heuristic rarely emits those), and the match-distance quirks
// recorded along the way.
func (le *LevelEstimator) Recommend() (Parameters, error) {
	mask := le.info.PossibleCompressionLevels
	if mask == 0 {
		return Parameters{}, ErrCompressionLevelUndetermined
	}

	level := 9
	for l := 1; l <= 9; l++ {
		if mask&(uint32(1)<<uint(l)) != 0 {
			level = l
			break
		}
	}

	params := DefaultParameters(level, !le.info.FarLen3MatchesDetected)
	params.WindowBits = le.windowBits
	params.MatchesToStartDetected = le.info.MatchesToStartDetected
	params.VeryFarMatchesDetected = le.info.VeryFarMatchesDetected
	if le.info.FarLen3MatchesDetected && le.info.LongestLen3Dist > params.MaxDist3Matches {
		params.MaxDist3Matches = le.info.LongestLen3Dist
	}
	return params, nil
}

// EstimateParameters runs a full LevelEstimator pass over every block in
// blocks and returns the recommended Parameters, the single entry point
// EncodeBlob uses before it can run the token/tree predictors.
func EstimateParameters(plaintext []byte, blocks []*Block, windowBits uint8) (Parameters, error) {
	le := NewLevelEstimator(plaintext, windowBits)
	for _, b := range blocks {
		le.CheckBlock(b)
	}
	return le.Recommend()
}
