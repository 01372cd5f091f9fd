package preflate

import "fmt"

// MatchResultKind tags the outcome of PredictorState.MatchToken. Only
// MatchSuccess carries a usable reference; every other kind means "no match
// was found at this position", for one of several distinguishable reasons
// that the caller (TokenPredictor) may log or count but otherwise treats
// identically: fall back to predicting a literal.
type MatchResultKind uint8

const (
	MatchSuccess MatchResultKind = iota
	MatchDistanceLargerThanHop0
	MatchNoInput
	MatchNoMoreMatchesFound
	MatchMaxChainExceeded
)

// MatchResult is the tagged-union outcome of a hash-chain match search.
type MatchResult struct {
	Kind MatchResultKind

	Ref ReferenceToken // MatchSuccess

	Dist        uint32 // MatchDistanceLargerThanHop0
	MaxDistHop0 uint32 // MatchDistanceLargerThanHop0

	StartLen uint32 // MatchNoMoreMatchesFound: length of the last failed compare
	LastDist uint32 // MatchNoMoreMatchesFound: distance of the last node visited
}

// PredictorState couples an Input cursor with its HashChain and the
// Parameters governing how a search through that chain is bounded:
// everything the token predictor needs to ask "what would the encoder have
// matched here".
type PredictorState struct {
	hash        *HashChain
	input       *Input
	params      Parameters
	windowBytes uint32
}

// NewPredictorState builds prediction state for the given blob and
// parameters.
func NewPredictorState(plaintext []byte, params Parameters) *PredictorState {
	return &PredictorState{
		hash:        newHashChain(params.HashBits, params.HashShift, params.HashMask, params.WindowBits),
		input:       NewInput(plaintext),
		params:      params,
		windowBytes: uint32(1) << params.WindowBits,
	}
}

func (p *PredictorState) Input() *Input { return p.input }
func (p *PredictorState) Hash() *HashChain { return p.hash }
func (p *PredictorState) Params() Parameters { return p.params }
func (p *PredictorState) WindowSize() uint32 { return p.windowBytes }

func (p *PredictorState) UpdateRunningHash(b byte) { p.hash.UpdateRunningHash(b) }

// UpdateHash hashes and inserts length positions starting at the current
// cursor, then advances the cursor.
func (p *PredictorState) UpdateHash(length uint32) {
	p.hash.UpdateHash(p.input, length)
	p.input.Advance(length)
}

// SkipHash advances the cursor by length without inserting those positions
// into the chain.
func (p *PredictorState) SkipHash(length uint32) {
	p.hash.SkipHash(p.input, length)
	p.input.Advance(length)
}

func (p *PredictorState) CurrentInputPos() uint32 { return p.input.Pos() }
func (p *PredictorState) AvailableInputSize() uint32 { return p.input.Remaining() }
func (p *PredictorState) InputCursor() []byte { return p.input.CurChars(0) }
func (p *PredictorState) CalculateHash() uint32     { return p.hash.curHashAt(p.input) }
func (p *PredictorState) CalculateHashNext() uint32 { return p.hash.curPlus1HashAt(p.input) }

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// prefixCompare returns the length of the common prefix of s1 and s2, up to
// maxLen, or 0 if either the byte at bestLen or any of the first three bytes
// differ: those are the two quick-reject checks a real matcher performs
// before paying for a full byte-by-byte scan, since a candidate shorter than
// the current best is never worth returning.
func prefixCompare(s1, s2 []byte, bestLen, maxLen uint32) uint32 {
	if bestLen >= uint32(len(s1)) || bestLen >= uint32(len(s2)) || s1[bestLen] != s2[bestLen] {
		return 0
	}
	if s1[0] != s2[0] || s1[1] != s2[1] || s1[2] != s2[2] {
		return 0
	}
	matchLen := uint32(3)
	for i := uint32(3); i < maxLen; i++ {
		if s1[i] != s2[i] {
			break
		}
		matchLen = i + 1
	}
	return matchLen
}

// MatchToken searches the hash chain for the best match at the current
// cursor position plus offset, no shorter than prevLen+1 (the caller already
// has a match of length prevLen; a new one is only worth taking if it
// beats it). maxDepth, if non-zero, overrides the parameter-derived chain
// depth bound and nice length (predictToken passes a depth derived from
// Log2OfMaxChainDepthM1 when the parameters are not zlib-compatible).
func (p *PredictorState) MatchToken(hash uint32, prevLen, offset, maxDepth uint32) MatchResult {
	startPos := p.CurrentInputPos() + offset
	maxLen := minU32(p.input.Size()-startPos, MaxMatch)
	if maxLen < maxU32(prevLen+1, MinMatch) {
		return MatchResult{Kind: MatchNoInput}
	}

	maxDistToStart := startPos
	if !p.params.MatchesToStartDetected {
		maxDistToStart--
	}

	var curMaxDistHop0, curMaxDistHop1Plus uint32
	if p.params.VeryFarMatchesDetected {
		curMaxDistHop0 = minU32(maxDistToStart, p.WindowSize())
		curMaxDistHop1Plus = curMaxDistHop0
	} else {
		maxDist := p.WindowSize() - MinLookahead
		curMaxDistHop0 = minU32(maxDistToStart, maxDist)
		curMaxDistHop1Plus = minU32(maxDistToStart, maxDist-1)
	}

	var maxChain, niceLen uint32
	if maxDepth > 0 {
		maxChain = maxDepth
		niceLen = maxLen
	} else {
		maxChain = p.params.MaxChain
		niceLen = minU32(p.params.NiceLength, maxLen)
		if prevLen >= p.params.GoodLength {
			maxChain >>= 2
		}
	}

	chainIt := p.hash.IterateFromHead(hash, startPos, curMaxDistHop1Plus)
	if chainIt.Dist() > curMaxDistHop0 {
		return MatchResult{Kind: MatchDistanceLargerThanHop0, Dist: chainIt.Dist(), MaxDistHop0: curMaxDistHop0}
	}

	bestLen := prevLen
	var bestMatch *ReferenceToken
	cur := p.input.CurChars(int32(offset))
	var matchLength uint32
	var lastDist uint32

	for {
		dist := chainIt.Dist()
		lastDist = dist
		matchStart := p.input.CurChars(int32(offset) - int32(dist))
		matchLength = prefixCompare(matchStart, cur, bestLen, maxLen)
		if matchLength > bestLen {
			r := NewReferenceToken(matchLength, dist, false)
			if matchLength >= niceLen {
				return MatchResult{Kind: MatchSuccess, Ref: r}
			}
			bestLen = matchLength
			bestMatch = &r
		}

		if !chainIt.Next() {
			if bestMatch != nil {
				return MatchResult{Kind: MatchSuccess, Ref: *bestMatch}
			}
			return MatchResult{Kind: MatchNoMoreMatchesFound, StartLen: matchLength, LastDist: lastDist}
		}

		maxChain--
		if maxChain == 0 {
			if bestMatch != nil {
				return MatchResult{Kind: MatchSuccess, Ref: *bestMatch}
			}
			return MatchResult{Kind: MatchMaxChainExceeded}
		}
	}
}

// CalculateHops walks the hash chain for the current position up to the node
// at target's exact distance and returns how many of the nodes visited,
// that node included, match at least target's length (so the first such
// node counts as 1, as HopMatch expects). Used to re-derive the hop count a predicted-wrong reference needs so
// the codec can transmit a correction in "hops" rather than raw distance
// bits.
//
// bestLen-1 (not bestLen) is passed to prefixCompare deliberately: this
// mirrors an asymmetry present in the original reference implementation
// (see DESIGN.md Open Question), preserved rather than "fixed", since
// correctness here depends only on reproducing the same hop count the
// original encoder's search would have reached, not on finding the
// longest match.
func (p *PredictorState) CalculateHops(target ReferenceToken) (uint32, error) {
	hash := p.hash.curHashAt(p.input)
	maxLen := minU32(p.AvailableInputSize(), MaxMatch)
	if maxLen < target.Len() {
		return 0, fmt.Errorf("calculate_hops: max_len %d < target length %d", maxLen, target.Len())
	}

	curPos := p.CurrentInputPos()
	curMaxDist := minU32(curPos, p.WindowSize())

	chainIt := p.hash.IterateFromHead(hash, curPos, curMaxDist)
	if !chainIt.Valid() {
		return 0, fmt.Errorf("%w", ErrTargetDistanceNotOnChain)
	}

	bestLen := target.Len()
	hops := uint32(0)
	cur := p.input.CurChars(0)

	for {
		dist := chainIt.Dist()
		matchStart := p.input.CurChars(-int32(dist))
		matchLength := prefixCompare(matchStart, cur, bestLen-1, bestLen)
		if matchLength >= bestLen {
			hops++
		}
		if dist >= target.Dist() {
			if dist == target.Dist() {
				return hops, nil
			}
			break
		}
		if !chainIt.Next() {
			break
		}
	}
	return 0, fmt.Errorf("%w", ErrTargetDistanceNotOnChain)
}

// HopMatch walks the hash chain for the current position and returns the
// distance of the hops-th node (1-based) whose match length reaches at
// least length. Used to re-derive a reference's distance from a transmitted
// length and hop count.
func (p *PredictorState) HopMatch(length, hops uint32) (uint32, error) {
	maxLen := minU32(p.AvailableInputSize(), MaxMatch)
	if maxLen < length {
		return 0, fmt.Errorf("hop_match: not enough input left to match length %d", length)
	}

	curPos := p.CurrentInputPos()
	curMaxDist := minU32(curPos, p.WindowSize())
	hash := p.CalculateHash()

	chainIt := p.hash.IterateFromHead(hash, curPos, curMaxDist)
	if !chainIt.Valid() {
		return 0, fmt.Errorf("%w", ErrNoMoreMatchesFound)
	}

	cur := p.input.CurChars(0)
	currentHop := uint32(0)
	for {
		matchStart := p.input.CurChars(-int32(chainIt.Dist()))
		matchLength := prefixCompare(matchStart, cur, length-1, length)
		if matchLength >= length {
			currentHop++
			if currentHop == hops {
				return chainIt.Dist(), nil
			}
		}
		if !chainIt.Next() {
			return 0, fmt.Errorf("%w", ErrNoMoreMatchesFound)
		}
	}
}
