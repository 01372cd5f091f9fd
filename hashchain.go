package preflate

// HashChain is a rolling 3-byte-hash match finder: head[hash] holds the most
// recent input position whose 3-byte prefix hashed to that bucket, and
// prev[pos] holds the position inserted into the same bucket immediately
// before it, so walking head then repeatedly following prev visits every
// earlier occurrence of that 3-byte prefix newest-first. Positions are
// stored as absolute input positions; -1 (chainNone) means "no entry".
//
// Grounded on the teacher's sliding-window dictionary (head2/head3 hash
// tables plus position-indexed prev chains, no pointers, struct-of-arrays),
// generalized from LZO's 2/3-byte dual hash to DEFLATE's single 3-byte hash.
type HashChain struct {
	shift uint32
	mask  uint32

	head []int32 // size 1<<hashBits; -1 = empty, else absolute position
	prev []int32 // size window size; -1 = no earlier entry, else absolute position

	windowMask  uint32
	runningHash uint32
}

func newHashChain(hashBits, hashShift uint8, hashMask uint32, windowBits uint8) *HashChain {
	hashSize := uint32(1) << hashBits
	windowSize := uint32(1) << windowBits

	h := &HashChain{
		shift:      uint32(hashShift),
		mask:       hashMask,
		head:       make([]int32, hashSize),
		prev:       make([]int32, windowSize),
		windowMask: windowSize - 1,
	}
	for i := range h.head {
		h.head[i] = -1
	}
	for i := range h.prev {
		h.prev[i] = -1
	}
	return h
}

func (h *HashChain) foldByte(cur uint32, b byte) uint32 {
	return ((cur << h.shift) ^ uint32(b)) & h.mask
}

// UpdateRunningHash folds one plaintext byte into the rolling hash state,
// used once per of the first two bytes of a blob to prime the chain before
// any position can be hashed (a 3-byte hash needs 2 bytes of lookahead).
func (h *HashChain) UpdateRunningHash(b byte) {
	h.runningHash = h.foldByte(h.runningHash, b)
}

// curHashAt peeks the hash that would be assigned to the position currently
// under input's cursor, without mutating chain state.
func (h *HashChain) curHashAt(input *Input) uint32 {
	return h.foldByte(h.runningHash, byteAt(input, 2))
}

// curPlus1HashAt peeks the hash for the position one past input's cursor.
func (h *HashChain) curPlus1HashAt(input *Input) uint32 {
	h1 := h.foldByte(h.runningHash, byteAt(input, 2))
	return h.foldByte(h1, byteAt(input, 3))
}

func (h *HashChain) insert(hashVal uint32, pos uint32) {
	h.prev[pos&h.windowMask] = h.head[hashVal]
	h.head[hashVal] = int32(pos)
}

// UpdateHash inserts every position in [input.Pos(), input.Pos()+length)
// into the chain, advancing the rolling hash state one byte at a time. It
// does not move input's cursor; the caller advances it afterward.
func (h *HashChain) UpdateHash(input *Input, length uint32) {
	basePos := input.Pos()
	for i := uint32(0); i < length; i++ {
		b := byteAt(input, int32(i)+2)
		h.runningHash = h.foldByte(h.runningHash, b)
		h.insert(h.runningHash, basePos+i)
	}
}

// SkipHash advances the rolling hash state over length positions without
// inserting any of them into the chain: used for the match bytes a fast
// compressor's parser would not have bothered re-hashing.
func (h *HashChain) SkipHash(input *Input, length uint32) {
	for i := uint32(0); i < length; i++ {
		b := byteAt(input, int32(i)+2)
		h.runningHash = h.foldByte(h.runningHash, b)
	}
}

// GetHead returns the raw head-table entry for hashVal (chainNone if empty),
// used by the compression-level estimator to read chain state without
// walking it.
func (h *HashChain) GetHead(hashVal uint32) int32 {
	return h.head[hashVal]
}

const chainNone = -1

// ChainIterator walks a HashChain bucket from newest to oldest position.
type ChainIterator struct {
	chain    *HashChain
	startPos uint32
	maxDist  uint32
	curPos   int32
}

// IterateFromHead starts a walk at hashVal's most recent entry. The first
// entry is not filtered by maxDist (callers that need to bound it check
// Dist() themselves); every subsequent Next() call is.
func (h *HashChain) IterateFromHead(hashVal uint32, startPos uint32, maxDist uint32) *ChainIterator {
	return &ChainIterator{chain: h, startPos: startPos, maxDist: maxDist, curPos: h.head[hashVal]}
}

// Valid reports whether the iterator currently sits on a real chain node.
func (it *ChainIterator) Valid() bool { return it.curPos != chainNone }

// Dist returns the distance from startPos to the current node, or a value
// guaranteed to exceed any real window distance when the iterator is
// invalid (an empty chain reads as "arbitrarily far away", which callers
// that check distance-vs-bound naturally treat as no match found).
func (it *ChainIterator) Dist() uint32 {
	if it.curPos == chainNone {
		return 0xffffffff
	}
	return it.startPos - uint32(it.curPos)
}

// Next advances to the next older node, returning false when the chain is
// exhausted or the next node's distance would exceed maxDist.
func (it *ChainIterator) Next() bool {
	if it.curPos == chainNone {
		return false
	}
	p := it.chain.prev[uint32(it.curPos)&it.chain.windowMask]
	if p == chainNone {
		it.curPos = chainNone
		return false
	}
	dist := it.startPos - uint32(p)
	if dist > it.maxDist {
		it.curPos = chainNone
		return false
	}
	it.curPos = p
	return true
}
