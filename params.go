package preflate

import "math/bits"

// defaultMaxDist3Matches is the distance beyond which a length-3 match is
// rejected as not worth its distance bits (predictToken). It mirrors the
// threshold LevelEstimator already uses to flag a blob as having far
// length-3 matches; Recommend raises it to the blob's own observed distance
// when that flag is set, so classification stays consistent with what was
// actually seen.
const defaultMaxDist3Matches = 4096

// Parameters fully describes the configuration a DEFLATE encoder is assumed
// to have run with while producing one blob: the hash-chain geometry and the
// lazy-matching heuristics that decide what a "correct" prediction looks
// like at every token. LevelEstimator derives one of these per blob;
// EncodeBlob/DecodeBlob take it as an explicit input so a caller who already
// knows the level (e.g. a stored archive entry) can skip estimation.
type Parameters struct {
	WindowBits uint8 // log2 of the sliding window size, 8..15
	HashBits   uint8 // log2 of the hash table size, 9..15

	// HashShift and HashMask are derived from HashBits (see
	// DeriveHashParams) but kept as explicit fields so Parameters is a
	// self-contained description independent of how it was produced.
	HashShift uint8
	HashMask  uint32

	MaxTokenCount uint32 // per-block token buffer size before a forced flush

	// ZlibCompatible selects zlib's search behaviour in predictToken: the
	// lazy-match lookahead's result is reused for the next token, and
	// MatchToken uses MaxChain/NiceLength instead of a depth derived from
	// Log2OfMaxChainDepthM1. It also enables the per-token
	// irregular-258 misprediction bit (Token.Irregular258).
	ZlibCompatible bool

	// MatchesToStartDetected and VeryFarMatchesDetected record properties
	// of the observed match distances that change how match_token bounds
	// its search (see PredictorState.MatchToken).
	MatchesToStartDetected   bool
	VeryFarMatchesDetected   bool
	IsFastCompressor         bool

	GoodLength            uint32
	NiceLength             uint32
	MaxLazy                uint32
	MaxChain               uint32
	MaxDist3Matches        uint32
	Log2OfMaxChainDepthM1  uint32

	HuffTreeAlgorithm HufftreeAlgorithm
}

// ParserConfig is one row of the per-level lazy-match tuning table: the
// values zlib's deflate.c configuration_table assigns to good_length,
// max_lazy_match, nice_length, and max_chain_length for a given compression
// level. Levels 1-3 are the "fast" configurations (no lazy matching; the
// positions of a match longer than MaxLazy are not inserted into the hash
// chain); levels 4-9 are the "slow" lazy-matching configurations.
type ParserConfig struct {
	GoodLength uint32
	MaxLazy    uint32
	NiceLength uint32
	MaxChain   uint32
}

// FastParserSettings holds the three fast-compressor configurations
// (levels 1-3), ported from zlib's configuration_table rows 1-3.
var FastParserSettings = [3]ParserConfig{
	{GoodLength: 4, MaxLazy: 4, NiceLength: 8, MaxChain: 4},
	{GoodLength: 4, MaxLazy: 5, NiceLength: 16, MaxChain: 8},
	{GoodLength: 4, MaxLazy: 6, NiceLength: 32, MaxChain: 32},
}

// SlowParserSettings holds the six lazy-matching configurations
// (levels 4-9), ported from zlib's configuration_table rows 4-9.
var SlowParserSettings = [6]ParserConfig{
	{GoodLength: 4, MaxLazy: 4, NiceLength: 16, MaxChain: 16},
	{GoodLength: 8, MaxLazy: 16, NiceLength: 32, MaxChain: 32},
	{GoodLength: 8, MaxLazy: 16, NiceLength: 128, MaxChain: 128},
	{GoodLength: 8, MaxLazy: 32, NiceLength: 128, MaxChain: 256},
	{GoodLength: 32, MaxLazy: 128, NiceLength: 258, MaxChain: 1024},
	{GoodLength: 32, MaxLazy: 258, NiceLength: 258, MaxChain: 4096},
}

// DeriveHashParams computes HashShift/HashMask for a given HashBits, using
// zlib's own formula (ceil(hashBits/MinMatch) shift, full mask).
func DeriveHashParams(hashBits uint8) (shift uint8, mask uint32) {
	shift = uint8((int(hashBits) + MinMatch - 1) / MinMatch)
	mask = (uint32(1) << hashBits) - 1
	return shift, mask
}

// DefaultParameters returns the Parameters for a given zlib compression
// level (1-9), mirroring zlib's own
// deflateInit2 level-to-configuration mapping. windowBits/hashBits use
// zlib's defaults (32K window, memLevel 8).
func DefaultParameters(level int, zlibCompatible bool) Parameters {
	const defaultWindowBits = 15
	const defaultHashBits = 15

	shift, mask := DeriveHashParams(defaultHashBits)
	p := Parameters{
		WindowBits:     defaultWindowBits,
		HashBits:       defaultHashBits,
		HashShift:      shift,
		HashMask:       mask,
		MaxTokenCount:  16384,
		ZlibCompatible: zlibCompatible,
		HuffTreeAlgorithm: HufftreeZlib,
	}

	switch {
	case level >= 1 && level <= 3:
		cfg := FastParserSettings[level-1]
		p.IsFastCompressor = true
		p.GoodLength = cfg.GoodLength
		p.MaxLazy = cfg.MaxLazy
		p.NiceLength = cfg.NiceLength
		p.MaxChain = cfg.MaxChain
	case level >= 4 && level <= 9:
		cfg := SlowParserSettings[level-4]
		p.IsFastCompressor = false
		p.GoodLength = cfg.GoodLength
		p.MaxLazy = cfg.MaxLazy
		p.NiceLength = cfg.NiceLength
		p.MaxChain = cfg.MaxChain
	default:
		cfg := SlowParserSettings[len(SlowParserSettings)-1]
		p.IsFastCompressor = false
		p.GoodLength = cfg.GoodLength
		p.MaxLazy = cfg.MaxLazy
		p.NiceLength = cfg.NiceLength
		p.MaxChain = cfg.MaxChain
	}

	p.MaxDist3Matches = defaultMaxDist3Matches
	if p.MaxChain > 0 {
		p.Log2OfMaxChainDepthM1 = uint32(bits.Len32(p.MaxChain)) - 1
	}
	return p
}
