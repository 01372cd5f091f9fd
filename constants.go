package preflate

// RFC 1951 constants the prediction engine is built around.
const (
	MinMatch     = 3
	MaxMatch     = 258
	MinLookahead = 262

	// NonlenCodeCount is the number of literal/length alphabet symbols that are
	// not length codes: 256 literal byte values plus the end-of-block marker.
	NonlenCodeCount = 257

	// CodetreeCodeCount is the size of the meta-alphabet used to transmit the
	// literal/distance bit-length table itself.
	CodetreeCodeCount = 19
)

// TreeCodeOrderTable is the fixed permutation RFC 1951 uses when transmitting
// the 19-symbol code-length alphabet's bit lengths, chosen so that the
// rarely-used codes land at the tail where trailing zeros can be dropped.
var TreeCodeOrderTable = [CodetreeCodeCount]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}
