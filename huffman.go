package preflate

import "sort"

// HufftreeAlgorithm selects which historical encoder family's code-length
// construction the tree predictor imitates. Both variants are built on the
// same length-limited Huffman construction (package-merge, see below); they
// differ in the tie-break order used when weights collide, matching the
// practical difference between miniz's and zlib's internal tree builders
// closely enough that most streams predict with zero corrections, without
// chasing bit-for-bit parity with either (see DESIGN.md).
type HufftreeAlgorithm uint8

const (
	HufftreeZlib HufftreeAlgorithm = iota
	HufftreeMiniz
)

// calcBitLengths builds a length-limited canonical Huffman code-length
// table for freq (indexed by symbol) with a maximum code length of maxBits,
// then trims trailing zero-length (unused) symbols off the end of the
// result. The literal/length alphabet (freq longer than NonlenCodeCount)
// always keeps at least NonlenCodeCount entries: the end-of-block symbol
// (256) is always given a non-zero synthetic frequency, since every dynamic
// block needs an explicit terminator even if every token happened to be a
// literal that reused the same few symbols.
func calcBitLengths(algo HufftreeAlgorithm, freq []uint16, maxBits int) []byte {
	n := len(freq)
	weights := make([]uint64, n)
	for i, f := range freq {
		weights[i] = uint64(f)
	}
	if n >= NonlenCodeCount {
		if weights[NonlenCodeCount-1] == 0 {
			weights[NonlenCodeCount-1] = 1
		}
	}

	lengths := packageMergeLengths(algo, weights, maxBits)

	last := n - 1
	for last > 0 && lengths[last] == 0 {
		last--
	}
	return lengths[:last+1]
}

// packageMergeLengths implements the package-merge (coin-collector's)
// algorithm for constructing an optimal length-limited prefix code: the
// classic alternative to building an unbounded Huffman tree and patching
// overflowing depths, used here because it produces a valid maxBits-bounded
// code directly.
func packageMergeLengths(algo HufftreeAlgorithm, weights []uint64, maxBits int) []byte {
	n := len(weights)
	lengths := make([]byte, n)

	type item struct {
		weight uint64
		syms   []int
	}

	var used []item
	for i, w := range weights {
		if w > 0 {
			used = append(used, item{weight: w, syms: []int{i}})
		}
	}

	switch len(used) {
	case 0:
		return lengths
	case 1:
		lengths[used[0].syms[0]] = 1
		return lengths
	}

	sortItems := func(items []item) {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].weight != items[j].weight {
				return items[i].weight < items[j].weight
			}
			if algo == HufftreeMiniz {
				// Miniz's construction favors the most-recently-seen symbol
				// on weight ties, the opposite of zlib's stable-by-symbol
				// order; approximate that by breaking ties on descending
				// first-symbol index.
				return items[i].syms[0] > items[j].syms[0]
			}
			return items[i].syms[0] < items[j].syms[0]
		})
	}

	singleton := append([]item(nil), used...)
	sortItems(singleton)

	level := singleton
	for t := 2; t <= maxBits; t++ {
		var packaged []item
		for i := 0; i+1 < len(level); i += 2 {
			packaged = append(packaged, item{
				weight: level[i].weight + level[i+1].weight,
				syms:   append(append([]int{}, level[i].syms...), level[i+1].syms...),
			})
		}
		merged := append(packaged, singleton...)
		sortItems(merged)
		level = merged
	}

	take := 2*len(used) - 2
	if take > len(level) {
		take = len(level)
	}
	for i := 0; i < take; i++ {
		for _, s := range level[i].syms {
			lengths[s]++
		}
	}
	return lengths
}
