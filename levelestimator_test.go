package preflate

import (
	"strings"
	"testing"
)

func TestEstimateParametersRecommendsUsableLevel(t *testing.T) {
	plaintext := []byte(strings.Repeat("abcabcabcabc", 60) + "the quick brown fox jumps over the lazy dog")

	for _, level := range []int{1, 3, 6, 9} {
		params := DefaultParameters(level, true)
		tokens := generateTokens(plaintext, params)

		block := NewBlock(BlockStaticHuff)
		block.Tokens = tokens
		block.Final = true

		got, err := EstimateParameters(plaintext, []*Block{block}, params.WindowBits)
		if err != nil {
			t.Fatalf("level %d: EstimateParameters: %v", level, err)
		}
		if got.MaxChain == 0 || got.NiceLength == 0 {
			t.Fatalf("level %d: recommended parameters look uninitialized: %+v", level, got)
		}
	}
}

func TestLevelEstimatorInfoTracksUnfoundReferencesForImpossibleDistance(t *testing.T) {
	plaintext := []byte(strings.Repeat("x", 200))
	le := NewLevelEstimator(plaintext, 15)

	block := NewBlock(BlockStaticHuff)
	// A distance far beyond anything reachable this early in the stream:
	// checkMatch must count it as unfound rather than panic or hang.
	block.AddReference(3, 100000, false)
	block.Final = true

	le.CheckBlock(block)
	if le.Info().UnfoundReferences == 0 {
		t.Fatalf("expected an out-of-window reference to be counted as unfound")
	}
}
