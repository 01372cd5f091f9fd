package preflate

import (
	"strings"
	"testing"
)

// generateTokens drives a fresh TokenPredictor's own prediction loop to
// produce a deterministic token stream for plaintext, the same way a real
// encoder's hash-chain search would. Used as "actual" tokens in round-trip
// tests so results don't depend on hand-authoring a valid LZ77 parse.
func generateTokens(plaintext []byte, params Parameters) []Token {
	tp := NewTokenPredictor(plaintext, params)
	var tokens []Token
	for tp.State().CurrentInputPos() < uint32(len(plaintext)) {
		tok := tp.predictToken()
		tp.commitToken(tok)
		tokens = append(tokens, tok)
	}
	return tokens
}

func TestTokenPredictorRoundtrip(t *testing.T) {
	plaintext := []byte(strings.Repeat("abcabcabcabc", 40) + "the quick brown fox jumps")
	params := DefaultParameters(6, true)

	actual := generateTokens(plaintext, params)

	tp := NewTokenPredictor(plaintext, params)
	enc := &VerifyPredictionEncoder{}
	if err := tp.PredictBlockTokens(enc, actual, 0); err != nil {
		t.Fatalf("PredictBlockTokens: %v", err)
	}

	dec := NewVerifyPredictionDecoder(enc.Actions())
	tp2 := NewTokenPredictor(plaintext, params)
	got, err := tp2.RecreateBlockTokens(dec, len(actual), 0)
	if err != nil {
		t.Fatalf("RecreateBlockTokens: %v", err)
	}

	if len(got) != len(actual) {
		t.Fatalf("token count mismatch: got %d, want %d", len(got), len(actual))
	}
	for i := range actual {
		if got[i] != actual[i] {
			t.Fatalf("token %d mismatch: got %+v, want %+v", i, got[i], actual[i])
		}
	}
}

func TestTokenPredictorIdempotentOnSelfGeneratedTokens(t *testing.T) {
	plaintext := []byte(strings.Repeat("mississippi river ", 30))
	params := DefaultParameters(6, true)

	actual := generateTokens(plaintext, params)

	tp := NewTokenPredictor(plaintext, params)
	enc := &VerifyPredictionEncoder{}
	if err := tp.PredictBlockTokens(enc, actual, 0); err != nil {
		t.Fatalf("PredictBlockTokens: %v", err)
	}

	if n := enc.CountNondefaultActions(); n != 0 {
		t.Fatalf("want 0 non-default actions against self-generated tokens, got %d", n)
	}
}

func TestTokenPredictorRoundtripAcrossCompressionLevels(t *testing.T) {
	plaintext := []byte(strings.Repeat("abcabcabcabc", 40) + "the quick brown fox jumps")

	for level := 1; level <= 9; level++ {
		params := DefaultParameters(level, true)
		actual := generateTokens(plaintext, params)

		tp := NewTokenPredictor(plaintext, params)
		enc := &VerifyPredictionEncoder{}
		if err := tp.PredictBlockTokens(enc, actual, 0); err != nil {
			t.Fatalf("level %d: PredictBlockTokens: %v", level, err)
		}

		dec := NewVerifyPredictionDecoder(enc.Actions())
		tp2 := NewTokenPredictor(plaintext, params)
		got, err := tp2.RecreateBlockTokens(dec, len(actual), 0)
		if err != nil {
			t.Fatalf("level %d: RecreateBlockTokens: %v", level, err)
		}
		for i := range actual {
			if got[i] != actual[i] {
				t.Fatalf("level %d: token %d mismatch: got %+v, want %+v", level, i, got[i], actual[i])
			}
		}
	}
}
