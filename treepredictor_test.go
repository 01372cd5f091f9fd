package preflate

import "testing"

func sampleTokenFrequency() TokenFrequency {
	var f TokenFrequency
	for i := 0; i < 50; i++ {
		f.AddLiteral(byte('a' + i%17))
	}
	f.AddReference(NewReferenceToken(10, 4, false))
	f.AddReference(NewReferenceToken(130, 3000, false))
	f.AddReference(NewReferenceToken(258, 1, false))
	return f
}

func TestTreePredictorRoundtrip(t *testing.T) {
	freq := sampleTokenFrequency()
	params := DefaultParameters(6, true)
	tp := NewTreePredictor()

	// actual is the predictor's own header with one code-length-code
	// length nudged away from what prediction alone would produce,
	// exercising the misprediction/correction path rather than the
	// always-zero idempotent path.
	actual := predictTreeForBlock(freq, params).header
	actual.CodeLengths[0]++

	enc := &VerifyPredictionEncoder{}
	if err := tp.PredictTree(enc, freq, params, actual); err != nil {
		t.Fatalf("PredictTree: %v", err)
	}

	dec := NewVerifyPredictionDecoder(enc.Actions())
	got := tp.RecreateTree(dec, freq, params)

	if got.NumLiterals != actual.NumLiterals || got.NumDist != actual.NumDist {
		t.Fatalf("count mismatch: got lit=%d dist=%d, want lit=%d dist=%d",
			got.NumLiterals, got.NumDist, actual.NumLiterals, actual.NumDist)
	}
	if got.CodeLengths != actual.CodeLengths {
		t.Fatalf("code lengths mismatch: got %v, want %v", got.CodeLengths, actual.CodeLengths)
	}
	if len(got.Lengths) != len(actual.Lengths) {
		t.Fatalf("lengths entry count mismatch: got %d, want %d", len(got.Lengths), len(actual.Lengths))
	}
	for i := range actual.Lengths {
		if got.Lengths[i] != actual.Lengths[i] {
			t.Fatalf("entry %d mismatch: got %+v, want %+v", i, got.Lengths[i], actual.Lengths[i])
		}
	}
}

func TestTreePredictorPerfectEncodingNeedsNoCorrections(t *testing.T) {
	freq := sampleTokenFrequency()
	params := DefaultParameters(6, true)
	tp := NewTreePredictor()

	// actual built straight from the predictor's own output: a
	// "perfectly predicted" tree should cost zero non-default actions.
	actual := predictTreeForBlock(freq, params).header

	enc := &VerifyPredictionEncoder{}
	if err := tp.PredictTree(enc, freq, params, actual); err != nil {
		t.Fatalf("PredictTree: %v", err)
	}

	if n := enc.CountNondefaultActions(); n != 0 {
		t.Fatalf("expected zero non-default actions for a perfectly predicted tree, got %d", n)
	}
}

func TestRLELengthsRoundtrip(t *testing.T) {
	lengths := []byte{0, 0, 0, 3, 3, 3, 3, 3, 3, 3, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5}
	entries := rleEncodeLengths(lengths)
	got := rleDecodeLengths(entries, len(lengths))
	for i, want := range lengths {
		if got[i] != want {
			t.Fatalf("position %d: got %d, want %d", i, got[i], want)
		}
	}
}
