package preflate

import "testing"

func TestEncodeDecodeDifferenceRoundtrip(t *testing.T) {
	cases := []struct{ predicted, target uint32 }{
		{0, 0},
		{5, 5},
		{5, 7},
		{7, 5},
		{0, 1000},
		{1000, 0},
		{1 << 20, (1 << 20) + 3},
	}
	for _, c := range cases {
		code := EncodeDifference(c.predicted, c.target)
		got := DecodeDifference(c.predicted, code)
		if got != c.target {
			t.Errorf("predicted=%d target=%d: roundtrip got %d", c.predicted, c.target, got)
		}
	}
}

func TestEncodeDifferenceZeroMeansExactPrediction(t *testing.T) {
	for _, v := range []uint32{0, 1, 42, 1 << 16} {
		if code := EncodeDifference(v, v); code != 0 {
			t.Errorf("EncodeDifference(%d, %d) = %d, want 0", v, v, code)
		}
	}
}

func TestZigzagRoundtrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 2, -2, 1000, -1000, 1 << 20, -(1 << 20)} {
		code := zigzagEncode32(n)
		got := zigzagDecode32(code)
		if got != n {
			t.Errorf("zigzag roundtrip of %d: got %d", n, got)
		}
	}
}
