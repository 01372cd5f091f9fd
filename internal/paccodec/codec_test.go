package paccodec

import (
	"testing"

	"github.com/preflate-go/preflate"
)

func TestRangeCoderBitRoundtrip(t *testing.T) {
	e := newRangeEncoder()
	bits := []bool{true, false, false, true, true, true, false, true, false, false}
	models := make([]*probModel, len(bits))
	for i := range models {
		models[i] = newProbModel()
	}
	for i, b := range bits {
		e.encodeBit(models[i], b)
	}
	data := e.finish()

	d := newRangeDecoder(data)
	decodeModels := make([]*probModel, len(bits))
	for i := range decodeModels {
		decodeModels[i] = newProbModel()
	}
	for i, want := range bits {
		if got := d.decodeBit(decodeModels[i]); got != want {
			t.Fatalf("bit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestRangeCoderU32Roundtrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 255, 256, 65535, 1 << 20, 0xFFFFFFFF}

	e := newRangeEncoder()
	m := newU32Model()
	for _, v := range values {
		e.encodeU32(m, v)
	}
	data := e.finish()

	d := newRangeDecoder(data)
	dm := newU32Model()
	for i, want := range values {
		if got := d.decodeU32(dm); got != want {
			t.Fatalf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestRangeEncoderDecoderImplementCodecSurface(t *testing.T) {
	enc := NewRangeEncoder()
	enc.EncodeMisprediction(preflate.MispredLiteralPredictionWrong, true)
	enc.EncodeMisprediction(preflate.MispredReferencePredictionWrong, false)
	enc.EncodeCorrection(preflate.CorrLenCorrection, 42)
	enc.EncodeValue(0b1011, 4)
	data := enc.Bytes()

	dec := NewRangeDecoder(data)
	if got := dec.DecodeMisprediction(preflate.MispredLiteralPredictionWrong); got != true {
		t.Fatalf("misprediction 1: got %v", got)
	}
	if got := dec.DecodeMisprediction(preflate.MispredReferencePredictionWrong); got != false {
		t.Fatalf("misprediction 2: got %v", got)
	}
	if got := dec.DecodeCorrection(preflate.CorrLenCorrection); got != 42 {
		t.Fatalf("correction: got %d, want 42", got)
	}
	if got := dec.DecodeValue(4); got != 0b1011 {
		t.Fatalf("value: got %b, want 1011", got)
	}
}
