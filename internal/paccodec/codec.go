package paccodec

import "github.com/preflate-go/preflate"

// u32Model is the context bank for one CodecCorrection kind: one adaptive
// bit per unary "how many bits does this value need" continuation decision.
// Values are otherwise unbounded uint32s but in practice cluster near zero
// (a correct prediction), so the unary bit-length prefix keeps the common
// case cheap while still being able to reach the full range.
type u32Model struct {
	cont [maxU32Bits + 1]*probModel
}

const maxU32Bits = 32

func newU32Model() *u32Model {
	m := &u32Model{}
	for i := range m.cont {
		m.cont[i] = newProbModel()
	}
	return m
}

func bitLength(v uint32) int {
	n := 0
	for v > 0 {
		v >>= 1
		n++
	}
	return n
}

func (e *rangeEncoder) encodeU32(m *u32Model, v uint32) {
	length := bitLength(v)
	for i := 0; i < length; i++ {
		e.encodeBit(m.cont[i], true)
	}
	e.encodeBit(m.cont[length], false)
	for i := length - 2; i >= 0; i-- {
		e.encodeBypass((v>>uint(i))&1 == 1)
	}
}

func (d *rangeDecoder) decodeU32(m *u32Model) uint32 {
	length := 0
	for d.decodeBit(m.cont[length]) {
		length++
	}
	if length == 0 {
		return 0
	}
	v := uint32(1)
	for i := 0; i < length-1; i++ {
		bit := uint32(0)
		if d.decodeBypass() {
			bit = 1
		}
		v = (v << 1) | bit
	}
	return v
}

const (
	numMispredictions = int(preflate.MispredFinalBlock) + 1
	numCorrections    = int(preflate.CorrNonZeroPaddingCorrection) + 1
)

// RangeEncoder is a preflate.PredictionEncoder backed by an adaptive binary
// range coder: one probability model per CodecMisprediction kind, one
// unary-prefixed u32 model per CodecCorrection kind, and a fixed-probability
// bypass path for EncodeValue's raw, unmodeled bits.
type RangeEncoder struct {
	rc      *rangeEncoder
	mispred [numMispredictions]*probModel
	corr    [numCorrections]*u32Model
}

func NewRangeEncoder() *RangeEncoder {
	e := &RangeEncoder{rc: newRangeEncoder()}
	for i := range e.mispred {
		e.mispred[i] = newProbModel()
	}
	for i := range e.corr {
		e.corr[i] = newU32Model()
	}
	return e
}

func (e *RangeEncoder) EncodeMisprediction(kind preflate.CodecMisprediction, value bool) {
	e.rc.encodeBit(e.mispred[kind], value)
}

func (e *RangeEncoder) EncodeCorrection(kind preflate.CodecCorrection, value uint32) {
	e.rc.encodeU32(e.corr[kind], value)
}

func (e *RangeEncoder) EncodeValue(value uint32, bits uint8) {
	for i := int(bits) - 1; i >= 0; i-- {
		e.rc.encodeBypass((value>>uint(i))&1 == 1)
	}
}

func (e *RangeEncoder) EncodeVerifyState(label string, checksum uint64) {}

// Bytes finalizes the coder and returns the encoded correction stream. The
// encoder must not be used again afterwards.
func (e *RangeEncoder) Bytes() []byte { return e.rc.finish() }

// RangeDecoder is the read side of RangeEncoder, replaying the same model
// bank over a previously encoded correction stream.
type RangeDecoder struct {
	rc      *rangeDecoder
	mispred [numMispredictions]*probModel
	corr    [numCorrections]*u32Model
}

func NewRangeDecoder(data []byte) *RangeDecoder {
	d := &RangeDecoder{rc: newRangeDecoder(data)}
	for i := range d.mispred {
		d.mispred[i] = newProbModel()
	}
	for i := range d.corr {
		d.corr[i] = newU32Model()
	}
	return d
}

func (d *RangeDecoder) DecodeMisprediction(kind preflate.CodecMisprediction) bool {
	return d.rc.decodeBit(d.mispred[kind])
}

func (d *RangeDecoder) DecodeCorrection(kind preflate.CodecCorrection) uint32 {
	return d.rc.decodeU32(d.corr[kind])
}

func (d *RangeDecoder) DecodeValue(bits uint8) uint32 {
	var v uint32
	for i := uint8(0); i < bits; i++ {
		v <<= 1
		if d.rc.decodeBypass() {
			v |= 1
		}
	}
	return v
}

func (d *RangeDecoder) DecodeVerifyState(label string, checksum uint64) {}

var (
	_ preflate.PredictionEncoder = (*RangeEncoder)(nil)
	_ preflate.PredictionDecoder = (*RangeDecoder)(nil)
)
