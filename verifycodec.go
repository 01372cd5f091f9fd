package preflate

// verifyActionKind tags one recorded codec event.
type verifyActionKind uint8

const (
	verifyActionMisprediction verifyActionKind = iota
	verifyActionCorrection
	verifyActionValue
)

type verifyAction struct {
	kind    verifyActionKind
	boolVal bool
	u32Val  uint32
	bits    uint8
}

// VerifyPredictionEncoder is an in-memory PredictionEncoder that records
// every event instead of entropy-coding it, so a test can replay the
// recorded actions through VerifyPredictionDecoder and assert the decoder's
// recreation matches the original block/tree exactly (round-trip), or count
// how many actions were non-default to assert a predicted-perfectly input
// needs zero corrections (idempotence).
//
// Grounded on the original project's own verification harness, which drives
// the predictor against itself this same way before trusting a concrete
// entropy coder.
type VerifyPredictionEncoder struct {
	actions []verifyAction
}

func (e *VerifyPredictionEncoder) EncodeMisprediction(kind CodecMisprediction, value bool) {
	e.actions = append(e.actions, verifyAction{kind: verifyActionMisprediction, boolVal: value})
}

func (e *VerifyPredictionEncoder) EncodeCorrection(kind CodecCorrection, value uint32) {
	e.actions = append(e.actions, verifyAction{kind: verifyActionCorrection, u32Val: value})
}

func (e *VerifyPredictionEncoder) EncodeValue(value uint32, bits uint8) {
	e.actions = append(e.actions, verifyAction{kind: verifyActionValue, u32Val: value, bits: bits})
}

func (e *VerifyPredictionEncoder) EncodeVerifyState(label string, checksum uint64) {}

// Actions returns the recorded event log, consumable by
// NewVerifyPredictionDecoder.
func (e *VerifyPredictionEncoder) Actions() []verifyAction {
	return e.actions
}

// CountNondefaultActions returns how many recorded mispredictions were true
// or corrections were non-zero: Testable Property 2 requires this to be
// zero when encoding against a DefaultOnlyDecoder-built block.
func (e *VerifyPredictionEncoder) CountNondefaultActions() int {
	n := 0
	for _, a := range e.actions {
		switch a.kind {
		case verifyActionMisprediction:
			if a.boolVal {
				n++
			}
		case verifyActionCorrection:
			if a.u32Val != 0 {
				n++
			}
		}
	}
	return n
}

// VerifyPredictionDecoder replays a VerifyPredictionEncoder's recorded
// action log in order.
type VerifyPredictionDecoder struct {
	actions []verifyAction
	pos     int
}

func NewVerifyPredictionDecoder(actions []verifyAction) *VerifyPredictionDecoder {
	return &VerifyPredictionDecoder{actions: actions}
}

func (d *VerifyPredictionDecoder) next() verifyAction {
	a := d.actions[d.pos]
	d.pos++
	return a
}

func (d *VerifyPredictionDecoder) DecodeMisprediction(kind CodecMisprediction) bool {
	return d.next().boolVal
}

func (d *VerifyPredictionDecoder) DecodeCorrection(kind CodecCorrection) uint32 {
	return d.next().u32Val
}

func (d *VerifyPredictionDecoder) DecodeValue(bits uint8) uint32 {
	return d.next().u32Val
}

func (d *VerifyPredictionDecoder) DecodeVerifyState(label string, checksum uint64) {}

// DefaultOnlyDecoder decodes every event to its zero value: every
// misprediction reads false, every correction reads 0. Driving the
// predictors with this decoder reconstructs exactly what they would have
// predicted, giving a "predicted == actual" block/tree without a real
// compressed stream to compare against. The module's own tests do not use
// it.
type DefaultOnlyDecoder struct{}

func (DefaultOnlyDecoder) DecodeMisprediction(kind CodecMisprediction) bool { return false }
func (DefaultOnlyDecoder) DecodeCorrection(kind CodecCorrection) uint32     { return 0 }
func (DefaultOnlyDecoder) DecodeValue(bits uint8) uint32                   { return 0 }
func (DefaultOnlyDecoder) DecodeVerifyState(label string, checksum uint64) {}
