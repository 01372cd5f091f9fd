package preflate

// Input is a read-only cursor over a blob's plaintext. All prediction state
// (hash chains, match search) reads through Input rather than holding the
// byte slice itself, so the cursor position is the single source of truth
// for "how much of this blob has been consumed."
type Input struct {
	data []byte
	pos  uint32
}

// NewInput wraps plaintext for sequential prediction.
func NewInput(data []byte) *Input {
	return &Input{data: data}
}

// CurChars returns the remaining bytes starting offset positions ahead of
// (or behind, for negative offset) the current cursor, clamped to the
// available data. A position outside the buffer returns an empty slice.
func (in *Input) CurChars(offset int32) []byte {
	p := int64(in.pos) + int64(offset)
	if p < 0 || p >= int64(len(in.data)) {
		return nil
	}
	return in.data[p:]
}

// Advance moves the cursor forward n bytes.
func (in *Input) Advance(n uint32) { in.pos += n }

// Pos returns the current absolute cursor position.
func (in *Input) Pos() uint32 { return in.pos }

// Remaining returns the number of unconsumed bytes.
func (in *Input) Remaining() uint32 { return uint32(len(in.data)) - in.pos }

// Size returns the total blob length.
func (in *Input) Size() uint32 { return uint32(len(in.data)) }

// byteAt reads a single byte at offset positions ahead of the cursor,
// returning 0 past the end of the buffer (matching the zero-padded tail a
// real encoder's sliding window presents at end of input).
func byteAt(in *Input, offset int32) byte {
	c := in.CurChars(offset)
	if len(c) == 0 {
		return 0
	}
	return c[0]
}
