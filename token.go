package preflate

// TokenKind distinguishes the two shapes a DEFLATE token can take.
type TokenKind uint8

const (
	// TokenLiteral carries no data of its own: the byte it represents is the
	// next plaintext byte at the token's position in the input stream.
	TokenLiteral TokenKind = iota
	// TokenReference is an LZ77 back-reference (length, distance).
	TokenReference
)

// ReferenceToken is an LZ77 back-reference: copy Len bytes from Dist bytes
// before the current output position.
type ReferenceToken struct {
	len          uint32
	dist         uint32
	irregular258 bool
}

// NewReferenceToken builds a reference token. irregular258 records that a
// length-258 match was written with length code 284 plus extra value 31
// rather than the canonical length code 285; see internal/deflatebits and the
// token predictor for where this is produced/consumed.
func NewReferenceToken(length, dist uint32, irregular258 bool) ReferenceToken {
	return ReferenceToken{len: length, dist: dist, irregular258: irregular258}
}

func (r ReferenceToken) Len() uint32          { return r.len }
func (r ReferenceToken) Dist() uint32         { return r.dist }
func (r ReferenceToken) Irregular258() bool   { return r.irregular258 }
func (r *ReferenceToken) SetLen(l uint32)     { r.len = l }
func (r *ReferenceToken) SetDist(d uint32)    { r.dist = d }
func (r *ReferenceToken) SetIrregular258(v bool) { r.irregular258 = v }

// Token is a single emitted DEFLATE symbol: either a literal byte (value
// implicit from plaintext position) or a back-reference.
type Token struct {
	Kind    TokenKind
	Literal byte
	Ref     ReferenceToken
}

// LiteralToken builds a literal token for the given plaintext byte. The byte
// is stored on the token itself (not merely implied by position) so a Block
// can be serialized to an actual DEFLATE bitstream without needing a second
// pass over the plaintext.
func LiteralToken(b byte) Token {
	return Token{Kind: TokenLiteral, Literal: b}
}

// ReferenceTok builds a reference token.
func ReferenceTok(r ReferenceToken) Token {
	return Token{Kind: TokenReference, Ref: r}
}

func (t Token) IsLiteral() bool   { return t.Kind == TokenLiteral }
func (t Token) IsReference() bool { return t.Kind == TokenReference }

// TreeCodeType is the RLE alphabet used when transmitting the bit lengths of
// the literal/length and distance Huffman trees in a dynamic block header
// (RFC 1951 §3.2.7).
type TreeCodeType uint8

const (
	// TreeCodeCode emits one literal bit-length value (0-15).
	TreeCodeCode TreeCodeType = iota
	// TreeCodeRepeat repeats the previous bit length 3-6 more times (code 16).
	TreeCodeRepeat
	// TreeCodeZeroShort repeats a zero bit length 3-10 times (code 17).
	TreeCodeZeroShort
	// TreeCodeZeroLong repeats a zero bit length 11-138 times (code 18).
	TreeCodeZeroLong
)

// TreeCodeEntry is one emitted symbol of the RLE-encoded bit-length stream:
// Type selects the alphabet symbol and Data carries the literal bit length
// (for TreeCodeCode) or, for the other three, the symbol's extra-bits value:
// the repeat count minus 3 (codes 16 and 17) or minus 11 (code 18).
type TreeCodeEntry struct {
	Type TreeCodeType
	Data byte
}

// TokenFrequency accumulates how often each literal/length and distance
// alphabet symbol was used across a block's tokens, the input to Huffman
// code-length construction (huffman.go).
type TokenFrequency struct {
	LiteralCodes  [286]uint16
	DistanceCodes [30]uint16
}

// AddLiteral records a literal token's symbol (the byte value itself).
func (f *TokenFrequency) AddLiteral(b byte) {
	f.LiteralCodes[b]++
}

// AddReference records a reference token's length and distance code symbols.
func (f *TokenFrequency) AddReference(r ReferenceToken) {
	lenCode, _, _ := LengthToCode(r.Len())
	f.LiteralCodes[NonlenCodeCount+int(lenCode)]++
	distCode, _, _ := DistanceToCode(r.Dist())
	f.DistanceCodes[distCode]++
}

// AddEndOfBlock records the mandatory end-of-block marker, symbol 256.
func (f *TokenFrequency) AddEndOfBlock() {
	f.LiteralCodes[256]++
}
