package preflate

// BlockType mirrors the three DEFLATE block types (RFC 1951 §3.2.3, BTYPE).
type BlockType uint8

const (
	BlockStored BlockType = iota
	BlockStaticHuff
	BlockDynamicHuff
)

// HuffmanHeader is the transmitted bit-length table of a dynamic Huffman
// block: how many literal/length and distance codes are defined, and the
// RLE-encoded stream of code-length-alphabet symbols that reconstructs both
// trees' per-symbol bit lengths.
type HuffmanHeader struct {
	NumLiterals    int // HLIT + 257, range 257..286
	NumDist        int // HDIST + 1, range 1..32
	NumCodeLengths int // HCLEN + 4, range 4..19

	// CodeLengths holds the bit length of each of the 19 code-length-alphabet
	// symbols, indexed by symbol (not by transmission order).
	CodeLengths [CodetreeCodeCount]byte

	// Lengths is the RLE-encoded stream of literal/length and distance code
	// bit lengths, in the order RFC 1951 transmits them (literal tree first).
	Lengths []TreeCodeEntry
}

// Block is one DEFLATE block: its type, final-block flag, and its tokens.
// For BlockStored, Tokens is unused and StoredLength/PaddingBits describe the
// raw copy instead. For BlockDynamicHuff, Huffman carries the transmitted
// header.
type Block struct {
	Type    BlockType
	Final   bool
	Tokens  []Token
	Huffman *HuffmanHeader // non-nil only for BlockDynamicHuff

	// StoredLength and PaddingBits describe a BlockStored block: the number
	// of raw bytes copied verbatim, and the number of bits (0-7) of padding
	// between the block-header bits and the byte-aligned LEN/NLEN fields.
	StoredLength uint32
	PaddingBits  uint8
}

// NewBlock creates an empty block of the given type.
func NewBlock(t BlockType) *Block {
	return &Block{Type: t}
}

// AddLiteral appends a literal token for plaintext byte c.
func (b *Block) AddLiteral(c byte) {
	b.Tokens = append(b.Tokens, LiteralToken(c))
}

// AddReference appends a back-reference token.
func (b *Block) AddReference(length, dist uint32, irregular258 bool) {
	b.Tokens = append(b.Tokens, ReferenceTok(NewReferenceToken(length, dist, irregular258)))
}

// Frequencies walks the block's tokens and returns the literal/length and
// distance symbol histogram used to predict (or verify) its Huffman header.
func (b *Block) Frequencies() TokenFrequency {
	var f TokenFrequency
	for _, t := range b.Tokens {
		if t.IsLiteral() {
			f.AddLiteral(t.Literal)
		} else {
			f.AddReference(t.Ref)
		}
	}
	f.AddEndOfBlock()
	return f
}
