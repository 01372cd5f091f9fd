package preflate

// RFC 1951 §3.2.5 length and distance code tables: base value and extra-bit
// count per symbol, shared by token frequency accounting, the tree
// predictor, and (exported for reuse) the bit-level codec in
// internal/deflatebits.
var (
	LengthCodeBase = [29]uint16{
		3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
		35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
	}
	LengthCodeExtraBits = [29]uint8{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
	}

	DistCodeBase = [30]uint16{
		1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
		257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
	}
	DistCodeExtraBits = [30]uint8{
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
		7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
	}
)

// LengthToCode maps a match length (3..258) to its length-code symbol
// (0-based, add NonlenCodeCount for the literal-alphabet index), the number
// of extra bits that follow it, and the extra-bit value itself.
func LengthToCode(length uint32) (code uint8, extraBits uint8, extraVal uint32) {
	for i := len(LengthCodeBase) - 1; i >= 0; i-- {
		if length >= uint32(LengthCodeBase[i]) {
			return uint8(i), LengthCodeExtraBits[i], length - uint32(LengthCodeBase[i])
		}
	}
	return 0, 0, 0
}

// DistanceToCode maps a match distance (1..32768) to its distance-code
// symbol, extra-bit count, and extra-bit value.
func DistanceToCode(dist uint32) (code uint8, extraBits uint8, extraVal uint32) {
	for i := len(DistCodeBase) - 1; i >= 0; i-- {
		if dist >= uint32(DistCodeBase[i]) {
			return uint8(i), DistCodeExtraBits[i], dist - uint32(DistCodeBase[i])
		}
	}
	return 0, 0, 0
}
