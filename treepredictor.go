package preflate

// TreePredictor predicts the transmitted Huffman header of a dynamic block
// from the block's own token frequencies, mirroring how a real encoder
// derives its canonical trees from the same statistics it just generated.
//
// Grounded on the RLE bit-length emission algorithm used across the zlib
// family of encoders (scan_tree/send_tree): the same greedy run-length
// heuristic over code lengths 0-15 that RFC 1951's code-length alphabet
// (Repeat/ZeroShort/ZeroLong, §3.2.7) exists to support.
type TreePredictor struct{}

func NewTreePredictor() *TreePredictor { return &TreePredictor{} }

// rleEncodeLengths run-length-encodes a flat bit-length array into the
// RFC 1951 code-length alphabet stream (TreeCodeCode/Repeat/ZeroShort/
// ZeroLong), using the greedy min/max-run heuristic common to the zlib
// encoder family.
func rleEncodeLengths(lengths []byte) []TreeCodeEntry {
	var out []TreeCodeEntry
	n := len(lengths)
	if n == 0 {
		return out
	}
	ext := make([]int, n+1)
	for i, l := range lengths {
		ext[i] = int(l)
	}
	ext[n] = -1 // sentinel, unequal to any real bit length

	prevlen := -1
	nextlen := ext[0]
	count := 0
	maxCount, minCount := 7, 4
	if nextlen == 0 {
		maxCount, minCount = 138, 3
	}

	for i := 0; i < n; i++ {
		curlen := nextlen
		nextlen = ext[i+1]
		count++
		if count < maxCount && curlen == nextlen {
			continue
		}
		switch {
		case count < minCount:
			for k := 0; k < count; k++ {
				out = append(out, TreeCodeEntry{Type: TreeCodeCode, Data: byte(curlen)})
			}
		case curlen != 0:
			if curlen != prevlen {
				out = append(out, TreeCodeEntry{Type: TreeCodeCode, Data: byte(curlen)})
				count--
			}
			out = append(out, TreeCodeEntry{Type: TreeCodeRepeat, Data: byte(count - 3)})
		case count <= 10:
			out = append(out, TreeCodeEntry{Type: TreeCodeZeroShort, Data: byte(count - 3)})
		default:
			out = append(out, TreeCodeEntry{Type: TreeCodeZeroLong, Data: byte(count - 11)})
		}
		count = 0
		prevlen = curlen
		switch {
		case nextlen == 0:
			maxCount, minCount = 138, 3
		case curlen == nextlen:
			maxCount, minCount = 6, 3
		default:
			maxCount, minCount = 7, 4
		}
	}
	return out
}

// rleDecodeLengths expands an RFC 1951 code-length alphabet stream back
// into a flat bit-length array of the given size.
func rleDecodeLengths(entries []TreeCodeEntry, numSymbols int) []byte {
	lengths := make([]byte, numSymbols)
	pos := 0
	var prev byte
	for _, e := range entries {
		switch e.Type {
		case TreeCodeCode:
			if pos < numSymbols {
				lengths[pos] = e.Data
			}
			prev = e.Data
			pos++
		case TreeCodeRepeat:
			cnt := int(e.Data) + 3
			for k := 0; k < cnt && pos < numSymbols; k++ {
				lengths[pos] = prev
				pos++
			}
		case TreeCodeZeroShort:
			cnt := int(e.Data) + 3
			for k := 0; k < cnt && pos < numSymbols; k++ {
				lengths[pos] = 0
				pos++
			}
			prev = 0
		case TreeCodeZeroLong:
			cnt := int(e.Data) + 11
			for k := 0; k < cnt && pos < numSymbols; k++ {
				lengths[pos] = 0
				pos++
			}
			prev = 0
		}
	}
	return lengths
}

// calcCodetreeFreq counts how often each of the 19 code-length-alphabet
// symbols occurs across both the literal/length and distance RLE streams,
// which share a single code-length Huffman tree in a dynamic block header.
func calcCodetreeFreq(litEntries, distEntries []TreeCodeEntry) [CodetreeCodeCount]uint16 {
	var freq [CodetreeCodeCount]uint16
	count := func(entries []TreeCodeEntry) {
		for _, e := range entries {
			switch e.Type {
			case TreeCodeCode:
				freq[e.Data]++
			case TreeCodeRepeat:
				freq[16]++
			case TreeCodeZeroShort:
				freq[17]++
			case TreeCodeZeroLong:
				freq[18]++
			}
		}
	}
	count(litEntries)
	count(distEntries)
	return freq
}

// calcNumCodeLengths finds how many entries of the 19-symbol code-length
// table need transmitting, in TreeCodeOrderTable's permuted order, trimming
// trailing zero-length entries down to RFC 1951's minimum of 4.
func calcNumCodeLengths(codeLengths [CodetreeCodeCount]byte) int {
	n := CodetreeCodeCount
	for n > 4 && codeLengths[TreeCodeOrderTable[n-1]] == 0 {
		n--
	}
	return n
}

func padLengths(lengths []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, lengths)
	return out
}

// treePrediction is the predicted huffman header plus the flat length
// arrays and RLE entries it was built from, so both encode and decode can
// reuse the same derived data without recomputing it.
type treePrediction struct {
	header        *HuffmanHeader
	litLengths    []byte
	distLengths   []byte
	litEntries    []TreeCodeEntry
	distEntries   []TreeCodeEntry
}

func predictTreeForBlock(freq TokenFrequency, params Parameters) treePrediction {
	litLengths := calcBitLengths(params.HuffTreeAlgorithm, freq.LiteralCodes[:], 15)
	distLengths := calcBitLengths(params.HuffTreeAlgorithm, freq.DistanceCodes[:], 15)
	if len(distLengths) == 0 {
		distLengths = []byte{0}
	}

	litEntries := rleEncodeLengths(litLengths)
	distEntries := rleEncodeLengths(distLengths)

	ctFreq := calcCodetreeFreq(litEntries, distEntries)
	ctLengths := calcBitLengths(params.HuffTreeAlgorithm, ctFreq[:], 7)
	var codeLengths [CodetreeCodeCount]byte
	copy(codeLengths[:], ctLengths)
	numCodeLengths := calcNumCodeLengths(codeLengths)

	h := &HuffmanHeader{
		NumLiterals:    len(litLengths),
		NumDist:        len(distLengths),
		NumCodeLengths: numCodeLengths,
		CodeLengths:    codeLengths,
		Lengths:        append(append([]TreeCodeEntry{}, litEntries...), distEntries...),
	}
	return treePrediction{header: h, litLengths: litLengths, distLengths: distLengths, litEntries: litEntries, distEntries: distEntries}
}

// PredictTree reconciles actual (the block's real transmitted header)
// against a fresh prediction built from freq, writing
// mispredictions/corrections to enc.
func (tp *TreePredictor) PredictTree(enc PredictionEncoder, freq TokenFrequency, params Parameters, actual *HuffmanHeader) error {
	pred := predictTreeForBlock(freq, params)
	h := pred.header

	enc.EncodeMisprediction(MispredLiteralCountMisprediction, h.NumLiterals != actual.NumLiterals)
	if h.NumLiterals != actual.NumLiterals {
		enc.EncodeValue(uint32(actual.NumLiterals), 9)
	}
	enc.EncodeMisprediction(MispredDistanceCountMisprediction, h.NumDist != actual.NumDist)
	if h.NumDist != actual.NumDist {
		enc.EncodeValue(uint32(actual.NumDist), 6)
	}
	enc.EncodeMisprediction(MispredTreeCodeCountMisprediction, h.NumCodeLengths != actual.NumCodeLengths)
	if h.NumCodeLengths != actual.NumCodeLengths {
		enc.EncodeValue(uint32(actual.NumCodeLengths), 5)
	}

	for i := 0; i < actual.NumCodeLengths; i++ {
		sym := TreeCodeOrderTable[i]
		var predLen byte
		if i < h.NumCodeLengths {
			predLen = h.CodeLengths[TreeCodeOrderTable[i]]
		}
		enc.EncodeCorrection(CorrTreeCodeBitLengthCorrection, EncodeDifference(uint32(predLen), uint32(actual.CodeLengths[sym])))
	}

	predLitFlat := padLengths(pred.litLengths, actual.NumLiterals)
	predDistFlat := padLengths(pred.distLengths, actual.NumDist)
	predictedEntries := append(rleEncodeLengths(predLitFlat), rleEncodeLengths(predDistFlat)...)

	for i, ae := range actual.Lengths {
		var pe TreeCodeEntry
		if i < len(predictedEntries) {
			pe = predictedEntries[i]
		}
		enc.EncodeCorrection(CorrLDTypeCorrection, EncodeDifference(uint32(pe.Type), uint32(ae.Type)))
		if ae.Type == TreeCodeCode {
			enc.EncodeCorrection(CorrLDBitLengthCorrection, EncodeDifference(uint32(pe.Data), uint32(ae.Data)))
		} else {
			enc.EncodeCorrection(CorrRepeatCountCorrection, EncodeDifference(uint32(pe.Data), uint32(ae.Data)))
		}
	}
	return nil
}

// RecreateTree is the decode-side mirror of PredictTree.
func (tp *TreePredictor) RecreateTree(dec PredictionDecoder, freq TokenFrequency, params Parameters) *HuffmanHeader {
	pred := predictTreeForBlock(freq, params)
	h := pred.header

	numLiterals := h.NumLiterals
	if dec.DecodeMisprediction(MispredLiteralCountMisprediction) {
		numLiterals = int(dec.DecodeValue(9))
	}
	numDist := h.NumDist
	if dec.DecodeMisprediction(MispredDistanceCountMisprediction) {
		numDist = int(dec.DecodeValue(6))
	}
	numCodeLengths := h.NumCodeLengths
	if dec.DecodeMisprediction(MispredTreeCodeCountMisprediction) {
		numCodeLengths = int(dec.DecodeValue(5))
	}

	var codeLengths [CodetreeCodeCount]byte
	for i := 0; i < numCodeLengths; i++ {
		sym := TreeCodeOrderTable[i]
		var predLen byte
		if i < h.NumCodeLengths {
			predLen = h.CodeLengths[TreeCodeOrderTable[i]]
		}
		codeLengths[sym] = byte(DecodeDifference(uint32(predLen), dec.DecodeCorrection(CorrTreeCodeBitLengthCorrection)))
	}

	predLitFlat := padLengths(pred.litLengths, numLiterals)
	predDistFlat := padLengths(pred.distLengths, numDist)
	predictedEntries := append(rleEncodeLengths(predLitFlat), rleEncodeLengths(predDistFlat)...)

	totalSymbols := numLiterals + numDist
	var entries []TreeCodeEntry
	emitted := 0
	i := 0
	for emitted < totalSymbols {
		var pe TreeCodeEntry
		if i < len(predictedEntries) {
			pe = predictedEntries[i]
		}
		t := TreeCodeType(DecodeDifference(uint32(pe.Type), dec.DecodeCorrection(CorrLDTypeCorrection)))
		var data byte
		if t == TreeCodeCode {
			data = byte(DecodeDifference(uint32(pe.Data), dec.DecodeCorrection(CorrLDBitLengthCorrection)))
		} else {
			data = byte(DecodeDifference(uint32(pe.Data), dec.DecodeCorrection(CorrRepeatCountCorrection)))
		}
		e := TreeCodeEntry{Type: t, Data: data}
		entries = append(entries, e)
		switch t {
		case TreeCodeCode:
			emitted++
		case TreeCodeRepeat:
			emitted += int(data) + 3
		case TreeCodeZeroShort:
			emitted += int(data) + 3
		case TreeCodeZeroLong:
			emitted += int(data) + 11
		}
		i++
	}

	return &HuffmanHeader{
		NumLiterals:    numLiterals,
		NumDist:        numDist,
		NumCodeLengths: numCodeLengths,
		CodeLengths:    codeLengths,
		Lengths:        entries,
	}
}

// LiteralLengths expands the header's RLE stream back into a flat
// per-symbol bit-length array for the literal/length alphabet.
func (h *HuffmanHeader) LiteralLengths() []byte {
	return rleDecodeLengths(h.Lengths, h.NumLiterals+h.NumDist)[:h.NumLiterals]
}

// DistanceLengths expands the header's RLE stream back into a flat
// per-symbol bit-length array for the distance alphabet.
func (h *HuffmanHeader) DistanceLengths() []byte {
	return rleDecodeLengths(h.Lengths, h.NumLiterals+h.NumDist)[h.NumLiterals:]
}
