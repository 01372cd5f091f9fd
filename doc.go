/*
Package preflate reconstructs a byte-exact DEFLATE (RFC 1951) bitstream from
its decompressed plaintext plus a small side-channel of corrections, instead
of storing or re-deriving the compressed bytes themselves.

A DEFLATE encoder's output is almost entirely a deterministic function of its
input and its parameters (window size, hash-chain depth, lazy-matching
heuristic, Huffman tree construction). This package runs the same family of
algorithms a real encoder would have run, predicts what it most likely did at
every token and every Huffman header, and emits a correction only where the
prediction and the real stream disagree. Given the plaintext and the
correction stream, the same predictor run in reverse recreates the original
tokens and headers exactly.

# Encoding

Find the parameters a real encoder is likely to have used, then predict:

	params, err := preflate.EstimateParameters(plaintext, blocks, windowBits)
	err = preflate.EncodeBlob(plaintext, blocks, params, encoder)

# Decoding

Recreate the original blocks from plaintext, parameters, and corrections:

	blocks, err := preflate.DecodeBlob(plaintext, params, decoder)

The concrete PredictionEncoder/PredictionDecoder implementation, and the code
that turns a raw byte stream into []Block in the first place, live outside
this package (see internal/paccodec and internal/deflatebits) so the core
prediction engine stays independent of any one entropy coder or bit-level
framing.
*/
package preflate
