package preflate

import (
	"errors"
	"fmt"
)

// Sentinel errors for the structural (non-recoverable) failure paths of the
// reconstruction engine. These always mean the plaintext and the parameter
// set in use cannot possibly have produced the compressed stream being
// reconstructed, as opposed to a routine misprediction, which is corrected
// through the codec rather than surfaced as an error.
var (
	// ErrEmptyInput is returned when EncodeBlob/DecodeBlob is given a blob
	// with no plaintext bytes at all.
	ErrEmptyInput = errors.New("preflate: empty input")

	// ErrNoMoreMatchesFound means HopMatch exhausted the hash chain for
	// the current position before reaching the requested hop count, at a
	// point where the caller expected a match to exist.
	ErrNoMoreMatchesFound = errors.New("preflate: hash chain exhausted before a match was found")

	// ErrMaxChainExceeded describes a hash-chain walk that hit its
	// max_chain depth bound before resolving a required match. No function
	// in this module returns it; MatchToken reports that case as
	// MatchMaxChainExceeded instead.
	ErrMaxChainExceeded = errors.New("preflate: hash chain walk exceeded its depth bound")

	// ErrTargetDistanceNotOnChain means CalculateHops walked the
	// hash chain for the current position and never encountered a node at
	// the distance the caller asked for: the plaintext does not contain the
	// back-reference the token claims, so no correction can repair it.
	ErrTargetDistanceNotOnChain = errors.New("preflate: target distance not present on hash chain")

	// ErrCompressionLevelUndetermined is returned by the level estimator when
	// no level 1-9 parameter set is consistent with every reference token
	// observed in the blob.
	ErrCompressionLevelUndetermined = errors.New("preflate: no compression level is consistent with the observed matches")

	// ErrUnsupportedBlockType is returned when asked to predict/recreate a
	// block type other than stored, static Huffman, or dynamic Huffman.
	ErrUnsupportedBlockType = errors.New("preflate: unsupported deflate block type")

	// ErrTruncatedStream describes a container or bit-level reader that
	// runs out of bytes before the structure it is parsing is complete. No
	// function in this module returns it; internal/container and
	// internal/deflatebits report truncation with their own ErrTruncated.
	ErrTruncatedStream = errors.New("preflate: truncated stream")

	// ErrChecksumMismatch describes a reconstructed container whose
	// checksum (CRC32 for gzip, Adler32 for zlib) does not match the
	// trailer recorded in the original container. No function in this
	// module returns it.
	ErrChecksumMismatch = errors.New("preflate: reconstructed stream checksum mismatch")
)

// ReconstructError wraps a structural failure with the block and token index
// at which it was detected, so troubleshooting a failed reconstruction does
// not require bisecting the blob by hand. Satisfies errors.Is/errors.As
// against the sentinel it wraps.
type ReconstructError struct {
	BlockIndex int
	TokenIndex int // -1 when the failure is not attributable to a single token
	Err        error
}

func (e *ReconstructError) Error() string {
	if e.TokenIndex >= 0 {
		return fmt.Sprintf("preflate: block %d, token %d: %v", e.BlockIndex, e.TokenIndex, e.Err)
	}
	return fmt.Sprintf("preflate: block %d: %v", e.BlockIndex, e.Err)
}

func (e *ReconstructError) Unwrap() error { return e.Err }

func wrapBlockErr(blockIndex int, err error) error {
	if err == nil {
		return nil
	}
	return &ReconstructError{BlockIndex: blockIndex, TokenIndex: -1, Err: err}
}

func wrapTokenErr(blockIndex, tokenIndex int, err error) error {
	if err == nil {
		return nil
	}
	return &ReconstructError{BlockIndex: blockIndex, TokenIndex: tokenIndex, Err: err}
}
