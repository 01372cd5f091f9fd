package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/preflate-go/preflate"
	"github.com/preflate-go/preflate/internal/bundle"
	"github.com/preflate-go/preflate/internal/container"
	"github.com/preflate-go/preflate/internal/deflatebits"
	"github.com/preflate-go/preflate/internal/paccodec"
)

func newEncodeCmd() *cobra.Command {
	var plaintextOut, bundleOut string
	cmd := &cobra.Command{
		Use:   "encode <compressed-file>",
		Short: "Split a compressed file into its plaintext and a correction bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(args[0], plaintextOut, bundleOut)
		},
	}
	cmd.Flags().StringVar(&plaintextOut, "plaintext", "", "output path for the recovered plaintext (default: <input>.plaintext)")
	cmd.Flags().StringVar(&bundleOut, "bundle", "", "output path for the correction bundle (default: <input>.preflate)")
	return cmd
}

func runEncode(inputPath, plaintextOut, bundleOut string) error {
	if plaintextOut == "" {
		plaintextOut = inputPath + ".plaintext"
	}
	if bundleOut == "" {
		bundleOut = inputPath + ".preflate"
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	kind := container.KindUnknown
	deflate, header, trailer := data, []byte(nil), []byte(nil)
	if stream, demuxErr := container.Demux(data); demuxErr == nil {
		kind, deflate, header, trailer = stream.Kind, stream.Deflate, stream.Header, stream.Trailer
	} else {
		log.WithError(demuxErr).Debug("input is not a recognized container, treating it as a raw deflate stream")
	}

	plaintext, blocks, err := deflatebits.Decode(deflate)
	if err != nil {
		return fmt.Errorf("decode deflate stream: %w", err)
	}

	params, err := preflate.EstimateParameters(plaintext, blocks, 15)
	if err != nil {
		return fmt.Errorf("estimate compression parameters: %w", err)
	}

	enc := paccodec.NewRangeEncoder()
	if err := preflate.EncodeBlob(plaintext, blocks, params, enc); err != nil {
		return fmt.Errorf("encode corrections: %w", err)
	}

	if err := verifyIndependentDecode(deflate, plaintext); err != nil {
		return fmt.Errorf("self-check failed: %w", err)
	}

	b := bundle.Bundle{Kind: kind, Header: header, Trailer: trailer, Params: params, Corrections: enc.Bytes()}
	if err := os.WriteFile(bundleOut, bundle.Marshal(b), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", bundleOut, err)
	}
	if err := os.WriteFile(plaintextOut, plaintext, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", plaintextOut, err)
	}

	log.WithFields(logrus.Fields{
		"blocks":      len(blocks),
		"plaintext":   len(plaintext),
		"corrections": len(b.Corrections),
	}).Info("encoded")
	return nil
}

// verifyIndependentDecode decompresses deflate with klauspost/compress's
// flate implementation, entirely independent of this package's own
// predictor/decoder path, and checks it agrees with plaintext before the
// bundle is trusted.
func verifyIndependentDecode(deflate, plaintext []byte) error {
	r := flate.NewReader(bytes.NewReader(deflate))
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("independent flate decode: %w", err)
	}
	if !bytes.Equal(got, plaintext) {
		return fmt.Errorf("independent flate decode disagrees with preflate's own deflate decode")
	}
	return nil
}
