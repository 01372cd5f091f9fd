package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/preflate-go/preflate"
	"github.com/preflate-go/preflate/internal/bundle"
	"github.com/preflate-go/preflate/internal/deflatebits"
	"github.com/preflate-go/preflate/internal/paccodec"
)

func newDecodeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "decode <plaintext-file> <bundle-file>",
		Short: "Reconstruct the original compressed file from plaintext and a correction bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0], args[1], out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path for the reconstructed file (default: <bundle-file> with .preflate stripped)")
	return cmd
}

func runDecode(plaintextPath, bundlePath, out string) error {
	if out == "" {
		out = strings.TrimSuffix(bundlePath, ".preflate")
		if out == bundlePath {
			out = bundlePath + ".reconstructed"
		}
	}

	plaintext, err := os.ReadFile(plaintextPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", plaintextPath, err)
	}
	raw, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", bundlePath, err)
	}
	b, err := bundle.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("parse bundle %s: %w", bundlePath, err)
	}

	dec := paccodec.NewRangeDecoder(b.Corrections)
	blocks, err := preflate.DecodeBlob(plaintext, b.Params, dec)
	if err != nil {
		return fmt.Errorf("reconstruct tokens: %w", err)
	}

	deflate, err := deflatebits.Encode(plaintext, blocks)
	if err != nil {
		return fmt.Errorf("re-serialize deflate stream: %w", err)
	}

	output := make([]byte, 0, len(b.Header)+len(deflate)+len(b.Trailer))
	output = append(output, b.Header...)
	output = append(output, deflate...)
	output = append(output, b.Trailer...)

	if err := os.WriteFile(out, output, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	log.WithFields(logrus.Fields{
		"blocks": len(blocks),
		"bytes":  len(output),
	}).Info("decoded")
	return nil
}
