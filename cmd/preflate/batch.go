package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <compressed-file>...",
		Short: "Encode multiple independent compressed files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args)
		},
	}
	return cmd
}

// runBatch fans out over independent blobs concurrently, one errgroup
// goroutine per blob. Each goroutine calls runEncode, which constructs its
// own LevelEstimator/TokenPredictor/TreePredictor/RangeEncoder from scratch,
// so there is no shared predictor state across blobs.
func runBatch(inputs []string) error {
	var g errgroup.Group
	for _, input := range inputs {
		g.Go(func() error {
			if err := runEncode(input, "", ""); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			return nil
		})
	}
	return g.Wait()
}
