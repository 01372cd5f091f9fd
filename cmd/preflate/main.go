// Command preflate splits a compressed file into its plaintext and a small
// correction stream that together reproduce the original compressed bytes
// exactly, and reverses that split back into the original file.
package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = logrus.New()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "preflate",
		Short:         "Reconstruct exact DEFLATE bitstreams from plaintext plus a correction stream",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newBatchCmd())
	return root
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
