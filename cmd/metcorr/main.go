// Package main implements the metcorr CLI: batch Type-I MET correction of
// event files and inspection of jet energy correction payloads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "metcorr",
		Short: "Type-I MET correction",
		Long: `metcorr recomputes the Type-I correction of missing transverse energy from
jet energy correction payloads and writes the corrected MET as an ntuple.

With no payloads configured the host-corrected MET is passed through.`,
		SilenceUsage: true,
	}
	root.AddCommand(newCorrectCmd())
	root.AddCommand(newJECCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
