package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags bind to fresh state on every
// call so tests can execute commands independently.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scorectl",
		Short: "Score feature payloads with the demo score engine",
		Long: `scorectl runs the demo score engine locally.

It produces the same deterministic scores as the HTTP service for the same
payload and secret, can mint development TLS certificates for it and can
check that a running service is ready.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newScoreCmd(), newDemoCmd(), newCertsCmd(), newCheckCmd())
	return rootCmd
}
