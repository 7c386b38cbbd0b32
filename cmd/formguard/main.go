// Command formguard lints declarative rules files and serves them behind a
// demo HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "formguard",
		Short: "Form validation for net/http handlers",
		Long: `formguard validates HTML form submissions before they reach a handler.

Commands:
  lint     check a rules file and print the guards it declares
  serve    run a demo server that guards every route of a rules file
  version  print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		lintCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}
