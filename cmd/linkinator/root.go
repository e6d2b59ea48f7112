package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkinator.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkinator",
		Short: "Find broken links in websites and local HTML trees",
		Long: `Linkinator crawls a starting URL or local directory, extracts every
hyperlink-bearing reference from the HTML it encounters, and verifies
each one resolves to a live resource.

Local directories are served from an ephemeral local HTTP origin for
the duration of the check, so local and remote targets behave the same.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
