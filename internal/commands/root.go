package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/buildinfo"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "tallyup",
		Short:   "Turn receipts and bank SMS into personal finance transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.repo, "repo", ".", "data directory")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (overrides tallyup.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newReceiptCommand(g),
		newSMSCommand(g),
		newTxCommand(g),
		newBudgetCommand(g),
		newExportCommand(g),
		newServeCommand(g),
	)

	return rootCmd
}
