package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/ledger"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

func newExportCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.csv>",
		Short: "Write every transaction to a ledger CSV (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			txs, err := a.store.ListTransactions(cmd.Context(), a.userID(), store.Filter{})
			if err != nil {
				return err
			}

			if args[0] == "-" {
				return ledger.WriteTransactions(cmd.OutOrStdout(), txs)
			}
			return writeExport(args[0], txs, cmd.ErrOrStderr())
		},
	}
}

func writeExport(path string, txs []model.Transaction, status io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ledger.WriteTransactions(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(status, "Exported %d transactions to %s\n", len(txs), path)
	return nil
}
