package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/id"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

const monthLayout = "2006-01"

func newTxCommand(g *globalFlags) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Committed transaction operations",
	}
	txCmd.AddCommand(newTxListCommand(g), newTxDeleteCommand(g))
	return txCmd
}

func newTxListCommand(g *globalFlags) *cobra.Command {
	var month, typ, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f store.Filter
			if month != "" {
				t, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
				}
				f = store.MonthFilter(t)
			}
			f.Type = model.Direction(typ)
			f.Category = model.Category(category)

			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			txs, err := a.store.ListTransactions(cmd.Context(), a.userID(), f)
			if err != nil {
				return err
			}
			for _, tx := range txs {
				printTransactionRow(cmd.OutOrStdout(), tx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only transactions in this month (YYYY-MM)")
	cmd.Flags().StringVar(&typ, "type", "", "only income or expense")
	cmd.Flags().StringVar(&category, "category", "", "only this category")

	return cmd
}

func newTxDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !id.Valid(args[0]) {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DeleteTransaction(cmd.Context(), a.userID(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
