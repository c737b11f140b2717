package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/budget"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

func newBudgetCommand(g *globalFlags) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly category budgets",
	}
	budgetCmd.AddCommand(
		newBudgetSetCommand(g),
		newBudgetListCommand(g),
		newBudgetDeleteCommand(g),
		newBudgetImportCommand(g),
		newBudgetReportCommand(g),
	)
	return budgetCmd
}

func parseCategoryArg(s string) (model.Category, error) {
	c, ok := model.ParseCategory(s)
	if !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func newBudgetSetCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set the monthly limit for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := budget.UnmarshalLimit(args)
			if err != nil {
				return err
			}
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.SetBudget(cmd.Context(), a.userID(), l.Category, l.Amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget %s set to %s\n", l.Category, l.Amount.StringFixed(2))
			return nil
		},
	}
}

func newBudgetListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print budgets as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			budgets, err := a.store.Budgets(cmd.Context(), a.userID())
			if err != nil {
				return err
			}
			return budget.WriteLimits(cmd.OutOrStdout(), budget.SortedLimits(budgets))
		},
	}
}

func newBudgetDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Remove a category's limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.store.DeleteBudget(cmd.Context(), a.userID(), c)
		},
	}
}

func newBudgetImportCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Set limits from a category,amount CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			limits, err := budget.ReadLimits(f)
			if err != nil {
				return err
			}

			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, l := range limits {
				if err := a.store.SetBudget(cmd.Context(), a.userID(), l.Category, l.Amount); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d budgets\n", len(limits))
			return nil
		},
	}
}

func newBudgetReportCommand(g *globalFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare a month's spending against budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := time.Now()
			if month != "" {
				t, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
				}
				m = t
			}

			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			txs, err := a.store.ListTransactions(ctx, a.userID(), store.MonthFilter(m))
			if err != nil {
				return err
			}
			budgets, err := a.store.Budgets(ctx, a.userID())
			if err != nil {
				return err
			}

			printReport(cmd, budget.Build(txs, budgets, m))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, default: current)")

	return cmd
}

func printReport(cmd *cobra.Command, r budget.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Budget report for %s\n\n", r.Month.Format(monthLayout))
	for _, l := range r.Lines {
		limit, remaining := "-", "-"
		if l.HasLimit {
			limit, remaining = l.Limit.StringFixed(2), l.Remaining.StringFixed(2)
		}
		flag := ""
		if l.Over {
			flag = "  OVER"
		}
		fmt.Fprintf(out, "%-13s %12s / %12s  remaining %12s%s\n",
			l.Category, l.Spent.StringFixed(2), limit, remaining, flag)
	}
	fmt.Fprintf(out, "\nIncome   %12s\nExpenses %12s\nNet      %12s\n",
		r.Income.StringFixed(2), r.Expenses.StringFixed(2), r.Net.StringFixed(2))
	if over := r.OverBudget(); len(over) > 0 {
		total := decimal.Zero
		for _, l := range over {
			total = total.Add(l.Spent.Sub(l.Limit))
		}
		fmt.Fprintf(out, "\n%d categories over budget by %s\n", len(over), total.StringFixed(2))
	}
}
