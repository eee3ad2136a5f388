package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/models"
	"github.com/mmynk/tripsplitter/internal/trips"
)

func newExpenseCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and list expenses",
	}
	cmd.AddCommand(newExpenseAddCommand(e), newExpenseListCommand(e))
	return cmd
}

func newExpenseAddCommand(e *env) *cobra.Command {
	var (
		description string
		amount      string
		paid        map[string]string
		split       map[string]string
		even        bool
	)

	cmd := &cobra.Command{
		Use:   "add TRIP",
		Short: "Record an expense",
		Long: `Record an expense. Every --paid and --split entry is NAME=AMOUNT and the
entries of each side must add up to --amount. With --even the amount is
split across everyone on the trip instead of --split.`,
		Example: `  tripsplit expense add Lisbon --desc Dinner --amount 90 --paid Ana=90 --even
  tripsplit expense add Lisbon --desc Taxi --amount 30 --paid Ana=10,Ben=20 --split Ana=15,Ben=15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if even && len(split) > 0 {
				return errors.New("use either --split or --even, not both")
			}
			if !even && len(split) == 0 {
				return errors.New("one of --split or --even is required")
			}

			trip, err := e.resolveTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			total, err := ledger.ParseAmount("amount", amount)
			if err != nil {
				return err
			}
			paidBy, err := ledger.ParseShares("paid_by", paid)
			if err != nil {
				return err
			}

			var expense models.Expense
			var l *ledger.Ledger
			err = e.manager.Update(cmd.Context(), trips.LocalOwner, trip.ID, func(current *ledger.Ledger) error {
				splitShares, err := ledger.ParseShares("split_shares", split)
				if err != nil {
					return err
				}
				if even {
					splitShares, err = evenShares(total, current.Names())
					if err != nil {
						return err
					}
				}

				id, err := current.AddExpense(description, total, paidBy, splitShares)
				if err != nil {
					return err
				}
				for _, exp := range current.Expenses() {
					if exp.ID == id {
						expense = exp
					}
				}
				l = current
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded expense #%d\n", expense.ID)
			printExpense(cmd.OutOrStdout(), l, expense)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "what the expense was for (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "total amount (required)")
	cmd.Flags().StringToStringVar(&paid, "paid", nil, "who paid, as NAME=AMOUNT (repeatable)")
	cmd.Flags().StringToStringVar(&split, "split", nil, "who consumed, as NAME=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&even, "even", false, "split the amount evenly across the trip")
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("paid")

	return cmd
}

// evenShares pre-fills split shares so that they always reconcile.
func evenShares(total decimal.Decimal, names []string) (map[string]decimal.Decimal, error) {
	shares, err := calculator.FairSplit(total, names)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]decimal.Decimal, len(shares))
	for _, s := range shares {
		byName[s.Name] = s.Amount
	}
	return byName, nil
}

func newExpenseListCommand(e *env) *cobra.Command {
	var person string

	cmd := &cobra.Command{
		Use:   "list TRIP",
		Short: "List expenses, optionally those of one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := e.resolveTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			return e.manager.View(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
				if person == "" {
					expenses := l.Expenses()
					if len(expenses) == 0 {
						fmt.Fprintln(out, "No expenses yet.")
					}
					for _, exp := range expenses {
						printExpense(out, l, exp)
					}
					return nil
				}

				inv, err := l.ExpensesInvolving(person)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Paid by %s:\n", person)
				printContributions(out, inv.PaidFor)
				fmt.Fprintf(out, "Consumed by %s:\n", person)
				printContributions(out, inv.ConsumedIn)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "only show expenses involving this person")
	return cmd
}

func printExpense(w io.Writer, l *ledger.Ledger, exp models.Expense) {
	fmt.Fprintf(w, "#%d %s  %s\n", exp.ID, exp.Description, exp.Amount.StringFixed(2))
	fmt.Fprintf(w, "    paid by:  %s\n", formatShares(l, exp.PaidBy))
	fmt.Fprintf(w, "    split:    %s\n", formatShares(l, exp.SplitShares))
}

func printContributions(w io.Writer, contributions []ledger.Contribution) {
	if len(contributions) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, c := range contributions {
		fmt.Fprintf(w, "  #%d %s  %s of %s\n", c.Expense.ID, c.Expense.Description, c.Amount.StringFixed(2), c.Expense.Amount.StringFixed(2))
	}
}

func formatShares(l *ledger.Ledger, shares []models.Share) string {
	parts := make([]string, len(shares))
	for i, s := range shares {
		p, _ := l.Person(s.PersonID)
		name := p.Name
		if p.Departed {
			name += " (left)"
		}
		parts[i] = fmt.Sprintf("%s=%s", name, s.Amount.StringFixed(2))
	}
	return strings.Join(parts, ", ")
}
