package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/trips"
)

func newBalancesCommand(e *env) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "balances TRIP",
		Short: "Show who owes whom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := e.resolveTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			return e.manager.View(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
				balances := calculator.ComputeBalances(l.People(), l.Expenses())
				if calculator.IsGroupSettled(balances) {
					fmt.Fprintln(out, "All settled up!")
					return nil
				}

				shown := calculator.Outstanding(balances)
				if all {
					shown = balances
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(w, "NAME\tPAID\tOWED\tNET\t")
				for _, b := range shown {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", b.Name, b.Paid.StringFixed(2), b.Owed.StringFixed(2), b.Net.StringFixed(2))
				}
				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintln(out, "\nTo settle up:")
				for _, t := range calculator.SimplifyDebts(balances) {
					fmt.Fprintf(out, "  %s pays %s %s\n", t.From, t.To, t.Amount.StringFixed(2))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include people who are already settled")
	return cmd
}

func newSettleCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "settle TRIP",
		Short: "Mark everyone as settled and clear the expense history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := e.resolveTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var cleared int
			err = e.manager.Update(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
				cleared = l.SettleAll()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settled %s: cleared %d expense(s)\n", trip.Name, cleared)
			return nil
		},
	}
}
