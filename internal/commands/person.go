package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/trips"
)

func newPersonCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage the people of a trip",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add TRIP NAME...",
			Short: "Add people to a trip",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := e.resolveTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				return e.manager.Update(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
					for _, name := range args[1:] {
						if l.AddPerson(name) {
							fmt.Fprintf(out, "Added %s\n", name)
						} else {
							fmt.Fprintf(out, "Skipped %q: empty or already on the trip\n", name)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove TRIP NAME",
			Short: "Remove a settled person from a trip",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := e.resolveTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var dropped int
				err = e.manager.Update(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
					before := len(l.Expenses())
					if err := l.RemovePerson(args[1]); err != nil {
						return err
					}
					dropped = before - len(l.Expenses())
					return nil
				})
				var pending *ledger.PendingBalanceError
				if errors.As(err, &pending) {
					return fmt.Errorf("cannot remove %s: %w", args[1], err)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
				if dropped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d expense(s) that only involved %s\n", dropped, args[1])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list TRIP",
			Short: "List the people of a trip",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := e.resolveTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return e.manager.View(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
					for _, name := range l.Names() {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
					return nil
				})
			},
		},
	)

	return cmd
}
