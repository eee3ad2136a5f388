package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/trips"
)

func newTripCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Create, list and delete trips",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a trip",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := e.manager.Create(cmd.Context(), trips.LocalOwner, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s (%s)\n", trip.Name, trip.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List trips, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := e.manager.List(cmd.Context(), trips.LocalOwner)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No trips yet.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPEOPLE\tCREATED")
				for _, trip := range list {
					var people int
					err := e.manager.View(cmd.Context(), trips.LocalOwner, trip.ID, func(l *ledger.Ledger) error {
						people = len(l.People())
						return nil
					})
					if err != nil {
						return err
					}
					created := time.Unix(trip.CreatedAt, 0).Format(time.DateOnly)
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", trip.ID, trip.Name, people, created)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "delete TRIP",
			Short: "Delete a trip and all its expenses",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := e.resolveTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := e.manager.Delete(cmd.Context(), trips.LocalOwner, trip.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s\n", trip.Name)
				return nil
			},
		},
	)

	return cmd
}
