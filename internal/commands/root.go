// Package commands implements the tripsplit command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplitter/internal/config"
	"github.com/mmynk/tripsplitter/internal/models"
	"github.com/mmynk/tripsplitter/internal/storage/sqlite"
	"github.com/mmynk/tripsplitter/internal/trips"
)

// env is shared by every subcommand of one invocation.
type env struct {
	dbPath  string
	store   *sqlite.SQLiteStore
	manager *trips.Manager
}

// Execute runs the tripsplit command line with args. The database is closed
// before it returns, whether or not the command succeeded.
func Execute(args []string, stdout, stderr io.Writer) error {
	cmd, e := newRootCommand()
	return e.run(cmd, args, stdout, stderr)
}

func newRootCommand() (*cobra.Command, *env) {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "tripsplit",
		Short: "Split shared trip expenses and settle up",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open()
		},
	}

	rootCmd.PersistentFlags().StringVar(&e.dbPath, "db", config.DBPath(), "path to the SQLite database")

	rootCmd.AddCommand(
		newTripCommand(e),
		newPersonCommand(e),
		newExpenseCommand(e),
		newBalancesCommand(e),
		newSettleCommand(e),
	)

	return rootCmd, e
}

func (e *env) run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		err = errors.Join(err, e.release())
	}()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func (e *env) open() error {
	store, err := sqlite.New(e.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	e.store = store
	e.manager = trips.NewManager(store)
	return nil
}

func (e *env) release() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

// resolveTrip finds a local trip by ID or by exact name.
func (e *env) resolveTrip(ctx context.Context, ref string) (*models.Trip, error) {
	list, err := e.manager.List(ctx, trips.LocalOwner)
	if err != nil {
		return nil, err
	}

	var match *models.Trip
	for _, trip := range list {
		if trip.ID == ref {
			return trip, nil
		}
		if trip.Name == ref {
			if match != nil {
				return nil, fmt.Errorf("more than one trip is named %q, use its ID", ref)
			}
			match = trip
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no trip %q", ref)
	}
	return match, nil
}
