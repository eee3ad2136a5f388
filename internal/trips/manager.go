// Package trips runs ledger operations against stored trips.
//
// A Ledger is not safe for concurrent use, so every load-mutate-save cycle
// goes through Manager, which serializes them.
package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/models"
	"github.com/mmynk/tripsplitter/internal/storage"
)

// LocalOwner owns the trips created from the command line.
const LocalOwner = "local"

var (
	ErrForbidden = errors.New("trip belongs to another user")
	ErrEmptyName = errors.New("trip name is required")
)

// Manager loads, mutates and saves trip ledgers one at a time.
type Manager struct {
	store storage.Store
	mu    sync.Mutex
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Create stores a new trip with an empty ledger.
func (m *Manager) Create(ctx context.Context, ownerID, name string) (*models.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	trip := &models.Trip{Name: name, OwnerID: ownerID}
	if err := m.store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}
	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", ownerID)
	return trip, nil
}

// Get returns a trip owned by ownerID.
func (m *Manager) Get(ctx context.Context, ownerID, tripID string) (*models.Trip, error) {
	trip, err := m.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != ownerID {
		return nil, fmt.Errorf("trip %s: %w", tripID, ErrForbidden)
	}
	return trip, nil
}

// List returns the trips of ownerID, newest first.
func (m *Manager) List(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	return m.store.ListTrips(ctx, ownerID)
}

// Delete removes a trip and its ledger.
func (m *Manager) Delete(ctx context.Context, ownerID, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.Get(ctx, ownerID, tripID); err != nil {
		return err
	}
	if err := m.store.DeleteTrip(ctx, tripID); err != nil {
		return err
	}
	slog.Info("Trip deleted", "trip_id", tripID)
	return nil
}

// View runs fn against the current ledger of a trip without saving.
func (m *Manager) View(ctx context.Context, ownerID, tripID string, fn func(*ledger.Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.load(ctx, ownerID, tripID)
	if err != nil {
		return err
	}
	return fn(l)
}

// Update runs fn against the ledger of a trip and saves the result.
// Nothing is saved when fn returns an error.
func (m *Manager) Update(ctx context.Context, ownerID, tripID string, fn func(*ledger.Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.load(ctx, ownerID, tripID)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if err := m.store.SaveLedger(ctx, tripID, l.Snapshot()); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, ownerID, tripID string) (*ledger.Ledger, error) {
	if _, err := m.Get(ctx, ownerID, tripID); err != nil {
		return nil, err
	}
	state, err := m.store.LoadLedger(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	l, err := ledger.Restore(state)
	if err != nil {
		slog.Error("Stored ledger is inconsistent", "trip_id", tripID, "error", err)
		return nil, err
	}
	return l, nil
}
