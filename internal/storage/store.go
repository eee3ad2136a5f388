// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplitter/internal/models"
)

// ErrNotFound is returned when a trip does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip with an empty ledger.
	// The trip.ID and trip.CreatedAt fields are populated by the store when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip by its ID.
	// Returns an error wrapping ErrNotFound if the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTrips returns the trips owned by a user, newest first.
	ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error)

	// DeleteTrip removes a trip and its ledger.
	DeleteTrip(ctx context.Context, tripID string) error

	// LoadLedger reads the ledger state of a trip.
	LoadLedger(ctx context.Context, tripID string) (models.LedgerState, error)

	// SaveLedger replaces the ledger state of a trip.
	SaveLedger(ctx context.Context, tripID string, state models.LedgerState) error

	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore defines user account persistence.
// GetUserByEmail, GetUserByUsername and GetUserByID return (nil, nil) when no
// user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
