package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplitter/internal/models"
	"github.com/mmynk/tripsplitter/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "tripsplitter-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore_Trips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and timestamp", func(t *testing.T) {
		trip := &models.Trip{Name: "Kyoto", OwnerID: "user-1"}
		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "Kyoto" || got.OwnerID != "user-1" {
			t.Errorf("GetTrip = %+v, want name Kyoto owned by user-1", got)
		}
	})

	t.Run("GetTrip returns ErrNotFound for nonexistent trip", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListTrips filters by owner, newest first", func(t *testing.T) {
		older := &models.Trip{Name: "Older", OwnerID: "owner-a", CreatedAt: 100}
		newer := &models.Trip{Name: "Newer", OwnerID: "owner-a", CreatedAt: 200}
		other := &models.Trip{Name: "Other", OwnerID: "owner-b", CreatedAt: 300}
		for _, trip := range []*models.Trip{older, newer, other} {
			if err := store.CreateTrip(ctx, trip); err != nil {
				t.Fatalf("CreateTrip failed: %v", err)
			}
		}

		trips, err := store.ListTrips(ctx, "owner-a")
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(trips) != 2 {
			t.Fatalf("Expected 2 trips, got %d", len(trips))
		}
		if trips[0].Name != "Newer" || trips[1].Name != "Older" {
			t.Errorf("Unexpected order: %s, %s", trips[0].Name, trips[1].Name)
		}
	})

	t.Run("DeleteTrip removes trip and ledger", func(t *testing.T) {
		trip := &models.Trip{Name: "Doomed", OwnerID: "user-1"}
		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if err := store.SaveLedger(ctx, trip.ID, sampleState()); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}

		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if _, err := store.LoadLedger(ctx, trip.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteTrip(ctx, trip.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func sampleState() models.LedgerState {
	return models.LedgerState{
		People: []models.Person{
			{ID: 1, Name: "Alice"},
			{ID: 2, Name: "Bob", Departed: true},
			{ID: 3, Name: "Carol"},
		},
		Expenses: []models.Expense{
			{
				ID: 4, Description: "Sushi", Amount: dec("3000"), CreatedAt: 1700000000,
				PaidBy:      []models.Share{{PersonID: 3, Amount: dec("1000.50")}, {PersonID: 1, Amount: dec("1999.50")}},
				SplitShares: []models.Share{{PersonID: 1, Amount: dec("1000")}, {PersonID: 2, Amount: dec("1000")}, {PersonID: 3, Amount: dec("1000")}},
			},
			{
				ID: 7, Description: "Taxi", Amount: dec("0.1"), CreatedAt: 1700000100,
				PaidBy:      []models.Share{{PersonID: 1, Amount: dec("0.1")}},
				SplitShares: []models.Share{{PersonID: 3, Amount: dec("0.1")}},
			},
		},
		NextPersonID:  4,
		NextExpenseID: 8,
	}
}

func TestSQLiteStore_Ledger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{Name: "Hokkaido", OwnerID: "user-1"}
	if err := store.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	t.Run("new trip has an empty ledger", func(t *testing.T) {
		state, err := store.LoadLedger(ctx, trip.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}
		if len(state.People) != 0 || len(state.Expenses) != 0 {
			t.Errorf("Expected empty ledger, got %+v", state)
		}
		if state.NextPersonID != 1 || state.NextExpenseID != 1 {
			t.Errorf("Expected counters to start at 1, got %d/%d", state.NextPersonID, state.NextExpenseID)
		}
	})

	t.Run("SaveLedger then LoadLedger preserves everything", func(t *testing.T) {
		want := sampleState()
		if err := store.SaveLedger(ctx, trip.ID, want); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}

		got, err := store.LoadLedger(ctx, trip.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}

		if got.NextPersonID != 4 || got.NextExpenseID != 8 {
			t.Errorf("Counters mismatch: got %d/%d", got.NextPersonID, got.NextExpenseID)
		}
		if len(got.People) != 3 {
			t.Fatalf("People count mismatch: got %d, want 3", len(got.People))
		}
		for i, p := range got.People {
			if p != want.People[i] {
				t.Errorf("Person %d mismatch: got %+v, want %+v", i, p, want.People[i])
			}
		}

		if len(got.Expenses) != 2 {
			t.Fatalf("Expenses count mismatch: got %d, want 2", len(got.Expenses))
		}
		for i, exp := range got.Expenses {
			wantExp := want.Expenses[i]
			if exp.ID != wantExp.ID || exp.Description != wantExp.Description || exp.CreatedAt != wantExp.CreatedAt {
				t.Errorf("Expense %d mismatch: got %+v", i, exp)
			}
			if !exp.Amount.Equal(wantExp.Amount) {
				t.Errorf("Expense %d amount: got %s, want %s", i, exp.Amount, wantExp.Amount)
			}
			assertShares(t, "paid", exp.PaidBy, wantExp.PaidBy)
			assertShares(t, "split", exp.SplitShares, wantExp.SplitShares)
		}
	})

	t.Run("SaveLedger replaces previous state", func(t *testing.T) {
		state := models.LedgerState{
			People:        []models.Person{{ID: 1, Name: "Alice"}},
			NextPersonID:  4,
			NextExpenseID: 8,
		}
		if err := store.SaveLedger(ctx, trip.ID, state); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}

		got, err := store.LoadLedger(ctx, trip.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}
		if len(got.People) != 1 || len(got.Expenses) != 0 {
			t.Errorf("Expected 1 person and no expenses, got %d/%d", len(got.People), len(got.Expenses))
		}
	})

	t.Run("SaveLedger rejects shares for unknown people", func(t *testing.T) {
		state := sampleState()
		state.People = state.People[:1]
		if err := store.SaveLedger(ctx, trip.ID, state); err == nil {
			t.Error("Expected foreign key error, got nil")
		}

		// The failed transaction left the previous state alone.
		got, err := store.LoadLedger(ctx, trip.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}
		if len(got.People) != 1 || got.People[0].Name != "Alice" {
			t.Errorf("Expected previous state, got %+v", got.People)
		}
	})

	t.Run("SaveLedger for unknown trip", func(t *testing.T) {
		err := store.SaveLedger(ctx, "missing", sampleState())
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func assertShares(t *testing.T, side string, got, want []models.Share) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s shares count: got %d, want %d", side, len(got), len(want))
		return
	}
	for i := range got {
		if got[i].PersonID != want[i].PersonID || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("%s share %d: got %+v, want %+v", side, i, got[i], want[i])
		}
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for name, lookup := range map[string]func() (*models.User, error){
		"by email":    func() (*models.User, error) { return store.GetUserByEmail(ctx, "alice@example.com") },
		"by username": func() (*models.User, error) { return store.GetUserByUsername(ctx, "alice") },
		"by id":       func() (*models.User, error) { return store.GetUserByID(ctx, user.ID) },
	} {
		t.Run(name, func(t *testing.T) {
			got, err := lookup()
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if got == nil || *got != *user {
				t.Errorf("got %+v, want %+v", got, user)
			}
		})
	}

	t.Run("missing user is nil, nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil || got != nil {
			t.Errorf("got (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "alice2", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected unique constraint error, got nil")
		}
	})
}
