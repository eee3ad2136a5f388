package trips

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/storage"
	"github.com/mmynk/tripsplitter/internal/storage/sqlite"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store)
}

func one(name string) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{name: decimal.NewFromInt(1)}
}

func TestManager_UpdatePersists(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	trip, err := m.Create(ctx, "alice", "  Kyoto  ")
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", trip.Name)

	err = m.Update(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		l.AddPerson("A")
		l.AddPerson("B")
		_, err := l.AddExpense("tea", decimal.NewFromInt(1), one("A"), one("B"))
		return err
	})
	require.NoError(t, err)

	err = m.View(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		assert.Equal(t, []string{"A", "B"}, l.Names())
		assert.Len(t, l.Expenses(), 1)
		return nil
	})
	require.NoError(t, err)
}

func TestManager_FailedUpdateIsNotSaved(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	trip, err := m.Create(ctx, "alice", "Kyoto")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.Update(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		l.AddPerson("A")
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = m.View(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		assert.Empty(t, l.Names())
		return nil
	})
	require.NoError(t, err)
}

func TestManager_Ownership(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	trip, err := m.Create(ctx, "alice", "Kyoto")
	require.NoError(t, err)

	_, err = m.Get(ctx, "mallory", trip.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = m.Update(ctx, "mallory", trip.ID, func(l *ledger.Ledger) error { return nil })
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, m.Delete(ctx, "mallory", trip.ID), ErrForbidden)
	require.NoError(t, m.Delete(ctx, "alice", trip.ID))

	_, err = m.Get(ctx, "alice", trip.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManager_CreateRequiresName(t *testing.T) {
	_, err := newTestManager(t).Create(context.Background(), "alice", "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestManager_List(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.Create(ctx, "alice", "One")
	require.NoError(t, err)
	_, err = m.Create(ctx, "bob", "Two")
	require.NoError(t, err)

	trips, err := m.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "One", trips[0].Name)
}

func TestManager_SerializesUpdates(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	trip, err := m.Create(ctx, "alice", "Kyoto")
	require.NoError(t, err)
	require.NoError(t, m.Update(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		l.AddPerson("A")
		return nil
	}))

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Update(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
				_, err := l.AddExpense("round", decimal.NewFromInt(1), one("A"), one("A"))
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, m.View(ctx, "alice", trip.ID, func(l *ledger.Ledger) error {
		assert.Len(t, l.Expenses(), workers, "no update was lost")
		return nil
	}))
}
