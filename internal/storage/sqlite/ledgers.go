package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tripsplitter/internal/models"
	"github.com/mmynk/tripsplitter/internal/storage"
)

const (
	sidePaid  = "paid"
	sideSplit = "split"
)

// LoadLedger reads every person, expense and share of a trip.
func (s *SQLiteStore) LoadLedger(ctx context.Context, tripID string) (models.LedgerState, error) {
	var state models.LedgerState

	err := s.db.QueryRowContext(ctx,
		"SELECT next_person_id, next_expense_id FROM trips WHERE id = ?",
		tripID,
	).Scan(&state.NextPersonID, &state.NextExpenseID)
	if err == sql.ErrNoRows {
		return state, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return state, fmt.Errorf("failed to get trip counters: %w", err)
	}

	if state.People, err = s.loadPeople(ctx, tripID); err != nil {
		return state, err
	}
	if state.Expenses, err = s.loadExpenses(ctx, tripID); err != nil {
		return state, err
	}
	if err := s.attachShares(ctx, tripID, state.Expenses); err != nil {
		return state, err
	}
	return state, nil
}

func (s *SQLiteStore) loadPeople(ctx context.Context, tripID string) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, departed FROM people WHERE trip_id = ? ORDER BY id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Departed); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context, tripID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, created_at FROM expenses WHERE trip_id = ? ORDER BY id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// attachShares loads the shares of every expense of a trip in one query.
func (s *SQLiteStore) attachShares(ctx context.Context, tripID string, expenses []models.Expense) error {
	index := make(map[models.ExpenseID]int, len(expenses))
	for i, exp := range expenses {
		index[exp.ID] = i
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, side, person_id, amount FROM expense_shares WHERE trip_id = ? ORDER BY expense_id, side, position",
		tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID models.ExpenseID
			side      string
			share     models.Share
		)
		if err := rows.Scan(&expenseID, &side, &share.PersonID, &share.Amount); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			return fmt.Errorf("share references missing expense %d", expenseID)
		}
		exp := &expenses[i]
		switch side {
		case sidePaid:
			exp.PaidBy = append(exp.PaidBy, share)
		case sideSplit:
			exp.SplitShares = append(exp.SplitShares, share)
		default:
			return fmt.Errorf("unknown share side %q", side)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return nil
}

// SaveLedger replaces the stored ledger of a trip in one transaction.
func (s *SQLiteStore) SaveLedger(ctx context.Context, tripID string, state models.LedgerState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE trips SET next_person_id = ?, next_expense_id = ? WHERE id = ?",
		state.NextPersonID, state.NextExpenseID, tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip counters: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}

	// Shares reference people, so they go first
	for _, table := range []string{"expense_shares", "expenses", "people"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE trip_id = ?", tripID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range state.People {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO people (trip_id, id, name, departed) VALUES (?, ?, ?, ?)",
			tripID, p.ID, p.Name, p.Departed,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for _, exp := range state.Expenses {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expenses (trip_id, id, description, amount, created_at) VALUES (?, ?, ?, ?, ?)",
			tripID, exp.ID, exp.Description, exp.Amount.String(), exp.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		if err := insertShares(ctx, tx, tripID, exp.ID, sidePaid, exp.PaidBy); err != nil {
			return err
		}
		if err := insertShares(ctx, tx, tripID, exp.ID, sideSplit, exp.SplitShares); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, tripID string, expenseID models.ExpenseID, side string, shares []models.Share) error {
	for i, share := range shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (trip_id, expense_id, side, position, person_id, amount) VALUES (?, ?, ?, ?, ?, ?)",
			tripID, expenseID, side, i, share.PersonID, share.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s share: %w", side, err)
		}
	}
	return nil
}
