package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/models"
)

// Snapshot returns a deep copy of the ledger suitable for persistence.
func (l *Ledger) Snapshot() models.LedgerState {
	return models.LedgerState{
		People:        append([]models.Person(nil), l.people...),
		Expenses:      l.Expenses(),
		NextPersonID:  l.nextPersonID,
		NextExpenseID: l.nextExpenseID,
	}
}

// Restore rebuilds a ledger from a snapshot. It rejects state that no
// sequence of ledger operations could have produced.
func Restore(state models.LedgerState) (*Ledger, error) {
	l := New()

	ids := make(map[models.PersonID]bool, len(state.People))
	active := make(map[string]bool, len(state.People))
	var maxPerson models.PersonID
	for _, p := range state.People {
		if p.ID <= 0 || ids[p.ID] {
			return nil, fmt.Errorf("restoring ledger: invalid or duplicate person id %d", p.ID)
		}
		ids[p.ID] = true
		if !p.Departed {
			if active[p.Name] {
				return nil, fmt.Errorf("restoring ledger: duplicate person %q", p.Name)
			}
			active[p.Name] = true
		}
		if p.ID > maxPerson {
			maxPerson = p.ID
		}
	}

	var maxExpense models.ExpenseID
	seen := make(map[models.ExpenseID]bool, len(state.Expenses))
	for _, exp := range state.Expenses {
		if seen[exp.ID] {
			return nil, fmt.Errorf("restoring ledger: duplicate expense id %d", exp.ID)
		}
		seen[exp.ID] = true
		if err := checkStoredExpense(exp, ids); err != nil {
			return nil, fmt.Errorf("restoring ledger: expense %d: %w", exp.ID, err)
		}
		if exp.ID > maxExpense {
			maxExpense = exp.ID
		}
	}

	l.people = append(l.people, state.People...)
	for _, exp := range state.Expenses {
		l.expenses = append(l.expenses, cloneExpense(exp))
	}
	l.nextPersonID = max(state.NextPersonID, maxPerson+1)
	l.nextExpenseID = max(state.NextExpenseID, maxExpense+1)
	return l, nil
}

func checkStoredExpense(exp models.Expense, ids map[models.PersonID]bool) error {
	if !exp.Amount.IsPositive() {
		return invalid("amount", "amount must be positive, got %s", exp.Amount)
	}
	for _, side := range []struct {
		field  string
		shares []models.Share
	}{{"paid_by", exp.PaidBy}, {"split_shares", exp.SplitShares}} {
		if len(side.shares) == 0 {
			return invalid(side.field, "at least one person is required")
		}
		sum := decimal.Zero
		for _, s := range side.shares {
			if !ids[s.PersonID] {
				return invalid(side.field, "unknown person id %d", s.PersonID)
			}
			sum = sum.Add(s.Amount)
		}
		if sum.Sub(exp.Amount).Abs().GreaterThan(calculator.Tolerance) {
			return invalid(side.field, "sum %s does not match amount %s", sum, exp.Amount)
		}
	}
	return nil
}

// WithClock replaces the time source used for expense timestamps.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}
