package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplitter/internal/models"
)

func TestSnapshotRestore(t *testing.T) {
	l := newLedger(t, "A", "B", "C")
	_, err := l.AddExpense("shared", d("10"), amounts("A", "5", "B", "5"), amounts("A", "5", "B", "5"))
	require.NoError(t, err)
	require.NoError(t, l.RemovePerson("A"))
	_, err = l.AddExpense("taxi", d("12"), amounts("C", "12"), amounts("B", "6", "C", "6"))
	require.NoError(t, err)

	state := l.Snapshot()
	restored, err := Restore(state)
	require.NoError(t, err)

	assert.Equal(t, l.Names(), restored.Names())
	assert.Equal(t, l.Expenses(), restored.Expenses())
	assert.Equal(t, netByName(l), netByName(restored))

	// Counters carry over, so new IDs do not collide.
	require.True(t, restored.AddPerson("D"))
	dPerson, _ := restored.Lookup("D")
	assert.Equal(t, models.PersonID(4), dPerson.ID)
	id, err := restored.AddExpense("late", d("1"), amounts("D", "1"), amounts("D", "1"))
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseID(3), id)
}

func TestSnapshotIsDetached(t *testing.T) {
	l := newLedger(t, "A")
	_, err := l.AddExpense("x", d("1"), amounts("A", "1"), amounts("A", "1"))
	require.NoError(t, err)

	state := l.Snapshot()
	state.People[0].Name = "mutated"
	state.Expenses[0].PaidBy[0].Amount = d("50")

	assert.Equal(t, []string{"A"}, l.Names())
	assert.True(t, l.Expenses()[0].PaidBy[0].Amount.Equal(d("1")))
}

func TestRestore_FixesMissingCounters(t *testing.T) {
	restored, err := Restore(models.LedgerState{
		People: []models.Person{{ID: 7, Name: "A"}},
		Expenses: []models.Expense{{
			ID: 3, Description: "x", Amount: d("2"),
			PaidBy:      []models.Share{{PersonID: 7, Amount: d("2")}},
			SplitShares: []models.Share{{PersonID: 7, Amount: d("2")}},
		}},
	})
	require.NoError(t, err)

	require.True(t, restored.AddPerson("B"))
	b, _ := restored.Lookup("B")
	assert.Equal(t, models.PersonID(8), b.ID)
}

func TestRestore_RejectsInconsistentState(t *testing.T) {
	good := models.Share{PersonID: 1, Amount: d("2")}
	tests := []struct {
		name  string
		state models.LedgerState
	}{
		{
			name:  "duplicate active names",
			state: models.LedgerState{People: []models.Person{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}}},
		},
		{
			name:  "duplicate ids",
			state: models.LedgerState{People: []models.Person{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}},
		},
		{
			name: "share for unknown person",
			state: models.LedgerState{
				People: []models.Person{{ID: 1, Name: "A"}},
				Expenses: []models.Expense{{ID: 1, Description: "x", Amount: d("2"),
					PaidBy: []models.Share{{PersonID: 9, Amount: d("2")}}, SplitShares: []models.Share{good}}},
			},
		},
		{
			name: "unreconciled expense",
			state: models.LedgerState{
				People: []models.Person{{ID: 1, Name: "A"}},
				Expenses: []models.Expense{{ID: 1, Description: "x", Amount: d("3"),
					PaidBy: []models.Share{good}, SplitShares: []models.Share{good}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.state)
			assert.Error(t, err)
		})
	}
}

func TestRestore_DepartedNamesMayRepeat(t *testing.T) {
	_, err := Restore(models.LedgerState{People: []models.Person{
		{ID: 1, Name: "A", Departed: true},
		{ID: 2, Name: "A"},
	}})
	require.NoError(t, err)
}

func TestRestore_WrapsValidationError(t *testing.T) {
	_, err := Restore(models.LedgerState{
		People: []models.Person{{ID: 1, Name: "A"}},
		Expenses: []models.Expense{{ID: 1, Description: "x", Amount: d("0"),
			PaidBy: []models.Share{{PersonID: 1, Amount: d("0")}}, SplitShares: []models.Share{{PersonID: 1, Amount: d("0")}}}},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)
}
