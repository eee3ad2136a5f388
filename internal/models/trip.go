package models

import "github.com/shopspring/decimal"

// PersonID identifies a person within one ledger. IDs are never reused.
type PersonID int64

// ExpenseID identifies an expense within one ledger. IDs are assigned in
// increasing order and never reused, even after the expenses are cleared.
type ExpenseID int64

// Person is a member of a trip.
type Person struct {
	ID PersonID

	// Name is the trimmed, case-sensitive display name.
	// Unique among the active people of a ledger.
	Name string

	// Departed is set once the person has been removed from the roster.
	// The entry is kept so that older expenses still resolve.
	Departed bool
}

// Share is one person's amount on one side of an expense.
type Share struct {
	PersonID PersonID
	Amount   decimal.Decimal
}

// Expense represents one itemized cost.
type Expense struct {
	ID          ExpenseID
	Description string

	// Amount is the total cost of the expense.
	Amount decimal.Decimal

	// PaidBy lists who paid and how much. Sums to Amount.
	PaidBy []Share

	// SplitShares lists who consumed and how much. Sums to Amount.
	SplitShares []Share

	// CreatedAt is the Unix timestamp when the expense was committed.
	CreatedAt int64
}

// Participants returns the IDs involved in the expense on either side,
// payers first, without duplicates.
func (e Expense) Participants() []PersonID {
	seen := make(map[PersonID]bool, len(e.PaidBy)+len(e.SplitShares))
	var ids []PersonID
	for _, side := range [][]Share{e.PaidBy, e.SplitShares} {
		for _, s := range side {
			if !seen[s.PersonID] {
				seen[s.PersonID] = true
				ids = append(ids, s.PersonID)
			}
		}
	}
	return ids
}

// LedgerState is the serializable form of one trip's ledger.
type LedgerState struct {
	// People includes departed people, in insertion order.
	People []Person

	// Expenses in insertion order.
	Expenses []Expense

	// NextPersonID and NextExpenseID are the next IDs the ledger will assign.
	NextPersonID  PersonID
	NextExpenseID ExpenseID
}

// Trip is a named ledger owned by a user.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Kyoto 2025").
	Name string

	// OwnerID is the ID of the user who created the trip.
	OwnerID string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}
