package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplitter/internal/models"
)

// Tolerance is the absolute difference under which two amounts are treated as equal.
var Tolerance = decimal.NewFromFloat(0.01)

// Balance represents the balance information for one person.
type Balance struct {
	PersonID models.PersonID
	Name     string
	Paid     decimal.Decimal // Total amount paid across all expenses
	Owed     decimal.Decimal // Total amount consumed across all expenses
	Net      decimal.Decimal // Positive = owed money, Negative = owes money
}

// Transfer is one payment that moves a debtor towards zero.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// ComputeBalances derives a net balance for every person from the given expenses.
// The result has one entry per person, in the order of people.
// Shares that reference someone outside people (a departed member) are ignored.
//
// Algorithm:
//   - For each expense: every payer's contribution is added to their Paid
//   - For each expense: every consumer's share is added to their Owed
//   - net = paid - owed
func ComputeBalances(people []models.Person, expenses []models.Expense) []Balance {
	balances := make([]Balance, len(people))
	index := make(map[models.PersonID]int, len(people))
	for i, p := range people {
		balances[i] = Balance{PersonID: p.ID, Name: p.Name}
		index[p.ID] = i
	}

	for _, exp := range expenses {
		for _, s := range exp.PaidBy {
			if i, ok := index[s.PersonID]; ok {
				balances[i].Paid = balances[i].Paid.Add(s.Amount)
			}
		}
		for _, s := range exp.SplitShares {
			if i, ok := index[s.PersonID]; ok {
				balances[i].Owed = balances[i].Owed.Add(s.Amount)
			}
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].Paid.Sub(balances[i].Owed)
	}
	return balances
}

// IsSettled reports whether a net balance is within tolerance of zero.
func IsSettled(net decimal.Decimal) bool {
	return net.Abs().LessThanOrEqual(Tolerance)
}

// IsGroupSettled reports whether every balance is settled.
func IsGroupSettled(balances []Balance) bool {
	for _, b := range balances {
		if !IsSettled(b.Net) {
			return false
		}
	}
	return true
}

// Outstanding returns the balances that are not settled, in their original order.
func Outstanding(balances []Balance) []Balance {
	var out []Balance
	for _, b := range balances {
		if !IsSettled(b.Net) {
			out = append(out, b)
		}
	}
	return out
}

// SimplifyDebts turns net balances into a list of transfers that settles everyone.
//
// Greedy algorithm: the largest debtor pays the largest creditor, the smaller of
// the two amounts moves, whoever reaches zero is done. Ties keep input order.
// Transfers within tolerance are dropped as floating noise from upstream rounding.
func SimplifyDebts(balances []Balance) []Transfer {
	type party struct {
		name   string
		amount decimal.Decimal
	}

	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case IsSettled(b.Net):
		case b.Net.IsPositive():
			creditors = append(creditors, party{b.Name, b.Net})
		default:
			debtors = append(debtors, party{b.Name, b.Net.Neg()})
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount.GreaterThan(debtors[j].amount) })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount.GreaterThan(creditors[j].amount) })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := decimal.Min(d.amount, c.amount)
		if amount.GreaterThan(Tolerance) {
			transfers = append(transfers, Transfer{From: d.name, To: c.name, Amount: amount})
		}

		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)

		if d.amount.LessThanOrEqual(Tolerance) {
			i++
		}
		if c.amount.LessThanOrEqual(Tolerance) {
			j++
		}
	}
	return transfers
}
