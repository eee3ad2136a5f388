// Package ledger owns the people and expenses of one trip and keeps every
// committed expense internally consistent.
//
// A Ledger is not safe for concurrent use; callers serialize access.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/models"
)

// Ledger is the aggregate root for one trip.
type Ledger struct {
	// people is an arena: removed people stay with Departed set so that the
	// expenses they took part in still resolve.
	people        []models.Person
	expenses      []models.Expense
	nextPersonID  models.PersonID
	nextExpenseID models.ExpenseID
	now           func() time.Time
}

// Contribution is one expense together with a single person's amount in it.
type Contribution struct {
	Expense models.Expense
	Amount  decimal.Decimal
}

// Involvement partitions the expenses of a person. The same expense may
// appear on both sides.
type Involvement struct {
	PaidFor    []Contribution
	ConsumedIn []Contribution
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		nextPersonID:  1,
		nextExpenseID: 1,
		now:           time.Now,
	}
}

// AddPerson trims name and appends it to the roster. It returns false, and
// changes nothing, when the trimmed name is empty or already taken.
func (l *Ledger) AddPerson(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || l.activeIndex(name) >= 0 {
		return false
	}
	l.people = append(l.people, models.Person{ID: l.nextPersonID, Name: name})
	l.nextPersonID++
	return true
}

// RemovePerson takes a settled person off the roster.
//
// Expenses whose only participant was that person are dropped. Other
// expenses keep the person's shares, which now point at a departed entry;
// they still reconcile and no longer count towards anyone's balance.
func (l *Ledger) RemovePerson(name string) error {
	name = strings.TrimSpace(name)
	idx := l.activeIndex(name)
	if idx < 0 {
		return notFound(name)
	}
	person := l.people[idx]

	for _, b := range calculator.ComputeBalances(l.People(), l.expenses) {
		if b.PersonID == person.ID && !calculator.IsSettled(b.Net) {
			return &PendingBalanceError{Name: person.Name, Net: b.Net}
		}
	}

	l.people[idx].Departed = true

	kept := make([]models.Expense, 0, len(l.expenses))
	for _, exp := range l.expenses {
		parts := exp.Participants()
		if len(parts) == 1 && parts[0] == person.ID {
			continue
		}
		kept = append(kept, exp)
	}
	l.expenses = kept
	return nil
}

// AddExpense validates and commits a new expense. paidBy and splitShares map
// person names to amounts. Nothing changes when a *ValidationError is returned.
func (l *Ledger) AddExpense(description string, amount decimal.Decimal, paidBy, splitShares map[string]decimal.Decimal) (models.ExpenseID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, invalid("description", "description is required")
	}
	if !amount.IsPositive() {
		return 0, invalid("amount", "amount must be positive, got %s", amount)
	}

	paid, err := l.resolveShares("paid_by", paidBy)
	if err != nil {
		return 0, err
	}
	split, err := l.resolveShares("split_shares", splitShares)
	if err != nil {
		return 0, err
	}

	if err := reconcile("paid_by", "paid amounts", paid, amount); err != nil {
		return 0, err
	}
	if err := reconcile("split_shares", "split shares", split, amount); err != nil {
		return 0, err
	}

	exp := models.Expense{
		ID:          l.nextExpenseID,
		Description: description,
		Amount:      amount,
		PaidBy:      paid,
		SplitShares: split,
		CreatedAt:   l.now().Unix(),
	}
	l.nextExpenseID++
	l.expenses = append(l.expenses, exp)
	return exp.ID, nil
}

// ClearExpenses removes every expense.
func (l *Ledger) ClearExpenses() {
	l.expenses = nil
}

// SettleAll is the settle action: it clears the expense history, after which
// every balance is zero. It returns the number of expenses cleared.
func (l *Ledger) SettleAll() int {
	n := len(l.expenses)
	l.ClearExpenses()
	return n
}

// ExpensesInvolving returns the expenses a person paid for and the ones they consumed in.
func (l *Ledger) ExpensesInvolving(name string) (Involvement, error) {
	name = strings.TrimSpace(name)
	idx := l.activeIndex(name)
	if idx < 0 {
		return Involvement{}, notFound(name)
	}
	id := l.people[idx].ID

	var inv Involvement
	for _, exp := range l.expenses {
		if amount, ok := shareOf(exp.PaidBy, id); ok {
			inv.PaidFor = append(inv.PaidFor, Contribution{Expense: cloneExpense(exp), Amount: amount})
		}
		if amount, ok := shareOf(exp.SplitShares, id); ok {
			inv.ConsumedIn = append(inv.ConsumedIn, Contribution{Expense: cloneExpense(exp), Amount: amount})
		}
	}
	return inv, nil
}

// People returns the active roster in insertion order.
func (l *Ledger) People() []models.Person {
	people := make([]models.Person, 0, len(l.people))
	for _, p := range l.people {
		if !p.Departed {
			people = append(people, p)
		}
	}
	return people
}

// Names returns the names of the active roster in insertion order.
func (l *Ledger) Names() []string {
	var names []string
	for _, p := range l.People() {
		names = append(names, p.Name)
	}
	return names
}

// Lookup finds an active person by name, ignoring surrounding whitespace.
func (l *Ledger) Lookup(name string) (models.Person, bool) {
	idx := l.activeIndex(strings.TrimSpace(name))
	if idx < 0 {
		return models.Person{}, false
	}
	return l.people[idx], true
}

// Person resolves an ID, including departed people.
func (l *Ledger) Person(id models.PersonID) (models.Person, bool) {
	for _, p := range l.people {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// Expenses returns a copy of the expenses in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	expenses := make([]models.Expense, len(l.expenses))
	for i, exp := range l.expenses {
		expenses[i] = cloneExpense(exp)
	}
	return expenses
}

func (l *Ledger) activeIndex(name string) int {
	for i, p := range l.people {
		if !p.Departed && p.Name == name {
			return i
		}
	}
	return -1
}

// resolveShares turns a name -> amount map into shares in roster order.
func (l *Ledger) resolveShares(field string, byName map[string]decimal.Decimal) ([]models.Share, error) {
	if len(byName) == 0 {
		return nil, invalid(field, "at least one person is required")
	}

	var unknown []string
	for name := range byName {
		if l.activeIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalid(field, "%q is not a member of the trip", unknown[0])
	}

	shares := make([]models.Share, 0, len(byName))
	for _, p := range l.people {
		if p.Departed {
			continue
		}
		amount, ok := byName[p.Name]
		if !ok {
			continue
		}
		if !amount.IsPositive() {
			return nil, invalid(field, "amount for %s must be positive, got %s", p.Name, amount)
		}
		shares = append(shares, models.Share{PersonID: p.ID, Amount: amount})
	}
	return shares, nil
}

func reconcile(field, what string, shares []models.Share, amount decimal.Decimal) error {
	sum := sumShares(shares)
	if sum.Sub(amount).Abs().GreaterThan(calculator.Tolerance) {
		return invalid(field, "the sum of %s (%s) must equal the total amount (%s)", what, sum, amount)
	}
	return nil
}

func sumShares(shares []models.Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func shareOf(shares []models.Share, id models.PersonID) (decimal.Decimal, bool) {
	for _, s := range shares {
		if s.PersonID == id {
			return s.Amount, true
		}
	}
	return decimal.Zero, false
}

func cloneExpense(exp models.Expense) models.Expense {
	exp.PaidBy = append([]models.Share(nil), exp.PaidBy...)
	exp.SplitShares = append([]models.Share(nil), exp.SplitShares...)
	return exp
}
