package service

import (
	"github.com/mmynk/tripsplitter/internal/api"
	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/models"
)

func toAPITrip(trip *models.Trip) api.Trip {
	return api.Trip{
		ID:        trip.ID,
		Name:      trip.Name,
		CreatedAt: trip.CreatedAt,
	}
}

func toAPIPeople(people []models.Person) []api.Person {
	out := make([]api.Person, len(people))
	for i, p := range people {
		out[i] = api.Person{ID: int64(p.ID), Name: p.Name}
	}
	return out
}

// toAPIShares resolves person IDs to names. Departed people still resolve
// through the ledger's arena.
func toAPIShares(l *ledger.Ledger, shares []models.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, s := range shares {
		p, _ := l.Person(s.PersonID)
		out[i] = api.Share{
			Name:     p.Name,
			Amount:   s.Amount.String(),
			Departed: p.Departed,
		}
	}
	return out
}

func toAPIExpense(l *ledger.Ledger, exp models.Expense) api.Expense {
	return api.Expense{
		ID:          int64(exp.ID),
		Description: exp.Description,
		Amount:      exp.Amount.String(),
		PaidBy:      toAPIShares(l, exp.PaidBy),
		SplitShares: toAPIShares(l, exp.SplitShares),
		CreatedAt:   exp.CreatedAt,
	}
}

func toAPIContributions(l *ledger.Ledger, contributions []ledger.Contribution) []api.Contribution {
	out := make([]api.Contribution, len(contributions))
	for i, c := range contributions {
		out[i] = api.Contribution{
			Expense: toAPIExpense(l, c.Expense),
			Amount:  c.Amount.String(),
		}
	}
	return out
}

func toAPIBalances(balances []calculator.Balance) []api.Balance {
	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{
			Name:    b.Name,
			Paid:    b.Paid.StringFixed(2),
			Owed:    b.Owed.StringFixed(2),
			Net:     b.Net.StringFixed(2),
			Settled: calculator.IsSettled(b.Net),
		}
	}
	return out
}

func toAPITransfers(transfers []calculator.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount.StringFixed(2)}
	}
	return out
}
