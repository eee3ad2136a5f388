package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants = errors.New("at least one participant is required")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrDuplicateName  = errors.New("participant listed more than once")
)

// cent is the smallest share FairSplit hands out.
var cent = decimal.New(1, -2)

// NamedShare is one person's pre-filled share of an amount.
type NamedShare struct {
	Name   string
	Amount decimal.Decimal
}

// EvenSplit divides amount by the number of names and rounds each share to two
// decimals. Every person gets the same value, so the shares may not add up to
// amount: 100 across three people gives 33.33 each, 99.99 in total. The drift is
// at most (len(names)-1) * 0.005.
func EvenSplit(amount decimal.Decimal, names []string) (map[string]decimal.Decimal, error) {
	share, err := evenShare(amount, names)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]decimal.Decimal, len(names))
	for _, name := range names {
		shares[name] = share
	}
	return shares, nil
}

// FairSplit gives every person amount/len(names) rounded down to the cent and
// hands the remainder to the last person, so the shares always add up to
// exactly amount and none of them is below one cent. Amounts too small to give
// everyone a cent are rejected with ErrInvalidAmount.
func FairSplit(amount decimal.Decimal, names []string) ([]NamedShare, error) {
	if err := checkSplit(amount, names); err != nil {
		return nil, err
	}
	n := decimal.NewFromInt(int64(len(names)))
	if amount.LessThan(cent.Mul(n)) {
		return nil, ErrInvalidAmount
	}
	share := amount.Div(n).RoundFloor(2)

	shares := make([]NamedShare, len(names))
	distributed := decimal.Zero
	for i, name := range names {
		shares[i] = NamedShare{Name: name, Amount: share}
		distributed = distributed.Add(share)
	}

	last := &shares[len(shares)-1]
	last.Amount = last.Amount.Add(amount.Sub(distributed))
	return shares, nil
}

func evenShare(amount decimal.Decimal, names []string) (decimal.Decimal, error) {
	if err := checkSplit(amount, names); err != nil {
		return decimal.Zero, err
	}
	return amount.Div(decimal.NewFromInt(int64(len(names)))).Round(2), nil
}

func checkSplit(amount decimal.Decimal, names []string) error {
	if len(names) == 0 {
		return ErrNoParticipants
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
	}
	return nil
}
