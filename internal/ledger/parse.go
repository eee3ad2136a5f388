package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount. Empty or non-numeric input is a
// *ValidationError; it is never read as zero.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid(field, "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "%q is not a number", s)
	}
	return d, nil
}

// ParseShares parses a name -> amount map of user-entered values.
// A single bad entry rejects the whole map.
func ParseShares(field string, raw map[string]string) (map[string]decimal.Decimal, error) {
	shares := make(map[string]decimal.Decimal, len(raw))
	for name, value := range raw {
		amount, err := ParseAmount(field, value)
		if err != nil {
			return nil, invalid(field, "%s: %s", name, err.(*ValidationError).Reason)
		}
		shares[name] = amount
	}
	return shares, nil
}
