package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvenSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		names        []string
		wantErr      error
		validateFunc func(t *testing.T, shares map[string]decimal.Decimal)
	}{
		{
			name:   "three people, every share rounded independently",
			amount: dec("100"),
			names:  []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, shares map[string]decimal.Decimal) {
				// 100 / 3 = 33.333... -> 33.33 each, total 99.99
				sum := decimal.Zero
				for _, name := range []string{"A", "B", "C"} {
					if !shares[name].Equal(dec("33.33")) {
						t.Errorf("%s share = %s, want 33.33", name, shares[name])
					}
					sum = sum.Add(shares[name])
				}
				if !sum.Equal(dec("99.99")) {
					t.Errorf("sum = %s, want 99.99", sum)
				}
				if dec("100").Sub(sum).Abs().GreaterThan(Tolerance) {
					t.Errorf("drift %s exceeds tolerance", dec("100").Sub(sum))
				}
			},
		},
		{
			name:   "two people, exact division",
			amount: dec("33"),
			names:  []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, shares map[string]decimal.Decimal) {
				for _, name := range []string{"Alice", "Bob"} {
					if !shares[name].Equal(dec("16.5")) {
						t.Errorf("%s share = %s, want 16.50", name, shares[name])
					}
				}
			},
		},
		{
			name:   "rounds half away from zero",
			amount: dec("0.05"),
			names:  []string{"A", "B"},
			validateFunc: func(t *testing.T, shares map[string]decimal.Decimal) {
				if !shares["A"].Equal(dec("0.03")) {
					t.Errorf("A share = %s, want 0.03", shares["A"])
				}
			},
		},
		{
			name:    "no people should error",
			amount:  dec("10"),
			names:   []string{},
			wantErr: ErrNoParticipants,
		},
		{
			name:    "zero amount should error",
			amount:  decimal.Zero,
			names:   []string{"A"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount should error",
			amount:  dec("-5"),
			names:   []string{"A"},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EvenSplit(tt.amount, tt.names)
			if err != tt.wantErr {
				t.Fatalf("EvenSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestEvenSplit_DriftGrowsWithGroupSize(t *testing.T) {
	// 1 across 7 people: 0.142857 -> 0.14 each, 0.98 in total.
	// The 0.02 drift is beyond tolerance, which is why FairSplit exists.
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	shares, err := EvenSplit(dec("1"), names)
	if err != nil {
		t.Fatalf("EvenSplit() error = %v", err)
	}
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	if !sum.Equal(dec("0.98")) {
		t.Errorf("sum = %s, want 0.98", sum)
	}
	if !dec("1").Sub(sum).GreaterThan(Tolerance) {
		t.Errorf("expected drift beyond tolerance, got %s", dec("1").Sub(sum))
	}
}

func TestFairSplit(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		names  []string
		want   []string
	}{
		{"last person absorbs missing cent", "100", []string{"A", "B", "C"}, []string{"33.33", "33.33", "33.34"}},
		{"remainder is never negative", "2", []string{"A", "B", "C"}, []string{"0.66", "0.66", "0.68"}},
		{"exact division untouched", "90", []string{"A", "B", "C"}, []string{"30", "30", "30"}},
		{"single person takes everything", "12.34", []string{"A"}, []string{"12.34"}},
		{"large group stays exact", "1", []string{"A", "B", "C", "D", "E", "F", "G"}, []string{"0.14", "0.14", "0.14", "0.14", "0.14", "0.14", "0.16"}},
		{"one cent each with remainder on last", "0.06", []string{"A", "B", "C", "D"}, []string{"0.01", "0.01", "0.01", "0.03"}},
		{"tiny amount across ten people", "0.15", []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
			[]string{"0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.01", "0.06"}},
		{"exactly one cent each", "0.03", []string{"A", "B", "C"}, []string{"0.01", "0.01", "0.01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := FairSplit(dec(tt.amount), tt.names)
			if err != nil {
				t.Fatalf("FairSplit() error = %v", err)
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}
			sum := decimal.Zero
			for i, s := range shares {
				if s.Name != tt.names[i] {
					t.Errorf("share %d name = %s, want %s", i, s.Name, tt.names[i])
				}
				if !s.Amount.Equal(dec(tt.want[i])) {
					t.Errorf("share %d amount = %s, want %s", i, s.Amount, tt.want[i])
				}
				if !s.Amount.IsPositive() {
					t.Errorf("share %d amount = %s, want > 0", i, s.Amount)
				}
				sum = sum.Add(s.Amount)
			}
			if !sum.Equal(dec(tt.amount)) {
				t.Errorf("sum = %s, want %s", sum, tt.amount)
			}
		})
	}
}

func TestFairSplit_Errors(t *testing.T) {
	if _, err := FairSplit(dec("10"), nil); err != ErrNoParticipants {
		t.Errorf("FairSplit(nil names) error = %v, want %v", err, ErrNoParticipants)
	}
	if _, err := FairSplit(decimal.Zero, []string{"A"}); err != ErrInvalidAmount {
		t.Errorf("FairSplit(0) error = %v, want %v", err, ErrInvalidAmount)
	}
	if _, err := FairSplit(dec("0.01"), []string{"A", "B", "C"}); err != ErrInvalidAmount {
		t.Errorf("FairSplit(0.01 over 3) error = %v, want %v", err, ErrInvalidAmount)
	}
	if _, err := FairSplit(dec("0.02"), []string{"A", "B", "C"}); err != ErrInvalidAmount {
		t.Errorf("FairSplit(0.02 over 3) error = %v, want %v", err, ErrInvalidAmount)
	}
}

func TestSplit_DuplicateNames(t *testing.T) {
	names := []string{"A", "B", "A"}
	if _, err := EvenSplit(dec("30"), names); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("EvenSplit() error = %v, want %v", err, ErrDuplicateName)
	}
	if _, err := FairSplit(dec("30"), names); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("FairSplit() error = %v, want %v", err, ErrDuplicateName)
	}
}
