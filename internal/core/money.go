// Package core holds the expense ledger's domain model: records, money,
// and the pure projection engine that derives totals from a record set.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a positive monetary magnitude in integer cents. All aggregation
// happens on cents so sums stay exact no matter how many entries accumulate.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// ParseMoney converts a user-entered decimal string to Money with half-up
// rounding past the second decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Zero, negative, and non-numeric input is rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() || !cents.IsInteger() {
		return Money{}, ErrInvalidAmount
	}
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// String formats the amount with two decimal places, e.g. "12.34".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
