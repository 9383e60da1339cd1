package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-precision currency amount. It marshals as a JSON string
// with exactly two decimal places ("1500.00") and accepts either a string or
// a bare number on input.
type Money struct {
	dec decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// MoneyFromString parses a decimal string such as "1500.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{dec: d}, nil
}

// MustMoney parses s and panics on error. Intended for tests and seed data.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money       { return Money{dec: m.dec.Add(o.dec)} }
func (m Money) IsZero() bool            { return m.dec.IsZero() }
func (m Money) IsNegative() bool        { return m.dec.IsNegative() }
func (m Money) IsPositive() bool        { return m.dec.IsPositive() }
func (m Money) Equal(o Money) bool      { return m.dec.Equal(o.dec) }
func (m Money) InexactFloat64() float64 { return m.dec.InexactFloat64() }

// DivInt divides by a count, rounding half-up to two decimal places.
func (m Money) DivInt(n int) Money {
	if n == 0 {
		return Zero
	}
	return Money{dec: m.dec.DivRound(decimal.NewFromInt(int64(n)), 2)}
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.dec.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*m = Zero
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := MoneyFromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds up a slice of amounts.
func SumMoney(amounts []Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

var _ json.Marshaler = Money{}
var _ json.Unmarshaler = (*Money)(nil)
