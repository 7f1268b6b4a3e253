// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyPlaces matches the numeric(10,2) columns.
const moneyPlaces = 2

// Money is a rupee amount with two decimal places. It scans from and
// stores to numeric columns through the embedded decimal and always
// renders with both places, so 1299 goes out as "1299.00".
type Money struct {
	decimal.Decimal
}

// NewMoney parses an amount such as "1299.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Money{d}, nil
}

// MustMoney is NewMoney for literals; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Equal compares amounts by value, ignoring scale.
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) String() string {
	return m.StringFixed(moneyPlaces)
}

// MarshalJSON encodes the amount as a quoted string with two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// MinorUnits converts an amount to the processor's smallest currency unit,
// rounding half away from zero.
func MinorUnits(amount Money) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
