// Package types provides common type aliases and utilities.
package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundingMode selects how a value exactly halfway between two steps is rounded.
type RoundingMode string

const (
	// RoundHalfUp rounds halves away from zero (2.345 -> 2.35, -2.345 -> -2.35).
	RoundHalfUp RoundingMode = "half_up"
	// RoundHalfEven rounds halves to the even neighbour (banker's rounding).
	RoundHalfEven RoundingMode = "half_even"
)

// ParseRoundingMode converts configuration text to a RoundingMode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoundHalfUp:
		return RoundHalfUp, nil
	case RoundHalfEven, "bank", "bankers":
		return RoundHalfEven, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}

// MoneyPolicy is the single place where monetary precision is decided.
// Every monetary field of a report goes through the same policy so that
// aggregating an already-rounded result again yields the same value.
type MoneyPolicy struct {
	Scale int32
	Mode  RoundingMode
}

// DefaultMoneyPolicy returns two decimal places, half away from zero.
func DefaultMoneyPolicy() MoneyPolicy {
	return MoneyPolicy{Scale: 2, Mode: RoundHalfUp}
}

// Round applies the policy to v.
func (p MoneyPolicy) Round(v Money) Money {
	if p.Mode == RoundHalfEven {
		return v.RoundBank(p.Scale)
	}
	return v.Round(p.Scale)
}

// Sum accumulates values at full precision and rounds the total once.
func (p MoneyPolicy) Sum(values ...Money) Money {
	return p.Round(SumPrecise(values...))
}

// Sub returns round(a - b).
func (p MoneyPolicy) Sub(a, b Money) Money {
	return p.Round(a.Sub(b))
}

// SumPrecise adds values without rounding.
func SumPrecise(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
