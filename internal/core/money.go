// Package core holds the ledger domain model.
//
// This file contains the exact money representation and the parsing and
// formatting helpers used at the engine boundary. All arithmetic happens on
// integer cents; decimal strings exist only at the edges.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in integer minor units (cents).
// Entry amounts are always positive; balances may go negative.
type Money struct {
	Cents int64
}

// Validate checks that the amount is positive, as required for entry and
// recurrence amounts. Balances are not validated with this.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return &ValidationError{Field: "amount", Msg: "must be positive"}
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{Cents: m.Cents + other.Cents} }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return Money{Cents: m.Cents - other.Cents} }

// String formats the amount as a decimal with two fractional digits,
// e.g. "1234.56" or "-0.05". Formatting happens only at the boundary.
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// ParseDecimalToCents converts a decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When a
// comma is present it is taken as the decimal separator and any dots as
// thousands grouping, so "1.234,56" parses as 123456 cents. Digits past the
// second decimal place are resolved with round-half-to-even, so "0.125" and
// "0.135" both land on an even cent. Only positive amounts are accepted.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Msg: "cannot be empty"}
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, &ValidationError{Field: "amount", Msg: "must be positive"}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, &ValidationError{Field: "amount", Msg: "invalid decimal"}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, &ValidationError{Field: "amount", Msg: "invalid decimal"}
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Msg: "invalid decimal"}
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, &ValidationError{Field: "amount", Msg: "out of range"}
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 {
				fracCents += roundHalfEven(fracCents, fracPart[2:])
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, &ValidationError{Field: "amount", Msg: "must be positive"}
	}
	return cents, nil
}

// roundHalfEven decides whether the cent value rounds up given the digits
// beyond the second decimal place. Exactly half rounds to the even cent.
func roundHalfEven(cents int64, rest string) int64 {
	first := rest[0]
	switch {
	case first > '5':
		return 1
	case first < '5':
		return 0
	}
	// First extra digit is 5: any nonzero digit after it breaks the tie up.
	for i := 1; i < len(rest); i++ {
		if rest[i] != '0' {
			return 1
		}
	}
	if cents%2 != 0 {
		return 1
	}
	return 0
}

// CentsFromFloat normalizes an external floating-point amount to cents with
// round-half-to-even, the only place binary floats are allowed in.
func CentsFromFloat(f float64) int64 {
	// Format with three decimals and reuse the string path so ties are
	// resolved the same way everywhere.
	neg := f < 0
	if neg {
		f = -f
	}
	c, err := ParseDecimalToCents(strconv.FormatFloat(f, 'f', 3, 64))
	if err != nil {
		return 0
	}
	if neg {
		return -c
	}
	return c
}
