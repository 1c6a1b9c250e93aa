// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing signed monetary amounts from
// strings and formatting them for display. Amounts are kept at full
// precision; rounding to two places happens only when formatting.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a signed decimal string to a decimal amount.
//
// It accepts a dot (12.34) or a single decimal comma (12,34), an optional
// leading sign and an optional exponent (1e3). A comma followed by exactly
// three digits (1,234) is rejected: it reads as a thousands separator and
// guessing either way would silently change the amount. Positive values are
// income, negative values are expenses. Zero is accepted. Anything else
// (empty input, letters, several separators, NaN, Inf) returns
// ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("-12,34") -> -12.34, nil
//	ParseAmount("+7")     -> 7, nil
//	ParseAmount("1e3")    -> 1000, nil
//	ParseAmount("1,234")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	exp := ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp = s[i+1:]
		s = s[:i]
		if !validExponent(exp) {
			return decimal.Zero, ErrInvalidAmount
		}
	}

	if i := strings.IndexByte(s, ','); i >= 0 {
		if strings.Contains(s, ".") || len(s)-i-1 == 3 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	digits := 0
	for _, p := range parts {
		if !allDigits(p) {
			return decimal.Zero, ErrInvalidAmount
		}
		digits += len(p)
	}
	if digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	if parts[0] == "" {
		parts[0] = "0"
	}
	s = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		s += "." + parts[1]
	}
	if exp != "" {
		s += "e" + exp
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// maxExponentDigits keeps exponents to amounts a budget can hold.
const maxExponentDigits = 2

func validExponent(e string) bool {
	if e != "" && (e[0] == '-' || e[0] == '+') {
		e = e[1:]
	}
	return e != "" && len(e) <= maxExponentDigits && allDigits(e)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatMoney renders an amount rounded to two places, e.g. "Rs 12.50" or
// "-Rs 12.50".
func FormatMoney(symbol string, d decimal.Decimal) string {
	s := withSymbol(symbol, d.Abs().StringFixed(2))
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// FormatSigned renders an amount with an explicit sign, as shown in the
// transaction list: "+Rs 10.00" for income, "-Rs 10.00" for expenses.
func FormatSigned(symbol string, d decimal.Decimal) string {
	sign := "+"
	if d.IsNegative() {
		sign = "-"
	}
	return sign + withSymbol(symbol, d.Abs().StringFixed(2))
}

// FormatMagnitude renders the absolute value, used for expense totals.
func FormatMagnitude(symbol string, d decimal.Decimal) string {
	return withSymbol(symbol, d.Abs().StringFixed(2))
}

func withSymbol(symbol, amount string) string {
	if symbol == "" {
		return amount
	}
	return symbol + " " + amount
}
