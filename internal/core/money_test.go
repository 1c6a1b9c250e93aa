package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := ParseAmount(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"-200", "-200", true},
		{"+7.5", "7.5", true},
		{"0", "0", true},
		{".5", "0.5", true},
		{"1.005", "1.005", true}, // no rounding at parse time
		{" 2.50 ", "2.5", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"-", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"12abc", "", false},
		{"--1", "", false},
		{"1e3", "1000", true},
		{"-2.5E2", "-250", true},
		{"1e-2", "0.01", true},
		{"1,234", "", false}, // thousands separator, ambiguous
		{"1,2345", "1.2345", true},
		{"1.234,5", "", false},
		{"1e", "", false},
		{"e3", "", false},
		{"1e999", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		fn   func(string, decimal.Decimal) string
		sym  string
		in   string
		want string
	}{
		{FormatMoney, "Rs", "12.5", "Rs 12.50"},
		{FormatMoney, "Rs", "-12.5", "-Rs 12.50"},
		{FormatMoney, "Rs", "0.004", "Rs 0.00"},
		{FormatMoney, "Rs", "-0.004", "Rs 0.00"},
		{FormatMoney, "", "1.005", "1.01"},
		{FormatSigned, "Rs", "10", "+Rs 10.00"},
		{FormatSigned, "Rs", "-10", "-Rs 10.00"},
		{FormatMagnitude, "€", "-350", "€ 350.00"},
	}
	for _, tc := range cases {
		if got := tc.fn(tc.sym, decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
