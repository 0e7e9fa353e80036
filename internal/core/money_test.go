package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"1.234,56", 123456, true},
		{"1.234.567,89", 123456789, true},
		{"12", 1200, true},
		{".50", 50, true},
		{"0.1", 10, true},
		// Round-half-to-even on the third decimal.
		{"0.125", 12, true},
		{"0.135", 14, true},
		{"0.1251", 13, true},
		{"12.346", 1235, true},
		{"12.344", 1234, true},
		{"", 0, false},
		{"-1.00", 0, false},
		{"+1.00", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Errorf("%q: unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{5, "0.05"},
		{-5, "-0.05"},
		{-150000, "-1500.00"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("%d cents: got %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 100}
	b := Money{Cents: 30}
	if a.Add(b).Cents != 130 {
		t.Fatal("add")
	}
	if a.Sub(b).Cents != 70 {
		t.Fatal("sub")
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{12.34, 1234},
		{-12.34, -1234},
		{0.1, 10},
		{1499.99, 149999},
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.want {
			t.Errorf("%v: got %d, want %d", tc.in, got, tc.want)
		}
	}
}
