package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
		ok  bool
	}{
		{12.34, 1234, true},
		{12.345, 1235, true}, // half-up rounding
		{0.01, 1, true},
		{0, 0, false},
		{-4.5, 0, false},
	}
	for _, tc := range cases {
		got, err := CentsFromFloat(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%v expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%v expected error", tc.in)
			}
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Decimal(); got != tc.want {
			t.Fatalf("Decimal(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		out  int64
		fail bool
	}{
		{`{"cents":1234,"decimal":"12.34"}`, 1234, false},
		{`1234`, 1234, false},
		{`"12.34"`, 1234, false},
		{`"12,34"`, 1234, false},
		{`"-1"`, 0, true},
		{`"abc"`, 0, true},
	}
	for _, tc := range cases {
		var m Money
		err := json.Unmarshal([]byte(tc.in), &m)
		if tc.fail {
			if err == nil {
				t.Fatalf("%s expected error", tc.in)
			}
			continue
		}
		if err != nil || m.Cents != tc.out {
			t.Fatalf("%s expected %d cents, got %d (err=%v)", tc.in, tc.out, m.Cents, err)
		}
	}
}
