package boxscore

import (
	"math"
	"testing"
)

func TestParseInnings(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"6.1", 6 + 1.0/3.0},
		{"6.2", 6 + 2.0/3.0},
		{"6", 6},
		{"6.0", 6},
		{"0.1", 1.0 / 3.0},
		{".2", 2.0 / 3.0},
		{"6.5", 6 + 5.0/3.0},
		{"6.x", 6},
		{"6.", 6},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"abc.1", 0},
		{"1.2.3", 0},
		{"NaN", 0},
	}

	for _, tc := range cases {
		if got := ParseInnings(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseInnings(%q): expected %.6f, got %.6f", tc.in, tc.want, got)
		}
	}
}

func TestParseInningsIsNotDecimal(t *testing.T) {
	if got := ParseInnings("6.1"); math.Abs(got-6.1) < 1e-9 {
		t.Fatalf("expected third-of-an-inning conversion, got plain decimal %.4f", got)
	}
}

func TestFormatInnings(t *testing.T) {
	if got := FormatInnings(6 + 1.0/3.0); got != "6.1" {
		t.Fatalf("expected 6.1, got %s", got)
	}
	if got := FormatInnings(ParseInnings("6.2") + ParseInnings("2.1")); got != "9.0" {
		t.Fatalf("expected 9.0, got %s", got)
	}
	if got := FormatInnings(0); got != "0.0" {
		t.Fatalf("expected 0.0, got %s", got)
	}
}
