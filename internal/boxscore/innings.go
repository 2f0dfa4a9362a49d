package boxscore

import (
	"math"
	"strconv"
	"strings"
)

// ParseInnings converts baseball innings notation to a decimal number of
// innings. The digit after the point counts outs, not tenths: "6.1" is six
// innings and one out (6 1/3), "6.2" is 6 2/3. Any other fractional digits
// are divided by three. Empty or unparseable input yields 0.
func ParseInnings(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	whole, fraction, found := strings.Cut(s, ".")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	if strings.Contains(fraction, ".") {
		return 0
	}

	wholeInnings := 0
	if whole != "" {
		n, err := strconv.Atoi(whole)
		if err != nil {
			return 0
		}
		wholeInnings = n
	}

	var outs float64
	switch fraction {
	case "1":
		outs = 1.0 / 3.0
	case "2":
		outs = 2.0 / 3.0
	default:
		if isDigits(fraction) {
			n, err := strconv.Atoi(fraction)
			if err != nil {
				return 0
			}
			outs = float64(n) / 3
		}
	}

	return float64(wholeInnings) + outs
}

// FormatInnings renders a decimal innings total back into notation, e.g.
// 6.333 -> "6.1".
func FormatInnings(ip float64) string {
	if ip <= 0 || math.IsNaN(ip) || math.IsInf(ip, 0) {
		return "0.0"
	}
	outs := int(math.Round(ip * 3))
	return strconv.Itoa(outs/3) + "." + strconv.Itoa(outs%3)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
