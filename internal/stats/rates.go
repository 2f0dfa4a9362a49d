package stats

import (
	"math"
	"strconv"
)

func applyBattingRates(s *BattingStat) {
	s.BattingAverage = ratio(float64(s.Hits), float64(s.AtBats), 3)
	s.OnBasePercentage = ratio(float64(s.Hits+s.Walks), float64(s.AtBats+s.Walks), 3)
	s.SluggingPercentage = ratio(float64(s.TotalBases()), float64(s.AtBats), 3)
	// OPS adds the two rounded rates, not the raw ones.
	s.OPS = Round(s.OnBasePercentage+s.SluggingPercentage, 3)
}

func applyPitchingRates(s *PitchingStat) {
	s.ERA = ratio(float64(s.EarnedRuns*9), s.InningsPitched, 2)
	s.WHIP = ratio(float64(s.HitsAllowed+s.WalksAllowed), s.InningsPitched, 2)
}

// ratio divides and rounds, returning 0 when the denominator is not positive.
func ratio(numerator, denominator float64, places int) float64 {
	if !(denominator > 0) {
		return 0
	}
	return Round(numerator/denominator, places)
}

// Round rounds v to the given number of decimal places using the exact
// binary value of v, with exact ties going to the even digit. This is the
// same answer a correctly rounded decimal conversion gives, so 2.675 rounds
// to 2.67 because the stored double is slightly below 2.675.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return 0
	}
	if r == 0 {
		return 0
	}
	return r
}
