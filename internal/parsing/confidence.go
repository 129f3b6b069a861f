package parsing

import "math"

// confidenceScore grades how much of the expected resume structure was
// actually recovered. Each checklist item weighs the same; the score is the
// present fraction rounded to two decimals.
func confidenceScore(p *Profile) float64 {
	checks := []bool{
		p.RawText != "",
		len(p.Skills) > 0,
		len(p.Experience) > 0,
		len(p.Education) > 0,
		p.PersonalInfo.Name != "",
		p.PersonalInfo.Email != "",
	}

	present := 0
	for _, ok := range checks {
		if ok {
			present++
		}
	}
	return round2(float64(present) / float64(len(checks)))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
