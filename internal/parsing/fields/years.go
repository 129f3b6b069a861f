package fields

import "strconv"

// extractExperienceYears prefers an explicit "N years of experience"
// statement, taking the largest claim when several appear. Without one it
// falls back to summing the spans of all closed year ranges in the text.
func extractExperienceYears(text string) int {
	best := 0
	for _, m := range explicitYearsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	if best > 0 {
		return best
	}

	total := 0
	for _, m := range yearRangePattern.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if span := end - start; span > 0 {
			total += span
		}
	}
	return total
}
