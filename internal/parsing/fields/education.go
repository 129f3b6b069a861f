package fields

import "strings"

// extractEducation anchors entries on degree-keyword matches. The
// institution and dates are taken from the anchor line itself or the two
// lines below it, which covers the usual degree/institution/year stacking.
func extractEducation(lines []string) []EducationEntry {
	type key struct{ degree, institution, dates string }
	seen := make(map[key]struct{})
	var entries []EducationEntry

	for i, line := range lines {
		if len(entries) >= maxEntries {
			break
		}
		if line == "" || isSectionHeader(line) || !degreePattern.MatchString(line) {
			continue
		}

		entry := EducationEntry{}

		for j := i; j <= i+2 && j < len(lines); j++ {
			if entry.Institution == "" {
				if m := institutionPattern.FindString(lines[j]); m != "" {
					entry.Institution = strings.Trim(m, " .,")
				}
			}
			if entry.Dates == "" {
				entry.Dates = dateText(lines[j])
			}
		}

		degree := line
		if entry.Institution != "" {
			degree = strings.ReplaceAll(degree, entry.Institution, "")
		}
		entry.Degree = stripDates(degree)
		if entry.Degree == "" {
			continue
		}

		k := key{entry.Degree, entry.Institution, entry.Dates}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}
