package fields

import "strings"

// extractExperience anchors entries on lines carrying a date range and
// resolves the title/company pair from the anchor line and its closest
// neighbors, nearest first. Resumes usually put the role heading directly
// above its dates, so lines above are preferred over lines below.
func extractExperience(lines []string) []ExperienceEntry {
	type key struct{ company, title, dates string }
	seen := make(map[key]struct{})
	var entries []ExperienceEntry

	for i, line := range lines {
		if len(entries) >= maxEntries {
			break
		}
		if !isDateAnchor(line) || isSectionHeader(line) {
			continue
		}

		entry := ExperienceEntry{Dates: dateText(line)}
		pairIdx := -1

		for _, j := range []int{i, i - 1, i + 1, i - 2, i + 2} {
			if j < 0 || j >= len(lines) {
				continue
			}
			if (j != i && isDateAnchor(lines[j])) || isSectionHeader(lines[j]) {
				continue
			}
			candidate := stripDates(lines[j])
			if candidate == "" {
				continue
			}
			if m := titleAtCompanyPattern.FindStringSubmatch(candidate); m != nil {
				entry.Title = strings.TrimSpace(m[1])
				entry.Company = strings.Trim(strings.TrimSpace(m[2]), ".,;")
				pairIdx = j
				break
			}
			if containsRoleKeyword(candidate) {
				entry.Title = candidate
				pairIdx = j
				break
			}
		}

		if entry.Title == "" {
			continue
		}
		if pairIdx <= i {
			entry.Description = descriptionAfter(lines, i)
		}

		k := key{entry.Company, entry.Title, entry.Dates}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}

// descriptionAfter returns the line following a date anchor when it reads as
// free text rather than another heading, anchor or section marker.
func descriptionAfter(lines []string, i int) string {
	j := i + 1
	if j >= len(lines) {
		return ""
	}
	line := lines[j]
	if line == "" || isDateAnchor(line) || isSectionHeader(line) {
		return ""
	}
	if titleAtCompanyPattern.MatchString(stripDates(line)) {
		return ""
	}
	return line
}
