// Package fields extracts structured resume fields (contact details, work
// history, education history, total experience) from plain text using
// line-oriented pattern matching. An optional EntityRecognizer enriches the
// result with tagged person and organization names.
package fields

import (
	"context"
	"strings"
)

const maxEntries = 10

// Extractor runs all field extractors over a resume text.
type Extractor struct {
	recognizer EntityRecognizer
}

// NewExtractor builds an Extractor. The recognizer may be nil, in which case
// name enrichment is skipped.
func NewExtractor(recognizer EntityRecognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Extract pulls personal info, experience, education and experience years
// from text. Recognizer failures degrade to the pattern-based result and are
// never surfaced as errors.
func (e *Extractor) Extract(ctx context.Context, text string) Extraction {
	lines := splitLines(text)

	out := Extraction{
		PersonalInfo:    extractPersonalInfo(text),
		Experience:      extractExperience(lines),
		Education:       extractEducation(lines),
		ExperienceYears: extractExperienceYears(text),
	}

	if e.recognizer != nil {
		if ents, err := e.recognizer.Recognize(ctx, text); err == nil {
			if out.PersonalInfo.Name == "" {
				out.PersonalInfo.Name = ents.Name
			}
			if out.PersonalInfo.Location == "" {
				out.PersonalInfo.Location = ents.Location
			}
			if ents.Organization != "" && len(out.Experience) > 0 && out.Experience[0].Company == "" {
				out.Experience[0].Company = ents.Organization
			}
		}
	}

	return out
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// isSectionHeader reports whether a line is a bare section heading such as
// "Work Experience" or "Education:".
func isSectionHeader(line string) bool {
	return sectionHeaderPattern.MatchString(line)
}

// isDateAnchor reports whether a line carries a date range that can anchor a
// history entry. A bare "present"/"current" only counts alongside a year, so
// prose mentions of the words do not anchor entries.
func isDateAnchor(line string) bool {
	if yearRangePattern.MatchString(line) || monthYearPattern.MatchString(line) {
		return true
	}
	return openEndedPattern.MatchString(line) && yearPattern.MatchString(line)
}

// dateText extracts the human-readable date span from an anchor line.
func dateText(line string) string {
	if m := yearRangePattern.FindString(line); m != "" {
		return m
	}
	parts := monthYearPattern.FindAllString(line, -1)
	if open := openEndedPattern.FindString(line); open != "" {
		parts = append(parts, open)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " - ")
	}
	if years := yearPattern.FindAllString(line, -1); len(years) > 0 {
		return strings.Join(years, " - ")
	}
	return ""
}

// stripDates removes date spans from a line so the remainder can be matched
// as a title or company.
func stripDates(line string) string {
	s := yearRangePattern.ReplaceAllString(line, "")
	s = monthYearPattern.ReplaceAllString(s, "")
	s = yearPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "()", "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " \t,;:|-–—")
}

func containsRoleKeyword(line string) bool {
	for _, tok := range strings.Fields(strings.ToLower(line)) {
		tok = strings.Trim(tok, ".,;:()")
		if _, ok := roleKeywords[tok]; ok {
			return true
		}
	}
	return false
}
