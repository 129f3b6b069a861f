package fields

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\(?\d{1,3}\)?[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)

	yearRangePattern = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*(?:[-–—]|to)\s*((?:19|20)\d{2}|present|current)\b`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(?:19|20)\d{2}\b`)
	openEndedPattern = regexp.MustCompile(`(?i)\b(?:present|current)\b`)
	yearPattern      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	explicitYearsPattern = regexp.MustCompile(`(?i)\b(\d+)\+?\s*years?\s+of\s+experience\b`)

	titleAtCompanyPattern = regexp.MustCompile(`(?i)^(.{2,80}?)\s+at\s+(.{2,80})$`)

	degreePattern = regexp.MustCompile(`(?i)\b(b\.?s\.?c?|b\.?a\.?|m\.?s\.?c?|m\.?a\.?|m\.?b\.?a\.?|ph\.?d\.?|bachelor(?:'?s)?|master(?:'?s)?|doctorate|associate(?:'?s)?|diploma)\b`)

	institutionPattern = regexp.MustCompile(`\b[A-Z][A-Za-z&.' -]*?(?:University|College|Institute|School|Academy|Polytechnic)\b|\b(?:University|College|Institute)\s+of\s+[A-Z][A-Za-z ]+`)

	sectionHeaderPattern = regexp.MustCompile(`(?i)^[a-z ]*(experience|education|skills|employment|projects|certifications|summary|contact|objective)\s*:?\s*$`)
)

// roleKeywords mark a line as a likely job title when no "<title> at
// <company>" pattern is present.
var roleKeywords = map[string]struct{}{
	"administrator": {},
	"analyst":       {},
	"architect":     {},
	"consultant":    {},
	"coordinator":   {},
	"designer":      {},
	"developer":     {},
	"director":      {},
	"engineer":      {},
	"head":          {},
	"intern":        {},
	"junior":        {},
	"lead":          {},
	"manager":       {},
	"officer":       {},
	"principal":     {},
	"scientist":     {},
	"senior":        {},
	"specialist":    {},
	"staff":         {},
}
