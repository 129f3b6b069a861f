package parsing

import "talentflow-workers/internal/parsing/fields"

// Profile is the structured result of parsing one resume document. A profile
// either carries extracted content or a non-empty Error, never both: Error is
// set exactly when RawText is empty.
type Profile struct {
	RawText         string                   `json:"raw_text"`
	PersonalInfo    fields.PersonalInfo      `json:"personal_info"`
	Skills          []string                 `json:"skills"`
	Experience      []fields.ExperienceEntry `json:"experience"`
	Education       []fields.EducationEntry  `json:"education"`
	ExperienceYears int                      `json:"experience_years"`
	Error           string                   `json:"error,omitempty"`
	Confidence      float64                  `json:"confidence_score"`
}

// errorProfile builds the degraded profile returned when extraction fails.
// Collections stay empty rather than nil so downstream JSON consumers always
// see arrays.
func errorProfile(msg string) *Profile {
	return &Profile{
		Skills:     []string{},
		Experience: []fields.ExperienceEntry{},
		Education:  []fields.EducationEntry{},
		Error:      msg,
	}
}
