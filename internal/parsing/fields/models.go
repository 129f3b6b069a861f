package fields

import "context"

// PersonalInfo holds contact details pulled from the resume header.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// ExperienceEntry is a single work history item.
type ExperienceEntry struct {
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is a single education history item.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Dates       string `json:"dates,omitempty"`
}

// Entities carries named entities tagged by an external recognizer.
type Entities struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location,omitempty"`
}

// EntityRecognizer tags person and organization entities in free text.
// Implementations are optional; extraction works without one.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) (Entities, error)
}

// Extraction is the combined output of a single pass over resume text.
type Extraction struct {
	PersonalInfo    PersonalInfo
	Experience      []ExperienceEntry
	Education       []EducationEntry
	ExperienceYears int
}
