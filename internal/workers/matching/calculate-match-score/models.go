package calculatematchscore

import "talentflow-workers/internal/parsing"

type Input struct {
	JobID       string           `json:"jobId"`
	ResumeID    string           `json:"resumeId,omitempty"`
	CandidateID string           `json:"candidateId,omitempty"`
	Profile     *parsing.Profile `json:"profile,omitempty"`
}

type Output struct {
	ScreeningID     string   `json:"screeningId"`
	JobID           string   `json:"jobId"`
	ResumeID        string   `json:"resumeId,omitempty"`
	CandidateID     string   `json:"candidateId,omitempty"`
	MatchScore      float64  `json:"matchScore"`
	SkillMatch      float64  `json:"skillMatch"`
	ExperienceMatch float64  `json:"experienceMatch"`
	EducationMatch  float64  `json:"educationMatch"`
	SimilarityScore *float64 `json:"similarityScore,omitempty"`
	Reasoning       string   `json:"reasoning"`
	FromCache       bool     `json:"fromCache,omitempty"`
}

// jobPostingRow is the scoring-relevant slice of a job_postings row.
type jobPostingRow struct {
	ID           string
	Title        string
	Description  string
	Requirements []string
}
