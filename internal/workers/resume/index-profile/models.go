package indexprofile

import "talentflow-workers/internal/parsing"

type Input struct {
	ResumeID    string           `json:"resumeId"`
	CandidateID string           `json:"candidateId,omitempty"`
	Profile     *parsing.Profile `json:"profile"`
}

type Output struct {
	ResumeID string `json:"resumeId"`
	Indexed  bool   `json:"indexed"`
	Reason   string `json:"reason,omitempty"` // set when the profile was skipped
}
