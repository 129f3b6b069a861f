package parseresume

import "talentflow-workers/internal/parsing"

type Input struct {
	ResumeID    string `json:"resumeId,omitempty"`
	CandidateID string `json:"candidateId"`
	FilePath    string `json:"filePath,omitempty"`
	FileContent string `json:"fileContent,omitempty"` // base64 encoded document bytes
	MimeType    string `json:"mimeType,omitempty"`
}

type Output struct {
	ResumeID string           `json:"resumeId"`
	Profile  *parsing.Profile `json:"profile"`
	Status   string           `json:"parseStatus"` // "parsed" or "failed"
}

// Parse statuses persisted on the resumes row
const (
	StatusParsed = "parsed"
	StatusFailed = "failed"
)
