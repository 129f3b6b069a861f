package parseresume

import "talentflow-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"candidateId"},
		Properties: map[string]validation.Property{
			"resumeId": {
				Type:        "string",
				Description: "Resume identifier, generated when absent",
				MaxLength:   intPtr(64),
			},
			"candidateId": {
				Type:        "string",
				Description: "Candidate the resume belongs to",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"filePath": {
				Type:        "string",
				Description: "Path of the resume document on shared storage",
				MaxLength:   intPtr(1024),
			},
			"fileContent": {
				Type:        "string",
				Description: "Base64 encoded document bytes",
			},
			"mimeType": {
				Type:        "string",
				Description: "Document MIME type, sniffed from content when absent",
				MaxLength:   intPtr(128),
			},
		},
		// Screening process instances carry variables for downstream tasks,
		// so unknown fields must not fail validation here.
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"resumeId", "parseStatus"},
		Properties: map[string]validation.Property{
			"resumeId": {
				Type:        "string",
				Description: "Identifier of the persisted resume row",
			},
			"profile": {
				Type:        "object",
				Description: "Structured profile extracted from the document",
			},
			"parseStatus": {
				Type:        "string",
				Description: "Outcome of the parse",
				Enum:        []string{StatusParsed, StatusFailed},
			},
		},
		AdditionalProperties: true,
	}
}

func intPtr(i int) *int {
	return &i
}
