// Package parsing assembles extracted document text, structured fields and
// canonical skills into a candidate profile. Parsing is total: expected
// document failures and unexpected panics both come back as a profile whose
// Error field is set, so callers never deal with partial state.
package parsing

import (
	"context"
	"fmt"
	"os"

	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/parsing/extractor"
	"talentflow-workers/internal/parsing/fields"
	"talentflow-workers/internal/parsing/skills"
)

type Parser struct {
	fields *fields.Extractor
	skills *skills.Extractor
	logger logger.Logger
}

func NewParser(fieldsExtractor *fields.Extractor, skillsExtractor *skills.Extractor, log logger.Logger) *Parser {
	return &Parser{
		fields: fieldsExtractor,
		skills: skillsExtractor,
		logger: log,
	}
}

// ParseFile reads a resume document from disk and parses it.
func (p *Parser) ParseFile(ctx context.Context, path, mimeType string) *Profile {
	data, err := os.ReadFile(path)
	if err != nil {
		return errorProfile(fmt.Sprintf("%v: %v", extractor.ErrCorruptedDocument, err))
	}
	return p.Parse(ctx, data, mimeType)
}

// Parse turns raw document bytes into a profile. Extraction failures produce
// an error profile; a panic anywhere below is converted into one as well.
func (p *Parser) Parse(ctx context.Context, data []byte, mimeType string) (profile *Profile) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("resume parsing panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			profile = errorProfile(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	text, err := extractor.Extract(data, mimeType)
	if err != nil {
		p.logger.Warn("text extraction failed", map[string]interface{}{
			"mimeType": mimeType,
			"error":    err.Error(),
		})
		return errorProfile(err.Error())
	}

	return p.buildProfile(ctx, text)
}

func (p *Parser) buildProfile(ctx context.Context, text string) *Profile {
	extracted := p.fields.Extract(ctx, text)

	profile := &Profile{
		RawText:         text,
		PersonalInfo:    extracted.PersonalInfo,
		Skills:          p.skills.Extract(text),
		Experience:      extracted.Experience,
		Education:       extracted.Education,
		ExperienceYears: extracted.ExperienceYears,
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experience == nil {
		profile.Experience = []fields.ExperienceEntry{}
	}
	if profile.Education == nil {
		profile.Education = []fields.EducationEntry{}
	}
	profile.Confidence = confidenceScore(profile)

	p.logger.Info("resume parsed", map[string]interface{}{
		"skills":     len(profile.Skills),
		"experience": len(profile.Experience),
		"education":  len(profile.Education),
		"confidence": profile.Confidence,
	})
	return profile
}
