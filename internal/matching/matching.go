// Package matching scores how well a candidate profile fits a job posting.
// The rule-based score blends skill coverage, experience level and education
// tier with fixed weights. A semantic similarity from the vector index can be
// averaged on top when one is available.
package matching

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
)

// CandidateProfile carries the parsed resume facts the scorer needs.
// ExperienceYears is nil when the resume never stated or implied a number,
// which scores as a neutral 0.5 rather than zero.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Education       []string `json:"education,omitempty"`
}

type MatchResult struct {
	Score           float64 `json:"match_score"`
	SkillScore      float64 `json:"skill_match"`
	ExperienceScore float64 `json:"experience_match"`
	EducationScore  float64 `json:"education_match"`
	Reasoning       string  `json:"reasoning"`
}

// Score computes the weighted match between a candidate and a posting's
// requirements text. Requirements drive both the skill scan and the
// seniority tier; the posting's other fields do not participate.
func Score(profile CandidateProfile, requirements []string) MatchResult {
	skillScore := scoreSkills(profile.Skills, requirements)
	experienceScore := scoreExperience(profile.ExperienceYears, requirements)
	educationScore := scoreEducation(profile.Education)

	overall := round2(skillWeight*skillScore + experienceWeight*experienceScore + educationWeight*educationScore)

	return MatchResult{
		Score:           overall,
		SkillScore:      skillScore,
		ExperienceScore: experienceScore,
		EducationScore:  educationScore,
		Reasoning: fmt.Sprintf("Skill match: %.0f%%, Experience: %.0f%%, Education: %.0f%%",
			skillScore*100, experienceScore*100, educationScore*100),
	}
}

// CombineWithSimilarity averages the rule-based score with a semantic
// similarity in [0, 1].
func CombineWithSimilarity(score, similarity float64) float64 {
	return round2((score + similarity) / 2)
}

// scoreSkills is the fraction of candidate skills that appear somewhere in
// the requirements text, matched case-insensitively as substrings.
func scoreSkills(candidateSkills, requirements []string) float64 {
	requirementsText := strings.ToLower(strings.Join(requirements, " "))

	matches := 0
	for _, skill := range candidateSkills {
		if skill == "" {
			continue
		}
		if strings.Contains(requirementsText, strings.ToLower(skill)) {
			matches++
		}
	}

	denominator := len(candidateSkills)
	if denominator < 1 {
		denominator = 1
	}
	return round2(math.Min(1.0, float64(matches)/float64(denominator)))
}

// scoreExperience grades stated years against the seniority the requirements
// ask for. Unknown experience is neutral.
func scoreExperience(years *int, requirements []string) float64 {
	if years == nil {
		return 0.5
	}
	y := float64(*years)
	requirementsText := strings.ToLower(strings.Join(requirements, " "))

	var score float64
	switch {
	case strings.Contains(requirementsText, "senior"):
		score = math.Min(1.0, y/5)
	case strings.Contains(requirementsText, "junior"):
		if *years <= 2 {
			score = 1.0
		} else {
			score = 0.7
		}
	default:
		score = math.Min(1.0, y/3)
	}
	return round2(score)
}

// scoreEducation takes the highest tier across all degree strings. No
// degrees at all is neutral, same as a degree outside the known tiers.
func scoreEducation(degrees []string) float64 {
	best := 0.0
	found := false
	for _, degree := range degrees {
		if strings.TrimSpace(degree) == "" {
			continue
		}
		found = true
		if tier := degreeTier(degree); tier > best {
			best = tier
		}
	}
	if !found {
		return 0.5
	}
	return best
}

// degreeTier buckets a degree string. Dots are stripped first so "B.S." and
// "BS" land in the same bucket; abbreviations are matched as whole tokens to
// keep "ma" from hitting inside ordinary words.
func degreeTier(degree string) float64 {
	compact := strings.ToLower(strings.ReplaceAll(degree, ".", ""))
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(compact, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = true
	}

	switch {
	case strings.Contains(compact, "phd") || strings.Contains(compact, "doctorate"):
		return 1.0
	case strings.Contains(compact, "master") || tokens["ms"] || tokens["msc"] || tokens["ma"] || tokens["mba"]:
		return 0.9
	case strings.Contains(compact, "bachelor") || tokens["bs"] || tokens["bsc"] || tokens["ba"]:
		return 0.8
	case strings.Contains(compact, "associate") || strings.Contains(compact, "diploma"):
		return 0.7
	}
	return 0.5
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
