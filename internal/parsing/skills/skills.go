// Package skills turns free resume text and noisy skill labels into
// canonical catalog names.
package skills

import (
	"sort"
	"strings"

	"talentflow-workers/pkg/skillcatalog"
)

const (
	defaultNgramMax       = 4
	defaultFuzzyThreshold = 0.8
)

type Config struct {
	NgramMax       int     `mapstructure:"ngram_max"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
}

// Extractor scans text for catalog skills using token n-grams over the
// normalized text. Longer grams are matched first and their tokens are
// consumed, so "machine learning" can never decay into per-token matches. A
// phrase pass catches multi-word names whose tokens were claimed by an
// overlapping longer match.
type Extractor struct {
	catalog  *skillcatalog.Catalog
	ngramMax int
}

func NewExtractor(catalog *skillcatalog.Catalog, cfg *Config) *Extractor {
	ngramMax := defaultNgramMax
	if cfg != nil && cfg.NgramMax > 0 {
		ngramMax = cfg.NgramMax
	}
	return &Extractor{catalog: catalog, ngramMax: ngramMax}
}

// Extract returns the sorted set of canonical skill names found in text.
func (e *Extractor) Extract(text string) []string {
	norm := skillcatalog.Normalize(text)
	if norm == "" {
		return nil
	}
	tokens := strings.Split(norm, " ")

	found := make(map[string]struct{})
	consumed := make([]bool, len(tokens))

	for size := e.ngramMax; size >= 1; size-- {
		for i := 0; i+size <= len(tokens); i++ {
			if anyConsumed(consumed, i, i+size) {
				continue
			}
			gram := strings.Join(tokens[i:i+size], " ")
			canonical, ok := e.catalog.FromAlias(gram)
			if !ok {
				continue
			}
			found[canonical] = struct{}{}
			for j := i; j < i+size; j++ {
				consumed[j] = true
			}
		}
	}

	padded := " " + norm + " "
	for _, p := range e.catalog.Phrases() {
		if _, ok := found[p.Canonical]; ok {
			continue
		}
		if strings.Contains(padded, " "+p.Norm+" ") {
			found[p.Canonical] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func anyConsumed(consumed []bool, lo, hi int) bool {
	for i := lo; i < hi; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}

// Standardizer maps free-form skill labels onto catalog names. Exact and
// alias matches are tried first, then the closest catalog name by similarity
// ratio when it clears the threshold. Unknown labels pass through unchanged.
type Standardizer struct {
	catalog   *skillcatalog.Catalog
	threshold float64
}

func NewStandardizer(catalog *skillcatalog.Catalog, cfg *Config) *Standardizer {
	threshold := defaultFuzzyThreshold
	if cfg != nil && cfg.FuzzyThreshold > 0 {
		threshold = cfg.FuzzyThreshold
	}
	return &Standardizer{catalog: catalog, threshold: threshold}
}

// Normalize resolves a single label to its canonical form. Empty and
// whitespace-only input normalizes to the empty string.
func (s *Standardizer) Normalize(skill string) string {
	clean := strings.TrimSpace(skill)
	if clean == "" {
		return ""
	}
	if canonical, ok := s.catalog.Canonical(clean); ok {
		return canonical
	}
	if canonical, ok := s.catalog.FromAlias(skillcatalog.Normalize(clean)); ok {
		return canonical
	}

	lower := strings.ToLower(clean)
	best := ""
	bestRatio := 0.0
	for _, name := range s.catalog.All() {
		if r := ratio(lower, strings.ToLower(name)); r > bestRatio {
			bestRatio = r
			best = name
		}
	}
	if bestRatio > s.threshold {
		return best
	}
	return clean
}

// Standardize resolves every label, dropping empties and duplicates, and
// returns the result sorted.
func (s *Standardizer) Standardize(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		normalized := s.Normalize(label)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	sort.Strings(out)
	return out
}
