// pkg/skillcatalog/catalog.go
package skillcatalog

import (
	"sort"
	"strings"
)

// Catalog is the canonical skill vocabulary: skill names grouped by category,
// plus an alias map used for lookup of abbreviations, synonyms and common
// misspellings. A Catalog is immutable after construction and safe for
// concurrent readers.
type Catalog struct {
	categories map[string][]string
	canonical  map[string]string // lowercased canonical name -> canonical name
	aliases    map[string]string // normalized alias -> canonical name
	phrases    []Phrase          // multi-word canonical names, normalized
	names      []string          // all canonical names, sorted
}

// Phrase pairs a multi-word canonical name with its normalized form.
type Phrase struct {
	Norm      string
	Canonical string
}

// minTokenAlias is the shortest token that gets an automatic alias entry.
// Shorter forms ("js", "k8s") come from the curated alias table instead.
const minTokenAlias = 3

// stopTokens are words that appear inside multi-word canonical names but are
// too generic to identify the skill on their own, so they never get an
// automatic token alias.
var stopTokens = map[string]bool{
	"actions": true, "apache": true, "boot": true, "cloud": true,
	"code": true, "computer": true, "data": true, "deep": true,
	"face": true, "google": true, "idea": true, "learn": true,
	"learning": true, "machine": true, "material": true, "net": true,
	"next": true, "objective": true, "power": true, "science": true,
	"server": true, "vision": true,
}

// New builds a catalog from category -> skill-name lists and an extra alias
// table. Every canonical name is indexed by its normalized full form, then by
// each of its individual tokens (full forms always win over tokens), and
// extraAliases are merged last and take precedence over both. Alias entries
// whose target is not a catalog name are dropped, so every alias maps to
// exactly one canonical name.
func New(categories map[string][]string, extraAliases map[string]string) *Catalog {
	c := &Catalog{
		categories: make(map[string][]string, len(categories)),
		canonical:  make(map[string]string),
		aliases:    make(map[string]string),
	}

	catNames := make([]string, 0, len(categories))
	for cat := range categories {
		catNames = append(catNames, cat)
	}
	sort.Strings(catNames)

	// Full normalized forms first, so a name is always an alias of itself.
	for _, cat := range catNames {
		skills := categories[cat]
		c.categories[cat] = append([]string(nil), skills...)
		for _, name := range skills {
			lower := strings.ToLower(name)
			if _, ok := c.canonical[lower]; !ok {
				c.canonical[lower] = name
				c.names = append(c.names, name)
			}
			if norm := Normalize(name); norm != "" {
				c.addAlias(norm, name)
			}
		}
	}

	// Token aliases for multi-word names.
	for _, cat := range catNames {
		for _, name := range categories[cat] {
			norm := Normalize(name)
			tokens := strings.Fields(norm)
			if len(tokens) < 2 {
				continue
			}
			c.phrases = append(c.phrases, Phrase{Norm: norm, Canonical: name})
			for _, tok := range tokens {
				if len(tok) < minTokenAlias || stopTokens[tok] {
					continue
				}
				c.addAlias(tok, name)
			}
		}
	}

	aliasKeys := make([]string, 0, len(extraAliases))
	for alias := range extraAliases {
		aliasKeys = append(aliasKeys, alias)
	}
	sort.Strings(aliasKeys)
	for _, alias := range aliasKeys {
		target, ok := c.canonical[strings.ToLower(extraAliases[alias])]
		if !ok {
			continue
		}
		if norm := Normalize(alias); norm != "" {
			c.aliases[norm] = target
		}
	}

	sort.Strings(c.names)
	return c
}

// addAlias records an alias unless the key is already taken. Construction
// order (sorted categories, listed skill order) makes collisions
// deterministic.
func (c *Catalog) addAlias(key, canonical string) {
	if _, ok := c.aliases[key]; !ok {
		c.aliases[key] = canonical
	}
}

// Canonical returns the catalog name matching s by exact case-insensitive
// comparison.
func (c *Catalog) Canonical(s string) (string, bool) {
	name, ok := c.canonical[strings.ToLower(strings.TrimSpace(s))]
	return name, ok
}

// FromAlias resolves a normalized n-gram against the alias map.
func (c *Catalog) FromAlias(norm string) (string, bool) {
	name, ok := c.aliases[norm]
	return name, ok
}

// Phrases returns the multi-word canonical names with their normalized
// forms, for substring scans over normalized text.
func (c *Catalog) Phrases() []Phrase {
	out := make([]Phrase, len(c.phrases))
	copy(out, c.phrases)
	return out
}

// All returns every canonical name, sorted.
func (c *Catalog) All() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of canonical names.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Categories returns the category names, sorted.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for cat := range c.categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Skills returns the canonical names in a category, in catalog order.
func (c *Catalog) Skills(category string) []string {
	skills, ok := c.categories[category]
	if !ok {
		return nil
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

// Search returns canonical names containing query case-insensitively,
// sorted, at most limit entries. A non-positive limit means 10.
func (c *Catalog) Search(query string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	q := strings.ToLower(query)
	var results []string
	for _, name := range c.names {
		if strings.Contains(strings.ToLower(name), q) {
			results = append(results, name)
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Normalize lowercases s and strips it to alphanumeric and single spaces;
// every other rune becomes a space so punctuation never fuses two words.
// It is the keying function for the alias map and for n-gram lookups.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
