// pkg/skillcatalog/catalog_test.go
package skillcatalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Default Catalog Tests
// ==========================

func TestDefaultCatalog_Structure(t *testing.T) {
	cat := Default()

	required := []string{
		"programming_languages",
		"frontend_frameworks",
		"backend_frameworks",
		"databases",
		"cloud_platforms",
		"devops_tools",
		"data_science",
		"tools_and_platforms",
	}
	assert.ElementsMatch(t, required, cat.Categories())

	total := 0
	for _, category := range cat.Categories() {
		skills := cat.Skills(category)
		assert.NotEmpty(t, skills, "category %s should have skills", category)
		total += len(skills)

		seen := map[string]bool{}
		for _, s := range skills {
			lower := strings.ToLower(s)
			assert.False(t, seen[lower], "duplicate %q in %s", s, category)
			seen[lower] = true
		}
	}
	assert.GreaterOrEqual(t, total, 150, "catalog should have 150+ skills")
}

func TestDefaultCatalog_NamesAreTheirOwnAliases(t *testing.T) {
	cat := Default()

	for _, name := range cat.All() {
		norm := Normalize(name)
		if norm == "" {
			continue
		}
		resolved, ok := cat.FromAlias(norm)
		assert.True(t, ok, "normalized form %q of %q should resolve", norm, name)
		// Names whose normalized forms collide ("C", "C++", "C#") resolve
		// to the first listed one; everything else resolves to itself.
		if norm != "c" {
			assert.Equal(t, name, resolved)
		}
	}
}

func TestDefaultCatalog_AliasTargetsExist(t *testing.T) {
	cat := Default()

	known := map[string]bool{}
	for _, name := range cat.All() {
		known[name] = true
	}
	for alias, target := range cat.aliases {
		assert.True(t, known[target], "alias %q maps to unknown name %q", alias, target)
	}
}

// ==========================
// Lookup Tests
// ==========================

func TestCatalog_Canonical(t *testing.T) {
	cat := Default()

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"lowercase", "python", "Python", true},
		{"uppercase", "PYTHON", "Python", true},
		{"mixed case", "PyThOn", "Python", true},
		{"surrounding spaces", "  Python  ", "Python", true},
		{"punctuated name", "c++", "C++", true},
		{"dotted name", "vue.js", "Vue.js", true},
		{"unknown", "underwater basket weaving", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cat.Canonical(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_FromAlias(t *testing.T) {
	cat := Default()

	tests := []struct {
		name  string
		alias string
		want  string
		found bool
	}{
		{"abbreviation py", "py", "Python", true},
		{"abbreviation js", "js", "JavaScript", true},
		{"abbreviation ts", "ts", "TypeScript", true},
		{"abbreviation k8s", "k8s", "Kubernetes", true},
		{"typo pyton", "pyton", "Python", true},
		{"typo kubernates", "kubernates", "Kubernetes", true},
		{"smushed reactjs", "reactjs", "React", true},
		{"smushed nodejs", "nodejs", "Node.js", true},
		{"multi-word phrase", "natural language processing", "NLP", true},
		{"token of multi-word name", "lambda", "AWS Lambda", true},
		{"token of multi-word name", "rails", "Ruby on Rails", true},
		{"name wins over token", "sql", "SQL", true},
		{"name wins over token", "ruby", "Ruby", true},
		{"curated wins over token", "github", "GitHub", true},
		{"curated wins over token", "gitlab", "GitLab", true},
		{"generic token excluded", "code", "", false},
		{"generic token excluded", "learning", "", false},
		{"short token excluded", "on", "", false},
		{"unknown", "quux", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.alias, func(t *testing.T) {
			got, ok := cat.FromAlias(tt.alias)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_Phrases(t *testing.T) {
	cat := Default()

	phrases := cat.Phrases()
	require.NotEmpty(t, phrases)

	byNorm := map[string]string{}
	for _, p := range phrases {
		assert.Contains(t, p.Norm, " ", "phrases should be multi-word")
		byNorm[p.Norm] = p.Canonical
	}
	assert.Equal(t, "Machine Learning", byNorm["machine learning"])
	assert.Equal(t, "Node.js", byNorm["node js"])
	assert.Equal(t, "Tailwind CSS", byNorm["tailwind css"])
}

// ==========================
// Accessor Tests
// ==========================

func TestCatalog_AllSortedAndCopied(t *testing.T) {
	cat := Default()

	all := cat.All()
	assert.True(t, sortIsStable(all), "All() should be sorted")
	assert.Equal(t, cat.Len(), len(all))

	all[0] = "mutated"
	assert.NotEqual(t, "mutated", cat.All()[0])
}

func sortIsStable(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestCatalog_Search(t *testing.T) {
	cat := Default()

	t.Run("substring match", func(t *testing.T) {
		results := cat.Search("script", 20)
		assert.Contains(t, results, "JavaScript")
		assert.Contains(t, results, "TypeScript")
		assert.True(t, sortIsStable(results))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, cat.Search("SCRIPT", 20), cat.Search("script", 20))
	})

	t.Run("limit applied", func(t *testing.T) {
		results := cat.Search("a", 3)
		assert.Len(t, results, 3)
	})

	t.Run("default limit", func(t *testing.T) {
		results := cat.Search("", 0)
		assert.Len(t, results, 10)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, cat.Search("zzzzzz", 10))
	})
}

func TestCatalog_SkillsUnknownCategory(t *testing.T) {
	assert.Nil(t, Default().Skills("no_such_category"))
}

// ==========================
// Construction Tests
// ==========================

func TestNew_DropsUnknownAliasTargets(t *testing.T) {
	cat := New(
		map[string][]string{"languages": {"Python"}},
		map[string]string{"py": "Python", "rs": "Rust"},
	)

	got, ok := cat.FromAlias("py")
	assert.True(t, ok)
	assert.Equal(t, "Python", got)

	_, ok = cat.FromAlias("rs")
	assert.False(t, ok, "alias to a name outside the catalog should be dropped")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Vue.js", "vue js"},
		{"  C++  ", "c"},
		{"Python, JavaScript", "python javascript"},
		{"CI/CD Pipelines", "ci cd pipelines"},
		{"Scikit-learn", "scikit learn"},
		{"", ""},
		{"!!!", ""},
		{"  \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// ==========================
// Loader Tests
// ==========================

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, Default().Len(), cat.Len())
}

func TestLoad_InvalidJSONFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cat, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, Default().Len(), cat.Len())
}

func TestLoad_EmptyCategoriesFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1"}`), 0o644))

	cat, err := Load(path)
	assert.Error(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, Default().Len(), cat.Len())
}

func TestLoad_FileCatalog(t *testing.T) {
	file := map[string]interface{}{
		"version": "2024-01",
		"categories": map[string][]string{
			"programming_languages": {"Python", "COBOL"},
		},
		"aliases": map[string]string{
			"cbl": "COBOL",
		},
	}
	data, err := json.Marshal(file)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	got, ok := cat.FromAlias("cbl")
	assert.True(t, ok)
	assert.Equal(t, "COBOL", got)

	// Curated aliases still apply when their targets exist.
	got, ok = cat.FromAlias("py")
	assert.True(t, ok)
	assert.Equal(t, "Python", got)

	// Curated aliases whose targets are not in the file are dropped.
	_, ok = cat.FromAlias("js")
	assert.False(t, ok)
}

// ==========================
// Benchmark
// ==========================

func BenchmarkDefault(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Default()
	}
}

func BenchmarkCatalog_FromAlias(b *testing.B) {
	cat := Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cat.FromAlias("kubernates")
	}
}
