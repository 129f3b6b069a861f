// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeRegistry(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

const validRegistry = `{
	"version": "1.0.0",
	"lastUpdated": "2025-06-01",
	"activities": [
		{
			"id": "resume.document.parse",
			"displayName": "Parse Resume",
			"category": "resume",
			"taskType": "parse-resume",
			"implementationStatus": "implemented",
			"errorCodes": ["EXTRACTION_UNSUPPORTED_FORMAT"],
			"timeout": "60s",
			"retries": 0
		},
		{
			"id": "matching.score.calculate",
			"displayName": "Calculate Match Score",
			"category": "matching",
			"taskType": "calculate-match-score",
			"implementationStatus": "implemented",
			"timeout": "10s",
			"retries": 3
		}
	]
}`

// ==========================
// Load Tests
// ==========================

func TestLoadRegistry_Valid(t *testing.T) {
	path := writeRegistry(t, validRegistry)

	reg, err := LoadRegistry(path)

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)
	assert.Len(t, reg.Activities, 2)

	activity := reg.FindByTaskType("parse-resume")
	require.NotNil(t, activity)
	assert.Equal(t, "resume.document.parse", activity.ID)

	assert.Nil(t, reg.FindByTaskType("unknown-task"))
	assert.Nil(t, reg.FindByID("matching.score.missing"))
	assert.NotNil(t, reg.FindByID("matching.score.calculate"))
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadRegistry_MalformedJSON(t *testing.T) {
	path := writeRegistry(t, `{"version": "1.0.0", "activities": [`)

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}

func TestLoadRegistry_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing version",
			doc:  `{"activities": []}`,
		},
		{
			name: "activity without task type",
			doc:  `{"version": "1.0.0", "activities": [{"id": "resume.document.parse", "displayName": "Parse"}]}`,
		},
		{
			name: "negative retries",
			doc:  `{"version": "1.0.0", "activities": [{"id": "a.b.c", "taskType": "x", "displayName": "X", "retries": -1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRegistry(t, tt.doc)
			_, err := LoadRegistry(path)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation")
		})
	}
}

// ==========================
// Validate Tests
// ==========================

func TestRegistry_Validate(t *testing.T) {
	base := func() *ActivityRegistry {
		return &ActivityRegistry{
			Version: "1.0.0",
			Activities: []Activity{
				{ID: "resume.document.parse", TaskType: "parse-resume", Timeout: "60s"},
				{ID: "matching.score.calculate", TaskType: "calculate-match-score", Timeout: "10s", Retries: 3},
			},
		}
	}

	t.Run("valid registry passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("bad activity ID", func(t *testing.T) {
		reg := base()
		reg.Activities[0].ID = "parse_resume"
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "domain.subject.action")
	})

	t.Run("bad task type", func(t *testing.T) {
		reg := base()
		reg.Activities[0].TaskType = "Parse_Resume"
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kebab-case")
	})

	t.Run("duplicate ID", func(t *testing.T) {
		reg := base()
		reg.Activities[1].ID = reg.Activities[0].ID
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate activity ID")
	})

	t.Run("duplicate task type", func(t *testing.T) {
		reg := base()
		reg.Activities[1].TaskType = reg.Activities[0].TaskType
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate task type")
	})

	t.Run("unparseable timeout", func(t *testing.T) {
		reg := base()
		reg.Activities[0].Timeout = "fast"
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a duration")
	})

	t.Run("negative retries", func(t *testing.T) {
		reg := base()
		reg.Activities[1].Retries = -2
		err := reg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retries")
	})
}

// ==========================
// Save Tests
// ==========================

func TestSaveRegistry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := &ActivityRegistry{
		Version: "1.1.0",
		Activities: []Activity{
			{ID: "communication.notification.send", TaskType: "send-screening-notification", DisplayName: "Send Screening Notification"},
		},
	}

	require.NoError(t, SaveRegistry(path, reg))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", loaded.Version)
	require.Len(t, loaded.Activities, 1)
	assert.Equal(t, "send-screening-notification", loaded.Activities[0].TaskType)

	stamp, err := time.Parse("2006-01-02", loaded.LastUpdated)
	require.NoError(t, err)
	assert.False(t, stamp.IsZero())
}
