// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"talentflow-workers/internal/common/validation"

	"github.com/xeipuuv/gojsonschema"
)

// metaSchema is the structural contract a registry document must satisfy
// before it is unmarshaled. Field-level rules (naming, duplicates, timeout
// syntax) run afterwards in Validate.
const metaSchema = `{
	"type": "object",
	"required": ["version", "activities"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"lastUpdated": {"type": "string"},
		"activities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "taskType", "displayName"],
				"properties": {
					"id": {"type": "string"},
					"taskType": {"type": "string"},
					"displayName": {"type": "string"},
					"errorCodes": {"type": "array", "items": {"type": "string"}},
					"retries": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

var taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// LoadRegistry reads and structurally validates a registry document.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(metaSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("registry %s is not valid JSON: %w", path, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("registry %s failed schema validation: %s", path, strings.Join(msgs, "; "))
	}

	var reg ActivityRegistry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// SaveRegistry writes the registry back with a refreshed lastUpdated stamp.
func SaveRegistry(path string, reg *ActivityRegistry) error {
	reg.LastUpdated = time.Now().UTC().Format("2006-01-02")

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate applies the registry's business rules: activity IDs follow the
// domain.subject.action convention, task types are kebab-case, and both are
// unique. Timeouts must parse as Go durations when present.
func (r *ActivityRegistry) Validate() error {
	seenIDs := make(map[string]bool, len(r.Activities))
	seenTasks := make(map[string]bool, len(r.Activities))

	for _, a := range r.Activities {
		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			return fmt.Errorf("activity %q: %w", a.ID, err)
		}
		if !taskTypePattern.MatchString(a.TaskType) {
			return fmt.Errorf("activity %q: task type %q must be kebab-case", a.ID, a.TaskType)
		}
		if seenIDs[a.ID] {
			return fmt.Errorf("duplicate activity ID %q", a.ID)
		}
		if seenTasks[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		seenIDs[a.ID] = true
		seenTasks[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %q: timeout %q is not a duration", a.ID, a.Timeout)
			}
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %q: retries must not be negative", a.ID)
		}
	}
	return nil
}
