package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// JSONSchema describes the shape of a worker's input or output variables.
// Workers declare their schemas in code (see the parse-resume package) and
// the activity registry carries the same structure as raw JSON.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks process variables against a schema and collects every
// violation instead of stopping at the first one.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	var errs []ValidationError

	for _, name := range schema.Required {
		if _, ok := input[name]; !ok {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for name, value := range input {
		prop, declared := schema.Properties[name]
		if !declared {
			if !schema.AdditionalProperties {
				errs = append(errs, ValidationError{
					Field:   name,
					Message: "field not allowed in schema",
					Code:    "EXTRA_FIELD",
				})
			}
			continue
		}
		errs = append(errs, validateField(name, value, prop)...)
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateField(name string, value interface{}, prop Property) []ValidationError {
	if err := checkType(value, prop.Type); err != nil {
		// Nothing below is meaningful when the type is already wrong.
		return []ValidationError{{Field: name, Message: err.Error(), Code: "INVALID_TYPE"}}
	}

	var errs []ValidationError
	switch v := value.(type) {
	case string:
		errs = append(errs, checkString(name, v, prop)...)
	case float64:
		errs = append(errs, checkNumber(name, v, prop)...)
	case []interface{}:
		if prop.Items != nil {
			for i, item := range v {
				errs = append(errs, validateField(fmt.Sprintf("%s[%d]", name, i), item, *prop.Items)...)
			}
		}
	case map[string]interface{}:
		if prop.Properties != nil {
			errs = append(errs, checkObject(name, v, prop)...)
		}
	}
	return errs
}

func checkString(name, v string, prop Property) []ValidationError {
	var errs []ValidationError
	if prop.MinLength != nil && len(v) < *prop.MinLength {
		errs = append(errs, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength),
			Code:    "MIN_LENGTH_VIOLATION",
		})
	}
	if prop.MaxLength != nil && len(v) > *prop.MaxLength {
		errs = append(errs, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength),
			Code:    "MAX_LENGTH_VIOLATION",
		})
	}
	if prop.Pattern != nil {
		if matched, err := regexp.MatchString(*prop.Pattern, v); err != nil || !matched {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("value must match pattern %s", *prop.Pattern),
				Code:    "PATTERN_MISMATCH",
			})
		}
	}
	if len(prop.Enum) > 0 {
		allowed := false
		for _, e := range prop.Enum {
			if v == e {
				allowed = true
				break
			}
		}
		if !allowed {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("value must be one of %v", prop.Enum),
				Code:    "INVALID_ENUM_VALUE",
			})
		}
	}
	return errs
}

func checkNumber(name string, v float64, prop Property) []ValidationError {
	var errs []ValidationError
	if prop.Minimum != nil && v < *prop.Minimum {
		errs = append(errs, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("value must be >= %v", *prop.Minimum),
			Code:    "MINIMUM_VIOLATION",
		})
	}
	if prop.Maximum != nil && v > *prop.Maximum {
		errs = append(errs, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("value must be <= %v", *prop.Maximum),
			Code:    "MAXIMUM_VIOLATION",
		})
	}
	return errs
}

func checkObject(name string, v map[string]interface{}, prop Property) []ValidationError {
	nested := ValidateInput(v, JSONSchema{
		Type:       "object",
		Properties: prop.Properties,
		Required:   prop.Required,
		// Nested objects carry process variables for downstream tasks, so
		// extra keys are allowed there.
		AdditionalProperties: true,
	})
	errs := make([]ValidationError, 0, len(nested.Errors))
	for _, e := range nested.Errors {
		errs = append(errs, ValidationError{
			Field:   name + "." + e.Field,
			Message: e.Message,
			Code:    e.Code,
		})
	}
	return errs
}

// checkType validates a JSON-decoded value against a schema type name.
// Numbers arrive as float64 from encoding/json, so "integer" accepts a
// float64 with no fractional part.
func checkType(value interface{}, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number":
		if !isNumeric(value) {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		if !isIntegral(value) {
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	default:
		return fmt.Errorf("schema declares unknown type %q", expected)
	}
	return nil
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case float64, int, int32, int64:
		return true
	}
	return false
}

func isIntegral(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == math.Trunc(v)
	}
	return false
}

// ValidateActivityNaming enforces the registry ID convention
// domain.subject.action (e.g. resume.document.parse).
func ValidateActivityNaming(activityID string) error {
	pattern := regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)
	if !pattern.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format domain.subject.action (e.g. resume.document.parse)")
	}
	return nil
}

// GetSchemaFromJSON parses a schema document, typically one stored in the
// activity registry.
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages flattens the result into log-friendly strings.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FieldErrors returns the violations recorded for one field, including its
// nested paths and array elements.
func (vr *ValidationResult) FieldErrors(field string) []ValidationError {
	var out []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			out = append(out, err)
		}
	}
	return out
}
