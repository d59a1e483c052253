package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// sourceSchemaJSON describes the shape NormalizeSource (pkg/types) accepts:
// a single "feeder[:feed]" string, or a list of them.
const sourceSchemaJSON = `{
  "oneOf": [
    {"type": "string"},
    {"type": "array", "items": {"type": "string"}}
  ]
}`

var sourceSchemaLoader = gojsonschema.NewStringLoader(sourceSchemaJSON)

// ValidationError reports one or more gojsonschema validation failures
// against a single config field.
type ValidationError struct {
	Field   string
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(e.Details, "; "))
}

// ValidateComponentConfig checks the shape of a component's "source" entry,
// if present. A missing or nil "source" is valid — it means the component
// has no eaters (spec.md §4.4). Callers normally run this before
// AddComponent so a malformed source list is rejected up front, rather than
// partway through a MapEatersToFeeders pass.
func ValidateComponentConfig(config map[string]any) error {
	if config == nil {
		return nil
	}
	source, ok := config["source"]
	if !ok || source == nil {
		return nil
	}
	return validateAgainstLoader(sourceSchemaLoader, "source", source)
}

// ValidateAgainstSchema validates an arbitrary value against a caller
// supplied JSON schema document. Used when a component's config carries a
// "schema" field describing its own expected shape.
func ValidateAgainstSchema(schemaJSON string, field string, value any) error {
	return validateAgainstLoader(gojsonschema.NewStringLoader(schemaJSON), field, value)
}

func validateAgainstLoader(schemaLoader gojsonschema.JSONLoader, field string, value any) error {
	documentLoader := gojsonschema.NewGoLoader(value)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.Description())
	}
	return &ValidationError{Field: field, Details: details}
}
