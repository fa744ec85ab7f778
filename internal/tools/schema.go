package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a JSON Schema document. The same value is rendered by discovery
// and compiled for validation, so the two can never disagree.
type Schema map[string]any

// Violation is one field-level schema failure.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Violations formats a list of violations on one line.
func Violations(vs []Violation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

// compiledSchema pairs a declared schema with its gojsonschema form.
type compiledSchema struct {
	doc    Schema
	schema *gojsonschema.Schema
}

func compile(doc Schema) (*compiledSchema, error) {
	if doc == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any(doc)))
	if err != nil {
		return nil, err
	}
	return &compiledSchema{doc: doc, schema: s}, nil
}

// validate checks document against the schema. A nil document is treated
// as an empty object so that tools with no required fields accept a
// missing input.
func (c *compiledSchema) validate(document any) ([]Violation, error) {
	if document == nil {
		document = map[string]any{}
	}
	result, err := c.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, Violation{
			Field:      fieldPath(desc),
			Constraint: desc.Type(),
			Message:    desc.Description(),
		})
	}
	return violations, nil
}

// fieldPath names the offending field. Required-property errors are reported
// against the parent, so the missing property is appended.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	prop, ok := desc.Details()["property"].(string)
	if !ok || prop == "" {
		return field
	}
	if field == "" || field == gojsonschema.STRING_CONTEXT_ROOT {
		return prop
	}
	return field + "." + prop
}

// MarshalIndent renders the schema for human consumption.
func (s Schema) MarshalIndent() string {
	data, err := json.MarshalIndent(map[string]any(s), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// objectSchema builds an object schema from its properties and required names.
func objectSchema(properties map[string]any, required ...string) Schema {
	s := Schema{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// nonBlankString is a string with at least minLength characters, one of which is not whitespace.
func nonBlankString(description string, minLength int) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
		"minLength":   minLength,
		"pattern":     `\S`,
	}
}
