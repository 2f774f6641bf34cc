// Package formspec holds the form specification carried by form_spec widgets
// and validates submitted values against it. Schemas are OpenAPI 3 schema
// objects and are checked with kin-openapi.
package formspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Input kinds reported by InputKind.
const (
	InputString    = "string"
	InputSecret    = "secret"
	InputNumber    = "number"
	InputInteger   = "integer"
	InputBoolean   = "boolean"
	InputEnum      = "enum"
	InputMultiEnum = "multi_enum"
	InputObject    = "object"
)

// MessageRequired is reported when a required value is missing.
const MessageRequired = "A value is required"

// Redacted replaces secret values in summaries.
const Redacted = "******"

// FormSpec describes a single configurable value.
type FormSpec struct {
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Help     string         `json:"help,omitempty" yaml:"help,omitempty"`
	Required bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any            `json:"default,omitempty" yaml:"default,omitempty"`
	Schema   map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ValidationMessage reports a single problem with a submitted value.
type ValidationMessage struct {
	Location     []string `json:"location"`
	Message      string   `json:"message"`
	InvalidValue any      `json:"invalid_value"`
}

// Validate checks value against spec. A nil result means the value is
// acceptable. Missing optional values are always accepted.
func Validate(spec FormSpec, value any) []ValidationMessage {
	if value == nil {
		if spec.Required {
			return []ValidationMessage{{Location: []string{}, Message: MessageRequired}}
		}
		return nil
	}
	if len(spec.Schema) == 0 {
		return nil
	}

	schema, err := compileSchema(spec.Schema)
	if err != nil {
		return []ValidationMessage{{
			Location:     []string{},
			Message:      err.Error(),
			InvalidValue: value,
		}}
	}

	normalized, err := normalizeValue(value)
	if err != nil {
		return []ValidationMessage{{
			Location:     []string{},
			Message:      fmt.Sprintf("formspec: value is not JSON compatible: %v", err),
			InvalidValue: value,
		}}
	}

	err = schema.VisitJSON(normalized, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return messagesFromError(err, value)
}

// CheckSchema reports whether the spec's schema can be compiled. Validate
// turns a broken schema into a message on every call, so interactive callers
// check it up front.
func CheckSchema(spec FormSpec) error {
	if len(spec.Schema) == 0 {
		return nil
	}
	_, err := compileSchema(spec.Schema)
	return err
}

// InputKind classifies the schema so renderers can pick a control.
func InputKind(spec FormSpec) string {
	schema := normalizeSchema(spec.Schema)
	if len(schema) == 0 {
		return InputString
	}
	if values, ok := schema["enum"].([]any); ok && len(values) > 0 {
		return InputEnum
	}

	schemaType, _ := schema["type"].(string)
	switch strings.ToLower(strings.TrimSpace(schemaType)) {
	case "boolean":
		return InputBoolean
	case "integer":
		return InputInteger
	case "number":
		return InputNumber
	case "object":
		if props, ok := schema["properties"].(map[string]any); ok && len(props) > 0 {
			return InputObject
		}
		return InputString
	case "array":
		if items, ok := schema["items"].(map[string]any); ok {
			if values, ok := items["enum"].([]any); ok && len(values) > 0 {
				return InputMultiEnum
			}
		}
		return InputString
	}

	if format, _ := schema["format"].(string); strings.EqualFold(format, "password") {
		return InputSecret
	}
	return InputString
}

// Options returns the enum values offered by the schema, for enum and
// multi_enum inputs. Values are rendered with fmt's default formatting.
func Options(spec FormSpec) []string {
	values := EnumValues(spec)
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// EnumValues returns the raw enum values of the schema, or of its items
// schema for arrays.
func EnumValues(spec FormSpec) []any {
	schema := normalizeSchema(spec.Schema)
	if len(schema) == 0 {
		return nil
	}
	values, _ := schema["enum"].([]any)
	if len(values) == 0 {
		if items, ok := schema["items"].(map[string]any); ok {
			values, _ = items["enum"].([]any)
		}
	}
	return values
}

// Property is a named member of an object schema expressed as its own form
// spec.
type Property struct {
	Name string
	Spec FormSpec
}

// Properties splits an object schema into per-property form specs, sorted by
// name. Titles come from the property schema, falling back to the name.
func Properties(spec FormSpec) []Property {
	schema := normalizeSchema(spec.Schema)
	props, _ := schema["properties"].(map[string]any)
	if len(props) == 0 {
		return nil
	}

	required := make(map[string]bool)
	if list, ok := schema["required"].([]any); ok {
		for _, name := range list {
			required[fmt.Sprint(name)] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Property, 0, len(names))
	for _, name := range names {
		schema, _ := props[name].(map[string]any)
		title, _ := schema["title"].(string)
		if strings.TrimSpace(title) == "" {
			title = name
		}
		description, _ := schema["description"].(string)
		out = append(out, Property{
			Name: name,
			Spec: FormSpec{
				Title:    title,
				Help:     description,
				Required: required[name],
				Default:  schema["default"],
				Schema:   schema,
			},
		})
	}
	return out
}

// Redact masks secret values in value. Object values are walked property by
// property so nested secrets are masked too. The input is never modified.
func Redact(spec FormSpec, value any) any {
	if value == nil {
		return nil
	}
	switch InputKind(spec) {
	case InputSecret:
		return Redacted
	case InputObject:
		object, ok := value.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(object))
		for key, item := range object {
			out[key] = item
		}
		for _, prop := range Properties(spec) {
			if item, ok := out[prop.Name]; ok {
				out[prop.Name] = Redact(prop.Spec, item)
			}
		}
		return out
	}
	return value
}

// normalizeSchema round-trips raw through JSON so Go-built schemas using
// typed slices and maps ([]string, map[string]string) classify the same as
// decoded documents. Schemas that cannot be encoded are returned unchanged.
func normalizeSchema(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return raw
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return raw
	}
	return out
}

func compileSchema(raw map[string]any) (*openapi3.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("formspec: encode schema: %w", err)
	}
	schema := openapi3.NewSchema()
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("formspec: decode schema: %w", err)
	}
	return schema, nil
}

func normalizeValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func messagesFromError(err error, value any) []ValidationMessage {
	var out []ValidationMessage
	collectMessages(err, value, &out)
	if len(out) == 0 {
		out = append(out, ValidationMessage{Location: []string{}, Message: err.Error(), InvalidValue: value})
	}
	return out
}

func collectMessages(err error, value any, out *[]ValidationMessage) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectMessages(inner, value, out)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		location := schemaErr.JSONPointer()
		if location == nil {
			location = []string{}
		}
		invalid, ok := lookupPath(value, location)
		if !ok {
			invalid = schemaErr.Value
		}
		*out = append(*out, ValidationMessage{
			Location:     location,
			Message:      schemaErr.Reason,
			InvalidValue: invalid,
		})
		return
	}

	*out = append(*out, ValidationMessage{Location: []string{}, Message: err.Error(), InvalidValue: value})
}

// lookupPath finds the submitted value at location so messages report what
// the caller sent rather than its JSON normalised form.
func lookupPath(value any, location []string) (any, bool) {
	current := value
	for _, key := range location {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
