package setup

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
)

// FormDataFromValues rebuilds stage form data from an HTML form post. Field
// names follow the HTML renderer: the form spec id, and "<id>.<property>"
// for object properties. Values are typed by each spec's input kind:
// checkboxes become booleans, repeated multi_enum fields become arrays, and
// number fields are parsed. Unparseable numbers are kept as strings so
// validation reports them. Fields not belonging to a form spec are ignored.
func FormDataFromValues(stage Stage, values url.Values) FormData {
	out := FormData{}
	for id, spec := range FormSpecs(stage) {
		if value, ok := formValue(id, spec, values); ok {
			out[id] = value
		}
	}
	return out
}

func formValue(name string, spec formspec.FormSpec, values url.Values) (any, bool) {
	switch formspec.InputKind(spec) {
	case formspec.InputBoolean:
		// An unchecked checkbox is not posted at all.
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return false, true
		}
		checked, err := strconv.ParseBool(raw)
		if err != nil {
			return raw == "on", true
		}
		return checked, true

	case formspec.InputEnum:
		raw, ok := firstValue(name, values)
		if !ok {
			return nil, false
		}
		return enumValue(spec, raw), true

	case formspec.InputMultiEnum:
		posted, ok := values[name]
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(posted))
		for _, raw := range posted {
			out = append(out, enumValue(spec, raw))
		}
		return out, true

	case formspec.InputObject:
		out := make(map[string]any)
		for _, prop := range formspec.Properties(spec) {
			if value, ok := formValue(name+"."+prop.Name, prop.Spec, values); ok {
				out[prop.Name] = value
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true

	case formspec.InputInteger:
		raw, ok := firstValue(name, values)
		if !ok {
			return nil, false
		}
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return parsed, true
		}
		return raw, true

	case formspec.InputNumber:
		raw, ok := firstValue(name, values)
		if !ok {
			return nil, false
		}
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return parsed, true
		}
		return raw, true

	default:
		raw, ok := firstValue(name, values)
		if !ok {
			return nil, false
		}
		return raw, true
	}
}

// firstValue returns the trimmed field value; empty fields count as absent.
func firstValue(name string, values url.Values) (string, bool) {
	raw := strings.TrimSpace(values.Get(name))
	return raw, raw != ""
}

// enumValue maps a posted option back to the raw enum value it was rendered
// from, so non-string enums keep their type.
func enumValue(spec formspec.FormSpec, raw string) any {
	for _, value := range formspec.EnumValues(spec) {
		if fmt.Sprint(value) == raw {
			return value
		}
	}
	return raw
}
