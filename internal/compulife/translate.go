package compulife

import (
	"fmt"
	"strconv"
)

// Translate builds the outbound parameter set for an action. Only
// whitelisted fields are copied from the inbound payload, stringified the
// way the quoting API expects; defaults fill fields the caller omitted.
// Missing required fields are not an error here: the quoting API reports
// its own rejections and the response is relayed either way.
func Translate(action string, inbound map[string]any) (map[string]string, error) {
	spec, ok := Resolve(action)
	if !ok {
		return nil, &UnknownActionError{Action: action}
	}
	out := make(map[string]string)
	translateInto(out, spec, inbound)
	return out, nil
}

// translateInto applies one action stage. Composed actions run their base
// stage first; a field written by an earlier stage is never overwritten.
func translateInto(out map[string]string, spec ActionSpec, inbound map[string]any) {
	if spec.Base != "" {
		if base, ok := Actions[spec.Base]; ok {
			translateInto(out, base, inbound)
		}
	}
	for _, field := range spec.Fields {
		value, present := inbound[field]
		if !present {
			continue
		}
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = stringify(value)
	}
	for field, def := range spec.Defaults {
		if _, present := inbound[field]; present {
			continue
		}
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = def
	}
}

// stringify renders a decoded JSON value as the quoting API expects:
// numbers in plain notation, booleans as true/false, nil as empty.
func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
