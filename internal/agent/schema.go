package agent

import "fmt"

// validateSchema checks a tool's declared parameter schema at registration.
// Only the subset of JSON Schema the LLM function-calling APIs accept is
// allowed: a top-level object with typed properties and an optional required
// list referencing declared properties.
func validateSchema(schema map[string]interface{}) error {
	if schema == nil {
		return fmt.Errorf("parameter schema is nil")
	}
	if t, _ := schema["type"].(string); t != "object" {
		return fmt.Errorf("parameter schema type must be \"object\", got %v", schema["type"])
	}

	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("parameter schema missing properties map")
	}
	for name, raw := range props {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			return fmt.Errorf("property %q is not a schema object", name)
		}
		t, _ := prop["type"].(string)
		switch t {
		case "string", "integer", "number", "boolean", "array", "object":
		default:
			return fmt.Errorf("property %q has unsupported type %q", name, t)
		}
	}

	if rawReq, present := schema["required"]; present {
		required, err := asStringSlice(rawReq)
		if err != nil {
			return fmt.Errorf("required list: %w", err)
		}
		for _, name := range required {
			if _, declared := props[name]; !declared {
				return fmt.Errorf("required property %q is not declared", name)
			}
		}
	}

	return nil
}

// validateArgs checks call arguments against a (pre-validated) schema.
// Returns a human-readable reason on the first violation.
func validateArgs(schema map[string]interface{}, args map[string]interface{}) error {
	props, _ := schema["properties"].(map[string]interface{})

	if rawReq, present := schema["required"]; present {
		required, _ := asStringSlice(rawReq)
		for _, name := range required {
			if _, ok := args[name]; !ok {
				return fmt.Errorf("missing required argument %q", name)
			}
		}
	}

	for name, value := range args {
		raw, declared := props[name]
		if !declared {
			return fmt.Errorf("unexpected argument %q", name)
		}
		prop := raw.(map[string]interface{})
		declaredType, _ := prop["type"].(string)
		if err := checkType(declaredType, value); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}

	return nil
}

// checkType verifies a JSON-decoded value against a declared schema type.
// JSON numbers decode as float64, so integer checks accept whole floats.
func checkType(declaredType string, value interface{}) error {
	if value == nil {
		return nil
	}
	switch declaredType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "integer":
		switch v := value.(type) {
		case int, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "number":
		switch value.(type) {
		case int, int64, float64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	}
	return nil
}

func asStringSlice(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string entry, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", raw)
	}
}
