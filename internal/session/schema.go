package session

import (
	"encoding/json"
	"fmt"
	"math"
)

// Field types understood by schema validation.
const (
	FieldString     = "string"
	FieldInt        = "int"
	FieldStringList = "[]string"
)

// SchemaField describes one field the agent is asked to emit.
type SchemaField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// OutputSchema describes the structured payload requested from the agent.
// It is sent with the session-create call and used afterwards to decide
// whether the returned structured output can be trusted verbatim.
type OutputSchema struct {
	Name   string        `json:"name,omitempty"`
	Fields []SchemaField `json:"fields"`
}

// Validate checks raw against the schema: every required field must be
// present with the declared type. Fields outside the schema are ignored.
func (s *OutputSchema) Validate(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty payload")
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	for _, field := range s.Fields {
		value, ok := payload[field.Name]
		if !ok {
			if field.Required {
				return fmt.Errorf("required field %q missing", field.Name)
			}
			continue
		}
		if err := checkFieldType(field, value); err != nil {
			return err
		}
	}

	return nil
}

func checkFieldType(field SchemaField, value any) error {
	switch field.Type {
	case FieldString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q: expected string, got %T", field.Name, value)
		}
	case FieldInt:
		// encoding/json decodes every number as float64.
		num, ok := value.(float64)
		if !ok || num != math.Trunc(num) {
			return fmt.Errorf("field %q: expected integer, got %v", field.Name, value)
		}
	case FieldStringList:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("field %q: expected string list, got %T", field.Name, value)
		}
		for i, item := range items {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("field %q: element %d is not a string", field.Name, i)
			}
		}
	default:
		return fmt.Errorf("field %q: unknown schema type %q", field.Name, field.Type)
	}
	return nil
}
