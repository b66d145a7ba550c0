package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Violation is one field-level constraint failure found while
// constructing a Device from a document.
type Violation struct {
	// Field is the dotted path to the offending field
	// (e.g. "preset_collections.factory.presets[2].preset_id").
	Field string

	// Message is a human-readable description of the constraint.
	Message string
}

// String returns the violation as "field: message".
func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Parse decodes a preset document leniently. It fails hard only when
// data is not syntactically valid JSON. Field-level problems, type
// mismatches included, are collected into the returned violation list
// so callers see every problem in one pass instead of the first.
//
// The returned Device is always usable when err is nil, though fields
// named in the violations may hold zero values.
func Parse(data []byte) (*Device, []Violation, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var d Device
	var violations []Violation
	if err := json.Unmarshal(data, &d); err != nil {
		// The decoder reports the first offending field but still
		// populates everything it could decode.
		violations = append(violations, violationFromDecodeError(err))
	}

	violations = append(violations, d.Validate()...)
	return &d, violations, nil
}

// ParseFile reads and parses the document at path. Read failures are
// returned as errors wrapped with the path.
func ParseFile(path string) (*Device, []Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

func violationFromDecodeError(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return Violation{Message: err.Error()}
}
