package shared

import "github.com/google/uuid"

// ParseID parses a request id, reporting field in the validation error.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, Invalid("%s must be a valid UUID", field)
	}
	return id, nil
}

// ParseOptionalID parses an optional id; nil and "" both mean unset.
func ParseOptionalID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := ParseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
