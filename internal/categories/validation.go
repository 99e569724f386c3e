package categories

import "strings"

// CreateInput is the body of POST /category/create.
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateInput is the body of PUT /category/update/{id}.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
