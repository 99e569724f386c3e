package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	maxBodyBytes = 1 << 20
	// bcrypt rejects secrets longer than this many bytes.
	maxPasswordBytes = 72
)

// FieldError describes one violated constraint in a request.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validator checks decoded requests against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return &Validator{validate: v}
}

// Struct validates s and returns every violation, or nil when s is valid.
func (v *Validator) Struct(s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Rule: "invalid", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_without":
		return fmt.Sprintf("%s is required when %s is not set", fe.Field(), toSnake(fe.Param()))
	case "uuid", "uuid4":
		return fe.Field() + " must be a valid UUID"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email address"
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), maxPasswordBytes)
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return strings.ReplaceAll(b.String(), "_i_d", "_id")
}

// ValidationFailed writes the 400 envelope listing the violated fields.
func ValidationFailed(w http.ResponseWriter, fields []FieldError) {
	Write(w, Failure(http.StatusBadRequest, "Validation failed", fields))
}

// Decode reads a JSON body into T and validates it.
func Decode[T any](v *Validator, w http.ResponseWriter, r *http.Request) (T, []FieldError) {
	var dst T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dst, []FieldError{{Field: "body", Rule: "required", Message: "request body is required"}}
		}
		return dst, []FieldError{{Field: "body", Rule: "json", Message: decodeMessage(err)}}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dst, []FieldError{{Field: "body", Rule: "json", Message: "unexpected data after JSON value"}}
	}
	if fields := v.Struct(dst); len(fields) > 0 {
		return dst, fields
	}
	return dst, nil
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "request body too large"
	}
	return err.Error()
}

// UUIDParam parses the named chi URL parameter as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, []FieldError) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil || raw == "" {
		return uuid.Nil, []FieldError{{Field: name, Rule: "uuid", Message: name + " must be a valid UUID"}}
	}
	return id, nil
}

// JSON validates the request body before calling next. next never runs on
// invalid input.
func JSON[T any](v *Validator, next func(http.ResponseWriter, *http.Request, T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, fields := Decode[T](v, w, r)
		if len(fields) > 0 {
			ValidationFailed(w, fields)
			return
		}
		next(w, r, body)
	}
}

// ID validates the named UUID path parameter before calling next.
func ID(param string, next func(http.ResponseWriter, *http.Request, uuid.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, fields := UUIDParam(r, param)
		if len(fields) > 0 {
			ValidationFailed(w, fields)
			return
		}
		next(w, r, id)
	}
}

// JSONWithID validates both the UUID path parameter and the body.
func JSONWithID[T any](v *Validator, param string, next func(http.ResponseWriter, *http.Request, uuid.UUID, T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, fields := UUIDParam(r, param)
		body, bodyFields := Decode[T](v, w, r)
		fields = append(fields, bodyFields...)
		if len(fields) > 0 {
			ValidationFailed(w, fields)
			return
		}
		next(w, r, id, body)
	}
}
