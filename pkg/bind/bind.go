// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/nkhandel/bookstock/config"
	"github.com/nkhandel/bookstock/pkg/validate"
)

// FieldError reports a body field whose JSON value has the wrong type,
// e.g. "price": "abc" against a numeric field. It carries the same
// per-field message shape the validator produces, so handlers can fold it
// into the 422 envelope instead of failing the whole request with a 400.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB).
// Returns (errs, nil) when there are validation failures, including a
// type-mismatched field.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if err := Decode(r, dest); err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return map[string]string{fieldErr.Field: fieldErr.Message}, nil
		}
		return nil, err
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Decode reads r.Body into dest without validating. Handlers whose service
// layer aggregates validation itself use this to avoid running the rules
// twice. A value of the wrong JSON type for a known field is returned as a
// *FieldError; malformed JSON and oversized bodies stay generic errors.
func Decode(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			field := fieldName(typeErr)
			return &FieldError{Field: field, Message: typeMessage(field, typeErr.Type)}
		}

		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// fieldName takes the last path segment, so nested fields report their own
// name rather than the full "outer.inner" path.
func fieldName(e *json.UnmarshalTypeError) string {
	field := e.Field
	if idx := strings.LastIndexByte(field, '.'); idx != -1 {
		field = field[idx+1:]
	}
	return field
}

func typeMessage(field string, t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("The %s field must be a number.", field)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("The %s field must be an integer.", field)
	case reflect.String:
		return fmt.Sprintf("The %s field must be a string.", field)
	case reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
