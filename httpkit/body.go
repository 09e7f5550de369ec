package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeBody decodes the JSON payload in r into v and validates it using the
// `validate` struct tags. A missing or malformed payload is a 400, a payload
// failing validation a 422.
func DecodeBody(r io.Reader, v any) error {
	if err := decode(r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return Errorf(http.StatusBadRequest, "request body is empty")
		}
		return err
	}
	return validateValue(v)
}

// DecodeOptionalBody is DecodeBody for payloads that may be omitted; an empty
// body leaves v untouched.
func DecodeOptionalBody(r io.Reader, v any) error {
	if err := decode(r, v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return validateValue(v)
}

func decode(r io.Reader, v any) error {
	if r == nil {
		return io.EOF
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return Errorf(http.StatusBadRequest, "failed to decode body: %v", err)
	}
	return nil
}

// validateValue runs struct validation on structs and pointers to structs.
// Other payload kinds carry no tags and pass as is.
func validateValue(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
		}
		return &StatusError{
			Code:    http.StatusUnprocessableEntity,
			Message: strings.Join(messages, "; "),
			Err:     err,
		}
	}
	return Errorf(http.StatusBadRequest, "invalid body: %v", err)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "email":
		return "must be a valid email address"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
