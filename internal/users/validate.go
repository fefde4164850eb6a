package users

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to an ordered list of human-readable
// messages. Callers display only the first message per field.
type FieldErrors map[string][]string

// fieldOrder keeps error reporting deterministic across map iteration.
var fieldOrder = []string{"id", "email", "name", "isPaid"}

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether any field carries an error.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// First returns the first message of the first failing field, in schema
// field order. Empty string when there are no errors.
func (e FieldErrors) First() string {
	for _, field := range fieldOrder {
		if msgs := e[field]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	for _, msgs := range e {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// FormPayload is a raw key-value payload as produced by a form submission:
// every value is a string, checkboxes are present-or-absent.
type FormPayload map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the json field names the payloads use.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseNewUserParams converts a raw form payload into a typed insert payload
// or a field-level error map. Validation is synchronous and complete: every
// failing field is reported.
func ParseNewUserParams(payload FormPayload) (NewUserParams, FieldErrors) {
	params := NewUserParams{
		Email:  strings.TrimSpace(payload["email"]),
		Name:   strings.TrimSpace(payload["name"]),
		IsPaid: parseCheckbox(payload, "isPaid"),
	}
	return params, ValidateNewUserParams(params)
}

// ParseUpdateUserParams converts a raw form payload into a typed update
// payload. The id must already be present in the payload.
func ParseUpdateUserParams(payload FormPayload) (UpdateUserParams, FieldErrors) {
	params := UpdateUserParams{
		ID:     strings.TrimSpace(payload["id"]),
		Email:  strings.TrimSpace(payload["email"]),
		Name:   strings.TrimSpace(payload["name"]),
		IsPaid: parseCheckbox(payload, "isPaid"),
	}
	return params, ValidateUpdateUserParams(params)
}

// ParseUserID validates the id-only payload used for deletes.
func ParseUserID(id string) (UserIDParams, FieldErrors) {
	params := UserIDParams{ID: strings.TrimSpace(id)}
	return params, validateStruct(params)
}

// ValidateNewUserParams re-validates an already-typed insert payload.
// Mutation actions call this regardless of any client-side validation.
func ValidateNewUserParams(params NewUserParams) FieldErrors {
	return validateStruct(params)
}

// ValidateUpdateUserParams re-validates an already-typed update payload.
func ValidateUpdateUserParams(params UpdateUserParams) FieldErrors {
	return validateStruct(params)
}

func validateStruct(params interface{}) FieldErrors {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	fieldErrs := FieldErrors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrs.Add("_", err.Error())
		return fieldErrs
	}

	for _, fe := range verrs {
		fieldErrs.Add(fe.Field(), messageFor(fe))
	}
	return fieldErrs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseCheckbox coerces checkbox-style input: an absent key is false, a
// present key is true unless it carries an explicit negative value.
func parseCheckbox(payload FormPayload, key string) bool {
	value, ok := payload[key]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "off":
		return false
	}
	return true
}
