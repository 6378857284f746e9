package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationErrors is an itemized validation failure, one entry per field.
type ValidationErrors []FieldError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Param+": "+fe.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Field returns the message recorded for param, if any.
func (e ValidationErrors) Field(param string) (string, bool) {
	for _, fe := range e {
		if fe.Param == param {
			return fe.Msg, true
		}
	}
	return "", false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so errors match what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Counts bytes, not runes; bcrypt refuses longer input.
	_ = v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// fieldMessages holds the client-facing wording per field and failed tag.
var fieldMessages = map[string]map[string]string{
	"title": {
		"required": "Title cannot be empty",
		"min":      "Title cannot be empty",
		"max":      "Title must be at most 100 characters",
	},
	"description": {
		"required": "Description cannot be empty",
		"min":      "Description cannot be empty",
		"max":      "Description must be at most 500 characters",
	},
	"username": {
		"required": "Username cannot be empty",
		"max":      "Username too long",
	},
	"email": {
		"required": "Email required",
		"email":    "Invalid email",
		"max":      "Email too long",
	},
	"password": {
		"required":   "Password required",
		"min":        "Password must be at least 6 characters",
		"bcrypt_max": "Password must be at most 72 bytes",
	},
}

func messageFor(fe validator.FieldError) string {
	if byTag, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Invalid %s", fe.Field())
}

// validateStruct runs the struct tags on s and converts failures into
// ValidationErrors.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Param: fe.Field(), Msg: messageFor(fe)})
	}
	return out
}
