// Package validation checks incoming book data using the validator/v10 library.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/listenupapp/readlog-server/internal/domain"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
// All field problems are collected before returning.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error details
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("bookstatus", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseStatus(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	fe, err := v.collect(s)
	if err != nil {
		return err
	}
	return fe.Err("validation failed")
}

// collect runs struct validation and converts the result to field errors.
func (v *Validator) collect(s any) (domainerrors.FieldErrors, error) {
	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}

	var fe domainerrors.FieldErrors
	for _, e := range validationErrs {
		code, params := fieldCode(e)
		fe.Add(e.Field(), code, params...)
	}
	return fe, nil
}

// fieldCode maps a validator tag to the code and params reported to clients.
func fieldCode(e validator.FieldError) (string, []any) {
	switch e.Tag() {
	case "required", "notblank":
		return domainerrors.FieldEmpty, nil
	case "max":
		if n, err := strconv.Atoi(e.Param()); err == nil {
			return domainerrors.FieldTooLong, []any{n}
		}
		return domainerrors.FieldTooLong, []any{e.Param()}
	case "bookstatus":
		return domainerrors.FieldInvalidStatus, stringsToAny(domain.StatusNames())
	case "uuid", "uuid4":
		return domainerrors.FieldInvalidIDFormat, nil
	default:
		return domainerrors.FieldInvalid, []any{e.Tag()}
	}
}

// ValidateID parses raw as a book ID.
func (v *Validator) ValidateID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		var fe domainerrors.FieldErrors
		fe.Add("id", domainerrors.FieldInvalidIDFormat, raw)
		return uuid.Nil, fe.Err("invalid book id")
	}
	return id, nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
