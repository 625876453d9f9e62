package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Hint    string       `json:"hint,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report field names in JSON form
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// entry status; empty is left to the caller
	_ = v.RegisterValidation("ncrstatus", func(fl validator.FieldLevel) bool {
		return ncr.Status(fl.Field().String()).Valid()
	})
	// one of the editable 8D report fields
	_ = v.RegisterValidation("reportfield", func(fl validator.FieldLevel) bool {
		f := eightd.Field(fl.Field().String())
		for _, known := range eightd.Fields() {
			if f == known {
				return true
			}
		}
		return false
	})
	// non-blank after trimming
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "ncrstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of Open, Closed, Delay"})
		case "reportfield":
			out = append(out, FieldError{Field: field, Message: "is not an editable report field"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
