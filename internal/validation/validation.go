// Package validation wraps go-playground/validator so that request
// documents are checked through struct tags and failures are reported per
// JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Error is returned when a document fails validation.  Fields maps the JSON
// name of each offending field to a human readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// NewError builds an Error for a single field.
func NewError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

// Validator checks structs tagged with `validate`.  It satisfies
// echo.Validator, so it can be installed as e.Validator.
type Validator struct {
	v  *validator.Validate
	tr ut.Translator
}

// New returns a Validator that reports JSON field names and English
// messages.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	tr, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, tr)
	override(v, tr, "required", "{0} is required")
	override(v, tr, "email", "{0} must be a valid email address")

	return &Validator{v: v, tr: tr}
}

// Validate checks i and returns *Error on failure.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, dup := out.Fields[fe.Field()]; dup {
			continue
		}
		out.Fields[fe.Field()] = fe.Translate(cv.tr)
	}
	return out
}

// Var checks a single value against tag, reporting failures under field.
func (cv *Validator) Var(field string, value any, tag string) error {
	err := cv.v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg := strings.TrimSpace(strings.TrimPrefix(verrs[0].Translate(cv.tr), verrs[0].Field()))
		return NewError(field, field+" "+msg)
	}
	return fmt.Errorf("validate %s: %w", field, err)
}

func override(v *validator.Validate, tr ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, tr,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
