package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// entryForm mirrors the fields a manual entry must provide. Scheduling
// fields are filled by the store, never by the user.
type entryForm struct {
	Title  string `validate:"required"`
	Type   string `validate:"required,oneof=multiple-choice short-answer"`
	Answer string `validate:"required"`
}

// Validator checks manually entered questions before they reach the
// engine. Messages are translated for direct display in the entry form.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a Validator with English translations.
func NewValidator() (*Validator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// ValidateEntry validates a new manually entered question. The returned
// error carries one translated message per failed field.
func (v *Validator) ValidateEntry(record Question) error {
	form := entryForm{
		Title:  strings.TrimSpace(record.Title),
		Type:   record.Type,
		Answer: strings.TrimSpace(record.Answer),
	}

	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct() > %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(v.translator))
	}
	return errors.New(strings.Join(messages, "; "))
}
