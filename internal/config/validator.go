package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ownerReadBit is the permission bit the file rule checks. The policy
// file only has to be readable by the user running the CLI.
const ownerReadBit = 0o400

// newValidator builds the validate instance applied to a loaded Config.
// Message field names come from the mapstructure tags so they match the
// keys a user writes in the YAML file; the custom file rule backs the
// scheduler.policy_file path.
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if tag == "-" {
			return ""
		}
		return tag
	})

	if err := validate.RegisterValidation("file", readableFile); err != nil {
		return nil, nil, fmt.Errorf("validate.RegisterValidation(file) > %w", err)
	}
	addMessage := func(t ut.Translator) error {
		return t.Add("file", "{0} does not point at a readable file", true)
	}
	translateMessage := func(t ut.Translator, fieldError validator.FieldError) string {
		message, _ := t.T("file", strings.TrimPrefix(fieldError.Namespace(), "Config."))
		return message
	}
	if err := validate.RegisterTranslation("file", translator, addMessage, translateMessage); err != nil {
		return nil, nil, fmt.Errorf("validate.RegisterTranslation(file) > %w", err)
	}

	return validate, translator, nil
}

// readableFile accepts a path to an existing regular file the owner can
// read. Directories fail: the policy file is a single YAML document.
func readableFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&ownerReadBit != 0
}
