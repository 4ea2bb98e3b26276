package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, notBlankText)
}

// RegisterCustomTranslation registers an error message for a custom validation tag.
// a validator.RegisterTranslationsFunc is required for registering the Translator,
// but it has already been registered as the default translation.
// so a noop func is passed to bypass this requirement.
func RegisterCustomTranslation(tag, text string) {
	registerFn := func(ut.Translator) error { return nil }
	translateFn := func(_ ut.Translator, fe validator.FieldError) string { return text }
	_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateFn)
}

// TranslateValidationErrors flattens validator errors into FieldErrors.
func TranslateValidationErrors(err error) []FieldError {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return flds
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}
