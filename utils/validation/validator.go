package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/qaunion/portal/i18n"
)

// tags that get an Arabic message from the validation.* dictionary keys
var arabicTags = []string{"required", "email", "min", "max", "oneof", "url"}

// Validator wraps the go-playground validator with one translator per locale
type Validator struct {
	validate    *validator.Validate
	translators map[i18n.Locale]ut.Translator
}

// NewValidator creates a validator that reports json/form field names
func NewValidator() *Validator {
	validate := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_en := en.New()
	uni := ut.New(_en, _en, ar.New())

	enT, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, enT)

	arT, _ := uni.GetTranslator("ar")
	for _, tag := range arabicTags {
		RegisterCustomTranslation(validate, arT, tag, i18n.T(i18n.Arabic, "validation."+tag))
	}

	return &Validator{
		validate: validate,
		translators: map[i18n.Locale]ut.Translator{
			i18n.English: enT,
			i18n.Arabic:  arT,
		},
	}
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors maps field name to a message in the given locale.
// Errors that are not validation errors yield an empty map.
func (v *Validator) FormatValidationErrors(err error, l i18n.Locale) map[string]string {
	out := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return out
	}

	t, ok := v.translators[l]
	if !ok {
		t = v.translators[i18n.Default]
	}
	for _, e := range validationErrs {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = e.Translate(t)
	}
	return out
}

// Details joins formatted errors into one line, used for the JSON envelope
func Details(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for f, msg := range fields {
		parts = append(parts, f+": "+msg)
	}
	return strings.Join(parts, "; ")
}
