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
	// custom translations
	requiredTag  = "required"
	requiredText = "{0} is required"
)

// Validator validates input structs and reports failures as validation *Error values
// with translated per-field messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	v := &Validator{
		validate:   validator.New(),
		translator: translator,
	}
	InitValidators(v)
	return v
}

// InitValidators registers the translations and tag name function shared by all packages.
func InitValidators(v *Validator) {
	_ = en_translations.RegisterDefaultTranslations(v.validate, v.translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterValidation adds a validation with the given tag.
func (v *Validator) RegisterValidation(tag string, fn validator.Func) {
	_ = v.validate.RegisterValidation(tag, fn)
}

// RegisterStructValidation registers a struct level validation for the given types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func (v *Validator) RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. Field failures are returned as a validation *Error.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return v.toError(vErrs)
}

func (v *Validator) toError(vErrs validator.ValidationErrors) *Error {
	flds := make([]FieldError, 0, len(vErrs))
	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msg := fe.Translate(v.translator)
		flds = append(flds, FieldError{Field: fe.Field(), Error: msg})
		msgs = append(msgs, msg)
	}
	return NewValidationError(strings.Join(msgs, "; "), flds...)
}
