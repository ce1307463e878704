package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/ar"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	requiredTag  = "required"
	requiredText = "هذا الحقل مطلوب"
)

// NewTranslator returns the Arabic translator used for validation messages.
func NewTranslator() ut.Translator {
	_ar := ar.New()
	uni := ut.New(_ar, _ar)
	translator, _ := uni.GetTranslator("ar")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	// Use form field names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
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
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldErrors flattens a validation failure into {field: message}.
// It returns nil when err is not a validation failure.
func FieldErrors(err error, translator ut.Translator) map[string]string {
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(vErr))
		for _, fe := range vErr {
			if _, ok := fldErrs[fe.Field()]; !ok {
				fldErrs[fe.Field()] = fe.Translate(translator)
			}
		}
		return fldErrs
	case *ValidationError:
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fe := range vErr.Fields {
			fldErrs[fe.Field] = fe.Error
		}
		return fldErrs
	}
	return nil
}
