package college

import (
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mediateam/core"
)

var (
	nameMinLen  = 2
	nameTag     = "collegename"
	nameTooShrt = "اسم الكلية قصير جدًا"

	yearsMin   = 1
	yearsMax   = 10
	yearsTag   = "yearscount"
	yearsRange = "عدد السنوات يجب أن يكون بين 1 و 10"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(nameTag, nameValidation)
	core.RegisterCustomTranslation(validate, translator, nameTag, nameTooShrt)

	_ = validate.RegisterValidation(yearsTag, yearsValidation)
	core.RegisterCustomTranslation(validate, translator, yearsTag, yearsRange)
}

// nameValidation requires at least 2 characters once surrounding whitespace is ignored.
func nameValidation(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= nameMinLen
}

func yearsValidation(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= int64(yearsMin) && n <= int64(yearsMax)
}
