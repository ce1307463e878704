package auth

import (
	"regexp"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mediateam/core"
)

var (
	emailTag   = "loginemail"
	emailText  = "البريد الإلكتروني غير صحيح"
	emailRegex = regexp.MustCompile(`^\S+@\S+$`)

	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = "كلمة المرور يجب أن تحتوي على 8 أحرف على الأقل"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(emailTag, emailValidation)
	core.RegisterCustomTranslation(validate, translator, emailTag, emailText)

	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
}

// emailValidation only asks for something around an "@"; the backend decides the rest.
func emailValidation(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= pwdMinLen
}
