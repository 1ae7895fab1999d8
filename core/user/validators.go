package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the username or email"
)

// InitValidators registers the user validations on v.
func InitValidators(v *core.Validator) {
	v.RegisterStructValidation(userStructValidation, NewRegistration{}, NewUser{}, UpdateUser{}, AdminAccount{}, PasswordReset{})
	v.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	v.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	v.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	v.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// userStructValidation applies the password policy to every struct carrying a password.
// Blank passwords are left to the `required` tag (or ignored on update).
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewRegistration:
		validatePassword(usr.Password, usr.Username, usr.Email, sl)
	case NewUser:
		validatePassword(usr.Password, usr.Username, usr.Email, sl)
	case UpdateUser:
		validatePassword(usr.Password, usr.Username, usr.Email, sl)
	case AdminAccount:
		validatePassword(usr.Password, usr.Username, usr.Email, sl)
	case PasswordReset:
		validatePassword(usr.Password, usr.Username, usr.Email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no user attrs similarity
func validatePassword(pwd, uname, email string, sl validator.StructLevel) {
	if pwd == "" {
		return
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	runes := []rune(pwd)
	if len(runes) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	var digitCount int
	for _, char := range runes {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == len(runes) {
		reportErr(pwdNotAllNumTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	if getRatio(lpwd, uname) >= pwdMaxSim || getRatio(lpwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}
