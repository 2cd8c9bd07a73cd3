package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrPasswordNoUpper  = errors.New("password must contain at least 1 uppercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain at least 1 digit")
	ErrPasswordNoSymbol = errors.New("password must contain at least 1 symbol")
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces the registration password policy: at least 12
// characters with one uppercase letter, one digit and one symbol.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSymbol:
		return ErrPasswordNoSymbol
	}
	return nil
}
