// Package validation holds the field predicates shared by the login, signup,
// customer and inventory forms. Every check is a pure function of its input.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxTextFieldRunes = 200
	MobileDigits      = 10
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	numericPattern = regexp.MustCompile(`^[0-9]*$`)
	decimalPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)
)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

// ValidTextField accepts a free-text name or description: non-empty after
// trimming, at most MaxTextFieldRunes long, at least one letter or digit and
// no control characters.
func ValidTextField(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxTextFieldRunes {
		return false
	}
	hasWord := false
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasWord = true
		}
	}
	return hasWord
}

// ValidMobileNumber reports whether mobile is exactly ten ASCII digits.
func ValidMobileNumber(mobile string) bool {
	if len(mobile) != MobileDigits {
		return false
	}
	for i := 0; i < len(mobile); i++ {
		if mobile[i] < '0' || mobile[i] > '9' {
			return false
		}
	}
	return true
}

// NumericText accepts what a quantity input may hold while being typed,
// including the empty string.
func NumericText(value string) bool {
	return numericPattern.MatchString(value)
}

// DecimalText is NumericText for prices: one optional decimal point.
func DecimalText(value string) bool {
	return decimalPattern.MatchString(value)
}
