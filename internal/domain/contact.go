package domain

import (
	"regexp"
	"strings"
)

var (
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
	// Latin and Hebrew letters only.
	nameRegex = regexp.MustCompile(`^[a-zA-Zא-ת]+$`)
)

// ValidatePhone checks an Israeli mobile number: exactly 10 digits, "05"
// prefix, third digit not 6, 7 or 9.
func ValidatePhone(field, phone string) error {
	phone = strings.TrimSpace(phone)
	if !digitsRegex.MatchString(phone) {
		return NewValidationError(field, "Phone number can only include numbers")
	}
	if len(phone) != 10 {
		return NewValidationError(field, "Phone number must be exactly 10 digits long, it currently has %d digits", len(phone))
	}
	if !strings.HasPrefix(phone, "05") {
		return NewValidationError(field, "Phone number must start with 05 characters")
	}
	switch phone[2] {
	case '6', '7', '9':
		return NewValidationError(field, "Phone number cannot begin with %s, change the third character (%c)", phone[:3], phone[2])
	}
	return nil
}

// IsLettersOnly reports whether name is a non-empty run of Latin or Hebrew
// letters.
func IsLettersOnly(name string) bool {
	return nameRegex.MatchString(name)
}
