package models

import (
	"regexp"

	dErrors "contactbook/pkg/domain-errors"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// PhoneNumber is a validated contact phone.
// Invariant: exactly 10 ASCII decimal digits, nothing else.
//
// Usage: construct via ParsePhoneNumber; direct conversion bypasses validation.
type PhoneNumber string

// ParsePhoneNumber validates s and returns it unchanged as a PhoneNumber.
//
// Errors: returns CodeInvalidPhoneFormat naming the offending value.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	if !phonePattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidPhoneFormat, "invalid phone number: "+s)
	}
	return PhoneNumber(s), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}
