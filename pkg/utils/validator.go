package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	postalRegex = regexp.MustCompile(`^[1-9][0-9]{3}\s?[A-Z]{2}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePostalCode validates a Dutch postal code (1234 AB)
func ValidatePostalCode(code string) error {
	if !postalRegex.MatchString(strings.ToUpper(code)) {
		return fmt.Errorf("invalid postal code: %s", code)
	}
	return nil
}

// ValidateVATPercent validates a VAT percentage. Zero is the
// reverse-charged (verlegd) case and is allowed.
func ValidateVATPercent(percent int) error {
	if percent < 0 || percent > 99 {
		return fmt.Errorf("VAT percentage out of range: %d", percent)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
