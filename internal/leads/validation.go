package leads

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	indianMobilePattern = regexp.MustCompile(`^(\+91|91)?[6-9]\d{9}$`)
	otpPattern          = regexp.MustCompile(`^\d{6}$`)
)

// OTPLength is the number of digits in an issued code.
const OTPLength = 6

// ValidateEmail checks the address before an OTP is requested.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// CleanPhone strips whitespace and hyphens.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

// ValidIndianMobile accepts ten digits starting 6-9, optionally prefixed by
// +91 or 91, once spaces and hyphens are removed.
func ValidIndianMobile(phone string) bool {
	return indianMobilePattern.MatchString(CleanPhone(phone))
}

// ValidOTP reports whether code is exactly six ASCII digits.
func ValidOTP(code string) bool {
	return otpPattern.MatchString(code)
}

// SanitizeOTP keeps digits only and truncates to OTPLength, mirroring a
// six-slot code input.
func SanitizeOTP(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == OTPLength {
				break
			}
		}
	}
	return b.String()
}
