// Package payment holds the card checks used by checkout: Luhn, expiry and CVV
// validation plus masking of card data before it is stored.
package payment

import (
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var checksum = validator.New()

var (
	cardDigits = regexp.MustCompile(`^\d{13,19}$`)
	expiryForm = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvDigits  = regexp.MustCompile(`^\d{3,4}$`)
	whitespace = regexp.MustCompile(`\s`)
)

// MaskedCVV replaces the security code on stored payment records.
const MaskedCVV = "***"

// CleanCardNumber removes all whitespace from a card number.
func CleanCardNumber(s string) string {
	return whitespace.ReplaceAllString(s, "")
}

// ValidateCardNumber reports whether s is 13 to 19 digits, ignoring spaces,
// and passes the Luhn checksum.
func ValidateCardNumber(s string) bool {
	cleaned := CleanCardNumber(s)
	if !cardDigits.MatchString(cleaned) {
		return false
	}
	return checksum.Var(cleaned, "luhn_checksum") == nil
}

// ValidateExpiryDate reports whether s is a MM/YY date that is not earlier than
// the calendar month of now. The year is read as 20YY.
func ValidateExpiryDate(s string, now time.Time) bool {
	m := expiryForm.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi("20" + m[2])
	if month < 1 || month > 12 {
		return false
	}

	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

// ValidateCVV reports whether s is three or four digits.
func ValidateCVV(s string) bool {
	return cvvDigits.MatchString(s)
}

// MaskCardNumber keeps only the last four digits of a card number.
func MaskCardNumber(s string) string {
	return "**** **** **** " + LastFour(s)
}

// LastFour returns the final four characters of the cleaned card number.
func LastFour(s string) string {
	cleaned := CleanCardNumber(s)
	if len(cleaned) <= 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}
