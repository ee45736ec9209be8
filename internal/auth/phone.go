package auth

import "strings"

const (
	countryCode = "57"
	localDigits = 10
)

// NormalizePhone reduces a phone number to its digits and drops the
// country code when more than localDigits digits are present. A 10-digit
// number that starts with "57" is a local number and is kept as is.
func NormalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if strings.HasPrefix(digits, countryCode) && len(digits) > localDigits {
		return digits[len(countryCode):]
	}
	return digits
}
