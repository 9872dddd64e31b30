package card

import (
	"regexp"
	"strconv"
	"time"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expDatePattern    = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
)

// ValidateCardNumber reports whether raw, once whitespace is removed, is a
// 13 to 19 digit number with a valid Luhn check digit.
func ValidateCardNumber(raw string) bool {
	cleaned := stripWhitespace(raw)
	if !cardNumberPattern.MatchString(cleaned) {
		return false
	}
	return luhn(cleaned)
}

// luhn expects a string of ASCII digits.
func luhn(digits string) bool {
	var sum int
	shouldDouble := false

	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if shouldDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}

// ValidateExpDate checks a MM/YY string against the current wall clock.
func ValidateExpDate(formatted string) bool {
	return ValidateExpDateAt(formatted, time.Now())
}

// ValidateExpDateAt checks a MM/YY string against now. Only the last two
// digits of the year are compared, so there is no century handling.
func ValidateExpDateAt(formatted string, now time.Time) bool {
	m := expDatePattern.FindStringSubmatch(formatted)
	if m == nil {
		return false
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return false
	}

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return false
	}
	return true
}

// ParseExpDate splits a MM/YY string into a month and a four digit year in
// the 2000s.
func ParseExpDate(formatted string) (month, year int, ok bool) {
	m := expDatePattern.FindStringSubmatch(formatted)
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, 2000 + year, true
}

// IsExpired reports whether a card valid through month/year (four digit year)
// has lapsed at now. A card stays valid until the end of its expiry month.
func IsExpired(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return true
	}
	currentYear, currentMonth, _ := now.Date()
	return year < currentYear || (year == currentYear && month < int(currentMonth))
}
