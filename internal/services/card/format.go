package card

import (
	"strings"
	"unicode"
)

const (
	maxCardDigits = 16
	maxExpDigits  = 4
	maxCcvDigits  = 3
	maxDniDigits  = 8
)

// Digits drops every character that is not an ASCII digit.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

func stripWhitespace(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// FormatCardNumber keeps at most 16 digits and groups them in blocks of four
// separated by a single space. Applying it twice yields the same string.
func FormatCardNumber(raw string) string {
	digits := truncate(Digits(raw), maxCardDigits)

	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatExpDate masks input as MM/YY once a third digit is typed. It does not
// check that the month is in range.
func FormatExpDate(raw string) string {
	digits := truncate(Digits(raw), maxExpDigits)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCcv keeps the first three digits.
// TODO: amex uses four digit codes; make the length brand aware once the
// payment form passes the detected brand through.
func FormatCcv(raw string) string {
	return truncate(Digits(raw), maxCcvDigits)
}

// FormatDni keeps the first eight digits of a national identity number.
func FormatDni(raw string) string {
	return truncate(Digits(raw), maxDniDigits)
}

// LastFour returns the last four digits of a card number, or every digit
// when fewer than four are present.
func LastFour(raw string) string {
	digits := Digits(raw)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
