package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PhoneMaxDigits caps the number of digits kept for a phone number (two area
// digits plus a nine digit mobile number).
const PhoneMaxDigits = 11

// Identity returns the input unchanged.
func Identity(text string) string {
	return text
}

// Capitalized upper-cases the first rune of every word and lower-cases the
// rest. Words are split on single spaces only, so leading, trailing and
// repeated spaces survive verbatim.
func Capitalized(text string) string {
	if text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}

// StripNonDigits drops every character outside 0-9.
func StripNonDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// PhoneDigits extracts the digits of text and caps them at PhoneMaxDigits.
// This is the canonical stored form of a phone number.
func PhoneDigits(text string) string {
	digits := StripNonDigits(text)
	if len(digits) > PhoneMaxDigits {
		digits = digits[:PhoneMaxDigits]
	}
	return digits
}

// Phone renders the progressive display mask for the digits found in raw:
//
//	n <= 2   "(" + digits
//	3..6     "(DD) " + rest
//	7..10    "(DD) " + middle + "-" + last four
//	11       "(DD) " + five digits + "-" + four digits
//
// Feeding the digits of the result back in yields the same mask.
func Phone(raw string) string {
	d := PhoneDigits(raw)
	n := len(d)
	switch {
	case n <= 2:
		return "(" + d
	case n <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case n <= 10:
		return "(" + d[:2] + ") " + d[2:n-4] + "-" + d[n-4:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:11]
	}
}

// Email lower-cases text. It does not trim or validate.
func Email(text string) string {
	return strings.ToLower(text)
}
