// Package personalnumber handles the national personal identity number: a
// 12-digit identifier, optionally hyphenated before the last four digits,
// whose first eight digits encode the birth date as YYYYMMDD.
//
// The identifier is consulted only to derive age during precheck and is not
// retained beyond classification.
package personalnumber

import (
	"regexp"
	"strings"
	"time"
)

// Pattern matches a well-formed identifier row: eight digits, an optional
// hyphen, four digits.
var Pattern = regexp.MustCompile(`^\d{8}-?\d{4}$`)

const birthDateLayout = "20060102"

// Normalize strips the optional hyphen so identifiers compare and dedupe on
// the same 12-digit form.
func Normalize(legalID string) string {
	return strings.ReplaceAll(strings.TrimSpace(legalID), "-", "")
}

// Valid reports whether the identifier matches the expected shape.
func Valid(legalID string) bool {
	return Pattern.MatchString(strings.TrimSpace(legalID))
}

// BirthDate parses the embedded birth date with strict calendar validation:
// non-numeric input, impossible dates such as February 30th, and identifiers
// that are not exactly twelve digits all fail.
func BirthDate(legalID string) (time.Time, bool) {
	normalized := Normalize(legalID)
	if len(normalized) != 12 {
		return time.Time{}, false
	}
	birth, err := time.Parse(birthDateLayout, normalized[:8])
	if err != nil {
		return time.Time{}, false
	}
	return birth, true
}

// IsAdult reports whether the identifier's holder is at least 18 years old
// on the given day. The check fails closed: an absent, malformed, or
// future-dated identifier is never an adult.
func IsAdult(legalID string, today time.Time) bool {
	birth, ok := BirthDate(legalID)
	if !ok {
		return false
	}
	if birth.After(today) {
		return false
	}
	return age(birth, today) >= 18
}

// age is whole years elapsed, flooring partial years.
func age(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(today) {
		years--
	}
	return years
}
