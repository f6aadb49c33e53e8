package models

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	postalCodePattern       = regexp.MustCompile(`^\d{7}$`)
	hyphenatedPostalPattern = regexp.MustCompile(`^\d{3}-\d{4}$`)
)

// PostalCode is a normalized 7-digit Japanese postal code.
type PostalCode string

// NormalizePostalCode accepts "NNNNNNN" or "NNN-NNNN" and returns the 7-digit form.
func NormalizePostalCode(raw string) (PostalCode, error) {
	code := strings.TrimSpace(raw)
	if hyphenatedPostalPattern.MatchString(code) {
		code = strings.Replace(code, "-", "", 1)
	}

	if !postalCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q (example: 1000001)", ErrInvalidFormat, raw)
	}

	return PostalCode(code), nil
}

// Segments splits the code into its 3-digit and 4-digit parts.
func (p PostalCode) Segments() (string, string) {
	s := string(p)
	if len(s) != 7 {
		return s, ""
	}
	return s[:3], s[3:]
}

func (p PostalCode) String() string {
	return string(p)
}
