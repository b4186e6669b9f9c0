package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxTextLength caps free-text fields, in runes
const MaxTextLength = 1000

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeText strips markup, normalizes to NFC, trims and caps s at max runes
func SanitizeText(s string, max int) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return s
}

// optionalText sanitizes s and returns nil when nothing is left
func optionalText(s string) *string {
	s = SanitizeText(s, MaxTextLength)
	if s == "" {
		return nil
	}
	return &s
}
