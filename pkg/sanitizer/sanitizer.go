// Package sanitizer normalizes extractor-produced text before validation.
//
// All functions are idempotent and handle invalid input by returning the
// cleaned-up remainder rather than an error; deciding whether a field is
// acceptable is the normalizer's job, not this package's.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	rePhoneKeep  = regexp.MustCompile(`[^0-9+\-]`)
	reMultiDash  = regexp.MustCompile(`-+`)
	reTimeDigits = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// NormalizePhone strips everything but digits, '+' and '-', and collapses
// runs of dashes. Free-form input like "TEL: 090 1234 5678" becomes
// "09012345678".
func NormalizePhone(phone string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string { return rePhoneKeep.ReplaceAllString(s, "") },
		func(s string) string { return reMultiDash.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}
	return p.Apply(phone)
}

// NormalizeClock pads a clock value to fixed-width HH:MM ("9:00" → "09:00").
// Ledger ordering relies on the fixed width. Input that is not H:MM or
// HH:MM is returned trimmed and untouched.
func NormalizeClock(clock string) string {
	clock = strings.TrimSpace(clock)
	if !reTimeDigits.MatchString(clock) {
		return clock
	}
	if len(clock) == 4 {
		return "0" + clock
	}
	return clock
}

// NormalizeKey lowercases and trims an identifier-like value (court id,
// category id) so matching against the configured sets is forgiving about
// casing and padding.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
