// Package inputval validates user-supplied input before it reaches the
// stores. Struct validation runs through go-playground/validator with a
// few app-specific rules; the standalone Is* helpers cover the ad-hoc
// checks handlers do on path and query values.
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a bare RFC 5322 address. Display-name
// forms ("Jane <jane@example.com>") are rejected; the stores keep plain
// addresses only.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
