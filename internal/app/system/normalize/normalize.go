// internal/app/system/normalize/normalize.go
//
// Package normalize cleans raw form and query input before it reaches
// validation or the stores.
package normalize

import "strings"

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LoginID trims surrounding whitespace. Case folding for lookups is done by
// the store with text.Fold.
func LoginID(s string) string {
	return strings.TrimSpace(s)
}

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
