package database

import (
	"strings"
	"unicode"
)

// forbiddenIdentChars can close a quoted identifier or end a statement.
const forbiddenIdentChars = "\"';` "

// QuoteIdentifier validates a table or column name and returns it ready to
// be placed into SQL. Safe lowercase identifiers are returned bare, anything
// else is double-quoted. It is meant for names picked from the catalog,
// never for values.
func QuoteIdentifier(name string) (string, error) {
	if name == "" {
		return "", &ErrInvalidIdentifier{Name: name, Reason: "empty"}
	}
	if strings.ContainsAny(name, forbiddenIdentChars) {
		return "", &ErrInvalidIdentifier{Name: name, Reason: "contains a quote, semicolon, backtick or space"}
	}
	if isLowerIdent(name) {
		return name, nil
	}
	return `"` + name + `"`, nil
}

// isLowerIdent reports whether s is identifier-shaped and has at least one
// letter, with no uppercase letters.
func isLowerIdent(s string) bool {
	cased := false
	for i, r := range s {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
			if unicode.IsUpper(r) || unicode.IsTitle(r) {
				return false
			}
			if unicode.IsLower(r) {
				cased = true
			}
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return cased
}
