package web

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// fieldMessages maps validation tags to the message shown after the field name.
var fieldMessages = map[string]func(param string) string{
	"required": func(string) string { return " is required" },
	"min":      func(p string) string { return " must be at least " + p },
	"max":      func(p string) string { return " must be at most " + p },
	"uuid":     func(string) string { return " must be a valid uuid" },
	"currency": func(string) string { return " is not a supported currency" },
	"txtype":   func(string) string { return " is not a supported transaction type" },
	"amount":   func(string) string { return " must be a non-zero decimal number with at most 2 decimal places" },
}

// GetErrorMsg returns a user facing message for the failed validation rule.
func GetErrorMsg(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg(fe.Param())
	}

	return fmt.Sprintf(" failed %q check", fe.Tag())
}

// ValidationMessage turns a binding error into a message naming the first offending field.
func ValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return toSnakeCase(ve[0].Field()) + GetErrorMsg(ve[0])
	}

	return "invalid request"
}

// toSnakeCase converts a Go field name to snake case keeping acronyms together,
// so AccountID becomes account_id.
func toSnakeCase(s string) string {
	var (
		sb   strings.Builder
		prev rune
	)

	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			sb.WriteByte('_')
		}

		sb.WriteRune(r)
		prev = r
	}

	return strings.ToLower(sb.String())
}
