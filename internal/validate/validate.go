// Package validate provides input validation helpers for shape names,
// colors and numeric options.
package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/manav03panchal/undoctl/internal/errors"
)

// MaxShapeNameLength is the maximum length of a shape name in runes.
const MaxShapeNameLength = 64

// NamedColors are the color names accepted besides hex codes.
var NamedColors = []string{
	"black", "white", "gray", "grey", "red", "orange", "yellow", "green",
	"cyan", "blue", "purple", "magenta", "pink", "brown",
}

// ShapeName validates a shape name.
func ShapeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewUserError("shape name cannot be empty", "Provide a name such as 'box'")
	}
	if utf8.RuneCountInString(name) > MaxShapeNameLength {
		return errors.NewUserErrorWithField("name", TruncateString(name, 20),
			"shape name too long",
			fmt.Sprintf("Shape names must be %d characters or fewer", MaxShapeNameLength))
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return errors.NewUserErrorWithField("name", StripControlChars(name),
			"shape name contains control characters",
			"Use letters, digits, spaces and punctuation only")
	}
	return nil
}

// Color validates a color: one of NamedColors or a hex code like '#FF5733'.
func Color(color string) error {
	if color == "" {
		return errors.NewUserError("color cannot be empty", "Use a color name such as 'red' or a hex code")
	}
	if slices.Contains(NamedColors, strings.ToLower(color)) {
		return nil
	}
	if !strings.HasPrefix(color, "#") {
		return errors.NewUserErrorWithField("color", color,
			"unknown color",
			"Use one of "+strings.Join(NamedColors, ", ")+" or a hex code like '#FF5733'")
	}
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return errors.NewUserErrorWithField("color", color,
			"invalid hex color",
			"Hex colors must have 6 digits, like '#FF5733'")
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return errors.NewUserErrorWithField("color", color,
				"invalid hex color",
				"Hex colors may only contain 0-9 and A-F")
		}
	}
	return nil
}

// InRange validates that value is in [min, max]. A negative max means no
// upper bound.
func InRange(field string, value, min, max int) error {
	if value < min || (max >= 0 && value > max) {
		bound := fmt.Sprintf("at least %d", min)
		if max >= 0 {
			bound = fmt.Sprintf("between %d and %d", min, max)
		}
		return errors.NewUserErrorWithField(field, fmt.Sprint(value),
			field+" out of range",
			fmt.Sprintf("Use a value %s", bound))
	}
	return nil
}
