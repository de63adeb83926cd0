package util

import (
	"strings"
	"unicode"
)

// ToPascalCase converts snake_case, kebab-case or space separated words to PascalCase.
// Any rune that is not a letter or digit is a word boundary and is dropped.
// A letter directly after a digit starts a new word: "linear-2d" -> "Linear2D".
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		// Capitalize first letter, keep rest as-is
		result.WriteRune(unicode.ToUpper(runes[0]))
		for i := 1; i < len(runes); i++ {
			if unicode.IsDigit(runes[i-1]) && unicode.IsLetter(runes[i]) {
				result.WriteRune(unicode.ToUpper(runes[i]))
				continue
			}
			result.WriteRune(runes[i])
		}
	}

	return result.String()
}

// ToCamelCase converts snake_case or kebab-case to camelCase
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// EnumMemberName derives a TypeScript enum member name from a raw enum value.
// Names that would start with a digit are prefixed with "_"; an empty value becomes "Empty".
func EnumMemberName(value string) string {
	name := ToPascalCase(value)
	if name == "" {
		return "Empty"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "_" + name
	}
	return name
}
