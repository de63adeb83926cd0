package tsutil

import (
	"strconv"
	"unicode"

	json "github.com/goccy/go-json"

	"github.com/teranos/schemagen/internal/util"
)

// reserved words that cannot be used as parameter or binding names
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "implements": true,
	"interface": true, "package": true, "private": true, "protected": true,
	"public": true, "await": true, "arguments": true, "eval": true,
}

// IsIdentifier reports whether s is a valid identifier name. Reserved words are
// valid identifier names (they may follow a dot) but not valid bindings.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// PropertyKey renders a property name for a declaration: bare when it is an
// identifier name, quoted otherwise.
func PropertyKey(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return Quote(name)
}

// Access renders a member access on obj
func Access(obj, name string) string {
	if IsIdentifier(name) {
		return obj + "." + name
	}
	return obj + "[" + Quote(name) + "]"
}

// ParamName turns a property name into a usable parameter name.
func ParamName(name string) string {
	if IsIdentifier(name) && !reserved[name] {
		return name
	}
	p := util.ToCamelCase(name)
	if p == "" || !IsIdentifier(p) || reserved[p] {
		return "_" + p
	}
	return p
}

// Quote renders s as a double-quoted string literal
func Quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// Literal renders a schema default value: string, float64 or bool.
// It returns "" for anything else.
func Literal(v interface{}) string {
	switch x := v.(type) {
	case string:
		return Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
