package typegen

import "strings"

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// ToPascal turns arbitrary text into a PascalCase identifier fragment.
// Runs of non-word characters separate segments; the first character of
// each segment is upper-cased and the rest is kept as written.
//
//	ToPascal("hello world")     == "HelloWorld"
//	ToPascal("  foo-bar_baz  ") == "FooBar_baz"
//	ToPascal("123cats")         == "123cats"
func ToPascal(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isWordByte(c) {
			start = true
			continue
		}
		if start && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
		start = false
	}
	return b.String()
}

// SafeProp turns a field id into a valid TypeScript property name.
// Empty input becomes "field"; every non-word character becomes "_" (one per
// UTF-16 code unit, so astral characters become "__"); a leading character
// that is not a letter or underscore gets a "_" prefix.
//
//	SafeProp("123 bad! id") == "_123_bad__id"
func SafeProp(id string) string {
	if id == "" {
		id = "field"
	}

	var b strings.Builder
	b.Grow(len(id) + 1)
	for _, r := range id {
		switch {
		case r < 0x80 && isWordByte(byte(r)):
			b.WriteRune(r)
		case r > 0xFFFF:
			b.WriteString("__")
		default:
			b.WriteByte('_')
		}
	}

	cleaned := b.String()
	if c := cleaned[0]; c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return cleaned
	}
	return "_" + cleaned
}
