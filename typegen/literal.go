package typegen

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/teranos/contentful-typegen/contentful"
)

// renderLiteral renders one `in` value as a TypeScript literal type.
func renderLiteral(lit contentful.Literal) string {
	if lit.Kind == contentful.LiteralNumber {
		return numberLiteral(lit.Value)
	}
	return quoteString(lit.Value)
}

// quoteString produces a double-quoted string literal using the JSON
// escaping rules: quote, backslash and control characters are escaped,
// everything else (including non-ASCII) is written as is.
func quoteString(s string) string {
	const hex = "0123456789abcdef"

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hex[r>>4])
				b.WriteByte(hex[r&0xF])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// numberLiteral renders numeric text the way a JavaScript runtime prints the
// number: "1.0" -> "1", "1e21" -> "1e+21", "0.0000001" -> "1e-7".
// Text that does not parse is kept verbatim.
// Values beyond float64 range stay as written ("1e400"), not "Infinity".
func numberLiteral(text string) string {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return text
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
