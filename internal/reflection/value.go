package reflection

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FoldLiteral evaluates a PHP literal expression: booleans, null, integers
// (decimal, hex, octal, binary, with separators), floats, signed numbers and
// quoted strings without interpolation. Anything else reports ok == false.
func FoldLiteral(expr string) (value any, ok bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, false
	}

	switch strings.ToLower(expr) {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null":
		return nil, true
	}

	switch expr[0] {
	case '\'':
		return foldSingleQuoted(expr)
	case '"':
		return foldDoubleQuoted(expr)
	case '-', '+':
		v, ok := foldNumber(strings.TrimSpace(expr[1:]))
		if !ok {
			return nil, false
		}
		if expr[0] == '+' {
			return v, true
		}
		switch n := v.(type) {
		case int64:
			return -n, true
		case float64:
			return -n, true
		}
		return nil, false
	}
	return foldNumber(expr)
}

func foldNumber(s string) (any, bool) {
	if s == "" || !(s[0] >= '0' && s[0] <= '9' || s[0] == '.') {
		return nil, false
	}
	clean := strings.ReplaceAll(s, "_", "")
	lower := strings.ToLower(clean)

	switch {
	case strings.HasPrefix(lower, "0x"):
		return parseInteger(lower[2:], 16)
	case strings.HasPrefix(lower, "0b"):
		return parseInteger(lower[2:], 2)
	case strings.HasPrefix(lower, "0o"):
		return parseInteger(lower[2:], 8)
	case strings.ContainsAny(lower, ".e"):
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case len(lower) > 1 && lower[0] == '0':
		return parseInteger(lower[1:], 8)
	default:
		return parseInteger(lower, 10)
	}
}

// parseInteger overflows to float64 like the PHP runtime
func parseInteger(digits string, base int) (any, bool) {
	if digits == "" {
		return nil, false
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return n, true
	}
	if !errors.Is(err, strconv.ErrRange) {
		return nil, false
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err == nil {
		return float64(u), true
	}
	if base == 10 {
		if f, err := strconv.ParseFloat(digits, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

func foldSingleQuoted(expr string) (any, bool) {
	if len(expr) < 2 || expr[len(expr)-1] != '\'' {
		return nil, false
	}
	body := expr[1 : len(expr)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == '\''):
			sb.WriteByte(body[i+1])
			i++
		case c == '\'':
			return nil, false
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}

var simpleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'v':  '\v',
	'e':  0x1b,
	'f':  '\f',
	'\\': '\\',
	'$':  '$',
	'"':  '"',
}

func foldDoubleQuoted(expr string) (any, bool) {
	if len(expr) < 2 || expr[len(expr)-1] != '"' {
		return nil, false
	}
	body := expr[1 : len(expr)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		var next byte
		if i+1 < len(body) {
			next = body[i+1]
		}

		switch {
		case c == '"':
			return nil, false
		case c == '$' && (next == '{' || next == '_' || isLetterByte(next) || next >= 0x80):
			return nil, false
		case c == '{' && next == '$':
			return nil, false
		case c != '\\' || i+1 >= len(body):
			sb.WriteByte(c)
		default:
			i += writeEscape(&sb, body[i+1:])
		}
	}
	return sb.String(), true
}

// writeEscape decodes the escape sequence at the start of rest and returns
// the number of bytes consumed after the backslash
func writeEscape(sb *strings.Builder, rest string) int {
	c := rest[0]
	if r, ok := simpleEscapes[c]; ok {
		sb.WriteByte(r)
		return 1
	}

	switch {
	case c >= '0' && c <= '7':
		n := 1
		for n < 3 && n < len(rest) && rest[n] >= '0' && rest[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(rest[:n], 8, 16)
		sb.WriteByte(byte(v))
		return n
	case c == 'x' && len(rest) > 1 && isHexByte(rest[1]):
		n := 2
		if len(rest) > 2 && isHexByte(rest[2]) {
			n = 3
		}
		v, _ := strconv.ParseUint(rest[1:n], 16, 8)
		sb.WriteByte(byte(v))
		return n
	case c == 'u' && len(rest) > 2 && rest[1] == '{':
		end := strings.IndexByte(rest, '}')
		if end > 2 {
			if v, err := strconv.ParseUint(rest[2:end], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
				sb.WriteRune(rune(v))
				return end + 1
			}
		}
	}

	// unknown escapes are kept verbatim
	sb.WriteByte('\\')
	return 0
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
