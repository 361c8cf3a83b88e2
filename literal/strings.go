package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unquote decodes a single- or double-quoted JavaScript string literal.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("invalid string literal %s", lit)
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return "", fmt.Errorf("invalid string literal %s", lit)
	}
	return unescape(lit[1 : len(lit)-1])
}

// unescape decodes JavaScript escape sequences in the body of a string or
// template literal.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("unterminated escape in %q", s)
		}
		i++
		c = s[i]
		i++
		switch c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case 'x':
			if i+2 > len(s) {
				return "", fmt.Errorf("invalid \\x escape in %q", s)
			}
			n, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape in %q", s)
			}
			sb.WriteRune(rune(n))
			i += 2
		case 'u':
			r, next, err := readUnicodeEscape(s, i)
			if err != nil {
				return "", err
			}
			i = next
			// Combine a UTF-16 surrogate pair written as two escapes.
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i:], `\u`) {
				if r2, next2, err := readUnicodeEscape(s, i+2); err == nil {
					if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
						r = combined
						i = next2
					}
				}
			}
			sb.WriteRune(r)
		default:
			// Unknown escapes yield the character itself.
			r, size := utf8.DecodeRuneInString(s[i-1:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return sb.String(), nil
}

// readUnicodeEscape parses the hex part of a \u escape starting at i and
// returns the code point and the index after it.
func readUnicodeEscape(s string, i int) (rune, int, error) {
	if i < len(s) && s[i] == '{' {
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return 0, 0, fmt.Errorf("invalid \\u escape in %q", s)
		}
		n, err := strconv.ParseUint(s[i+1:i+end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, fmt.Errorf("invalid \\u escape in %q", s)
		}
		return rune(n), i + end + 1, nil
	}
	if i+4 > len(s) {
		return 0, 0, fmt.Errorf("invalid \\u escape in %q", s)
	}
	n, err := strconv.ParseUint(s[i:i+4], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid \\u escape in %q", s)
	}
	return rune(n), i + 4, nil
}

// templateChunk strips the delimiters the lexer keeps around a template
// segment: a leading "`" or "}" and a trailing "${" or "`".
func templateChunk(raw string) string {
	if strings.HasPrefix(raw, "`") || strings.HasPrefix(raw, "}") {
		raw = raw[1:]
	}
	if strings.HasSuffix(raw, "${") {
		return strings.TrimSuffix(raw, "${")
	}
	return strings.TrimSuffix(raw, "`")
}
