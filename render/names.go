package render

import (
	"strings"
	"unicode"
)

// Camel converts an option key such as "firefox-binary" or "sourceDir" to
// camelCase. Runs of capitals are treated as one word ("APIKey" -> "apikey").
func Camel(s string) string {
	parts := words(s)
	var sb strings.Builder
	for i, p := range parts {
		p = strings.ToLower(p)
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(capitalize(p))
	}
	return sb.String()
}

// Pascal converts a command name such as "sign" to PascalCase. Words are split
// on separators only.
func Pascal(s string) string {
	var sb strings.Builder
	for _, p := range strings.FieldsFunc(s, isSeparator) {
		sb.WriteString(capitalize(strings.ToLower(p)))
	}
	return sb.String()
}

// words splits s on separators and before each capital, after collapsing
// runs of capitals into a single capitalised word.
func words(s string) []string {
	runes := []rune(s)
	collapsed := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if !unicode.IsUpper(runes[i]) {
			collapsed = append(collapsed, runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsUpper(runes[j]) {
			j++
		}
		collapsed = append(collapsed, runes[i])
		for _, r := range runes[i+1 : j] {
			collapsed = append(collapsed, unicode.ToLower(r))
		}
		i = j
	}

	var parts []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range collapsed {
		if isSeparator(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return parts
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
