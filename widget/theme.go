package widget

import (
	"strings"
	"unicode"
)

// Theme maps semantic property names to style values, e.g.
// "primaryColor" -> "#7D56F4". At mount each entry is written onto the
// host's style scope under a fixed naming convention:
// "primaryColor" becomes "--ai-primary-color".
type Theme map[string]string

// StylePropertyName converts a semantic theme key to its host style
// property name. Returns "" for keys that cannot form a valid property
// name; such entries are silently skipped at mount.
func StylePropertyName(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("--ai-")
	for i, r := range key {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteByte('-')
		default:
			// Key contains characters with no style-property mapping
			return ""
		}
	}
	return b.String()
}

// apply writes every valid theme entry to the surface
func (t Theme) apply(s Surface) {
	if s == nil {
		return
	}
	for key, value := range t {
		name := StylePropertyName(key)
		if name == "" || strings.TrimSpace(value) == "" {
			continue
		}
		s.SetStyleProperty(name, value)
	}
}
