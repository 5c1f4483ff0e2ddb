package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeCity(city string) string {
	return TrimAndNormalize(city)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode upper-cases ISO country and currency codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func NormalizeLabel(label string) string {
	normalized := TrimAndNormalize(label)
	return strings.ToLower(normalized)
}

// NormalizeOptional applies fn to a optional field, keeping nil as nil.
func NormalizeOptional(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	v := fn(*s)
	return &v
}
