package slug

import "strings"

// Separator replaces every run of non-alphanumeric characters.
const Separator = '_'

// Normalize returns the slug for text. The result is stable across locales
// and Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if isAlnum(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteRune(Separator)
			inRun = true
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return false
}
