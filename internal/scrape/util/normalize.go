package util

import "strings"

// DescriptionLimit bounds the stored description length.
const DescriptionLimit = 500

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// TruncateDescription caps free text at DescriptionLimit runes with an
// ellipsis marker, matching the persisted form.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionLimit {
		return s
	}
	return string(r[:DescriptionLimit]) + "..."
}
