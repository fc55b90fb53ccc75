package stringutils

import "strings"

// Normalize trims surrounding whitespace and lowercases, the canonical
// form used for category comparisons.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitAndTrim splits on sep, trims each piece and drops empty pieces.
func SplitAndTrim(s, sep string) []string {
	var result []string
	for _, piece := range strings.Split(s, sep) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			result = append(result, piece)
		}
	}
	return result
}
