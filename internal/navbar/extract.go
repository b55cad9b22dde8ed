package navbar

import "strings"

// extractObject returns the outermost {...} span of s. LLMs wrap JSON in
// prose and code fences; scanning for the outer braces is more forgiving
// than demanding a clean document.
func extractObject(s string) (string, bool) {
	return extractSpan(s, '{', '}')
}

// extractArray returns the outermost [...] span of s.
func extractArray(s string) (string, bool) {
	return extractSpan(s, '[', ']')
}

func extractSpan(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
