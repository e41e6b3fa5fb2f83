package phono

import "strings"

// stripInlineCommentAndTrim removes leading/trailing whitespace and strips
// inline comments introduced by '#'. Text that is empty or a pure comment
// returns the empty string.
func stripInlineCommentAndTrim(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return line
}
