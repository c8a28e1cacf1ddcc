package utils

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z]*[ \t]*\n?")
	trailingFence = regexp.MustCompile("\n?```[ \t]*$")

	mdBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdUnderBold  = regexp.MustCompile(`__(.+?)__`)
	mdItalic     = regexp.MustCompile(`(^|[^\w*])\*([^*\n]+?)\*`)
	mdUnderItal  = regexp.MustCompile(`(^|[^\w_])_([^_\n]+?)_`)
	mdInlineCode = regexp.MustCompile("`([^`\n]*)`")
	mdImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	mdHeader     = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	mdBullet     = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+•][ \t]+|\d+\.[ \t]+)`)
	mdRule       = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	mdBlockquote = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// StripCodeFences removes a leading ```json (or bare ```) marker and a trailing ``` marker.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// StripMarkdown flattens emphasis, headers, links and list bullets so the text can be
// scanned line by line.
func StripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "```", "")
	s = mdImage.ReplaceAllString(s, "$1")
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdRule.ReplaceAllString(s, "")
	s = mdBold.ReplaceAllString(s, "$1")
	s = mdUnderBold.ReplaceAllString(s, "$1")
	s = mdInlineCode.ReplaceAllString(s, "$1")
	s = mdHeader.ReplaceAllString(s, "")
	s = mdBlockquote.ReplaceAllString(s, "")
	s = mdBullet.ReplaceAllString(s, "")
	s = mdItalic.ReplaceAllString(s, "$1$2")
	s = mdUnderItal.ReplaceAllString(s, "$1$2")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ExtractJSONObject carves the first balanced {...} object out of surrounding prose.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	end := findMatchingBrace(s, start)
	if end == -1 {
		return "", false
	}
	return s[start : end+1], true
}

// findMatchingBrace returns the index of the brace closing the one at start, honouring
// string literals and escapes, or -1.
func findMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
