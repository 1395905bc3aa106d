// Package format converts assistant output into browser-ready HTML.
package format

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
)

var numberedItemPattern = regexp.MustCompile(`^\d+\.\s`)

// RenderMarkdown converts assistant markdown into HTML. The text is
// normalized first so lists emitted without a preceding blank line still
// parse as lists.
func RenderMarkdown(text string) string {
	normalized := normalizeMarkdownLists(text)
	return string(markdown.ToHTML([]byte(normalized), nil, nil))
}

// normalizeMarkdownLists inserts the blank line markdown requires before a
// list. LLMs often emit "**Heading:**\n- item" without one.
func normalizeMarkdownLists(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for i, line := range lines {
		if isListItem(strings.TrimSpace(line)) && i > 0 {
			prev := strings.TrimSpace(lines[i-1])
			if prev != "" && !isListItem(prev) {
				result = append(result, "")
			}
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "+ ") ||
		numberedItemPattern.MatchString(line)
}
