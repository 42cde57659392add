package normalisers

import (
	"html"
	"regexp"
	"strings"
)

// Compiled once; PlainText runs for every record on each index pass.
var (
	droppedElements   = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)[^>]*>.*?</(script|style|noscript|head|svg)>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	closeBlockTags    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	breakTags         = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	anyTag            = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

// IsMarkup reports whether s contains an HTML tag or entity.
func IsMarkup(s string) bool {
	return anyTag.MatchString(s) || (strings.Contains(s, "&") && html.UnescapeString(s) != s)
}

// PlainText strips tags from rich-text content and decodes entities.
// Block elements become line breaks and blank lines are dropped.
// Text without markup is returned unchanged.
func PlainText(content string) string {
	if !IsMarkup(content) {
		return content
	}

	content = droppedElements.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = closeBlockTags.ReplaceAllString(content, "\n")
	content = breakTags.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	var out []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
