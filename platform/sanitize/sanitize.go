// Package sanitize cleans free text typed by anonymous visitors and staff
// before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	inlineSpaceRegex = regexp.MustCompile(`[ \t\f\v]+`)
)

// StripHTML removes tags, decodes entities and removes tags that were hidden
// behind entities.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Line is for single-line fields such as names: markup is stripped and every
// run of whitespace, line breaks included, becomes one space.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}

// Text is for multi-line fields such as notes: markup is stripped, line
// breaks are kept and runs of spaces collapse.
func Text(s string) string {
	lines := strings.Split(strings.ReplaceAll(StripHTML(s), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRegex.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// TextPtr applies Text to an optional value. Values that end up empty
// become nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	if result == "" {
		return nil
	}
	return &result
}
