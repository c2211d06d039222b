// internal/rules/frontmatter.go
package rules

import "strings"

// HeaderDelimiter opens and closes the metadata header of a rule file.
const HeaderDelimiter = "---"

// SplitHeader separates a rule document into its metadata header text and body.
//
// Content that does not start with the delimiter has no header; the whole
// content is the body. Content with an opening delimiter but no closing one
// is treated the same way. Neither case is an error here: the file loader
// decides that an empty header is a problem.
//
// The body is whitespace-trimmed. The header is returned unmodified because
// the metadata parser handles indentation itself.
func SplitHeader(content string) (header, body string) {
	if !strings.HasPrefix(content, HeaderDelimiter) {
		return "", content
	}

	parts := strings.SplitN(content, HeaderDelimiter, 3)
	if len(parts) < 3 {
		return "", content
	}

	return parts[1], strings.TrimSpace(parts[2])
}
