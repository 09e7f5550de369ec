// Package doc parses the `@key value` annotations of doc comments.
package doc

import (
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// Marker annotations that do not end up in the annotation set.
const (
	serviceAttr  = "@service"
	optionalAttr = "@" + domain.TagOptional
	errorAttr    = "@" + domain.TagError
	descAttr     = "@" + domain.TagDescription
)

// Comment is a parsed doc comment.
type Comment struct {
	// Text holds the lines that are not annotations.
	Text        string
	Annotations domain.Annotations
	Optional    []string
	Errors      domain.ErrorMap
	IsService   bool
}

// IsOptional reports whether param was listed by @optional.
func (c *Comment) IsOptional(param string) bool {
	for _, name := range c.Optional {
		if name == param {
			return true
		}
	}
	return false
}

// ParseGroup parses an AST comment group. A nil group yields an empty Comment.
func ParseGroup(cg *ast.CommentGroup) (*Comment, error) {
	if cg == nil {
		return Parse(nil)
	}
	lines := make([]string, 0, len(cg.List))
	for _, c := range cg.List {
		lines = append(lines, c.Text)
	}
	return Parse(lines)
}

// Parse parses raw comment lines, with or without comment markers.
func Parse(lines []string) (*Comment, error) {
	c := &Comment{
		Annotations: domain.Annotations{},
		Errors:      domain.ErrorMap{},
	}
	var text []string
	for _, raw := range lines {
		for _, line := range strings.Split(stripMarkers(raw), "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			if !strings.HasPrefix(line, "@") {
				if line != "" {
					text = append(text, line)
				}
				continue
			}
			if err := c.parseAttribute(line); err != nil {
				return nil, err
			}
		}
	}
	c.Text = strings.Join(text, "\n")
	return c, nil
}

// parseAttribute parses a single annotation line and updates the comment.
func (c *Comment) parseAttribute(line string) error {
	fields := strings.Fields(line)
	attribute := strings.ToLower(fields[0])
	var lineRemainder string
	if len(fields) > 1 {
		lineRemainder = strings.Join(fields[1:], " ")
	}

	switch attribute {
	case serviceAttr:
		c.IsService = true
	case optionalAttr:
		c.Optional = append(c.Optional, fields[1:]...)
	case errorAttr:
		if len(fields) != 3 {
			return fmt.Errorf("%s wants a status code and a model, got %q", errorAttr, lineRemainder)
		}
		code, err := strconv.Atoi(fields[1])
		if err != nil || code < 100 || code > 599 {
			return fmt.Errorf("%s: invalid status code %q", errorAttr, fields[1])
		}
		c.Errors[code] = fields[2]
	case descAttr:
		if prev := c.Annotations[domain.TagDescription]; prev != "" {
			lineRemainder = prev + "\n" + lineRemainder
		}
		c.Annotations[domain.TagDescription] = lineRemainder
	default:
		c.Annotations[strings.TrimPrefix(attribute, "@")] = lineRemainder
	}
	return nil
}

// stripMarkers removes the comment markers from a raw comment.
func stripMarkers(comment string) string {
	comment = strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(comment, "//"):
		return comment[2:]
	case strings.HasPrefix(comment, "/*"):
		return strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")
	}
	return comment
}
