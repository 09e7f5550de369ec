package base

import (
	"strings"
)

// isGeneralAPIComment checks if comments contain general API info. Comments
// carrying endpoint annotations belong to service methods.
func isGeneralAPIComment(comments []string) bool {
	for _, commentLine := range comments {
		commentLine = strings.TrimSpace(commentLine)
		if len(commentLine) == 0 {
			continue
		}
		attribute := strings.ToLower(FieldsByAnySpace(commentLine, 2)[0])
		switch attribute {
		case "@service", "@alias", "@method", "@using", "@nogenerate", "@error":
			return false
		}
	}
	return true
}

// FieldsByAnySpace splits s around runs of spaces or tabs, into at most n
// fields. The last field holds the rest of the line.
func FieldsByAnySpace(s string, n int) []string {
	var fields []string
	rest := strings.TrimSpace(s)
	for rest != "" {
		if n > 0 && len(fields) == n-1 {
			fields = append(fields, rest)
			break
		}
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			fields = append(fields, rest)
			break
		}
		fields = append(fields, rest[:idx])
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	if len(fields) == 0 {
		return []string{""}
	}
	return fields
}

// AppendDescription joins a continued description line.
func AppendDescription(current, value string) string {
	if current == "" {
		return value
	}
	return current + "\n" + value
}
