package field

import (
	"strings"
	"unicode"
)

// words splits an identifier at case changes and underscores. An acronym
// stays one word, so HTTPServer is HTTP and Server.
func words(name string) []string {
	runes := []rune(name)
	var out []string
	start := 0
	flush := func(end int) {
		if end > start {
			out = append(out, string(runes[start:end]))
		}
	}
	for i, r := range runes {
		switch {
		case r == '_':
			flush(i)
			start = i + 1
		case i > start && unicode.IsUpper(r):
			prev := runes[i-1]
			endsAcronym := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || endsAcronym {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return out
}

// ToSnakeCase converts a Go name to snake_case.
func ToSnakeCase(in string) string {
	return strings.ToLower(strings.Join(words(in), "_"))
}

// ToLowerCamelCase lowers the first word of a Go name: UserID is userID.
func ToLowerCamelCase(in string) string {
	parts := words(in)
	if len(parts) == 0 {
		return in
	}
	at := strings.Index(in, parts[0])
	return in[:at] + strings.ToLower(parts[0]) + in[at+len(parts[0]):]
}

// ApplyNamingStrategy names a struct field for the wire.
func ApplyNamingStrategy(name string, strategy string) string {
	switch strategy {
	case SnakeCase:
		return ToSnakeCase(name)
	case PascalCase:
		return name
	default:
		return ToLowerCamelCase(name)
	}
}
