// Package render holds the naming and type spelling helpers shared by the
// source renderers.
package render

import (
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/go-openapi/spec"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/parser/field"
	"github.com/griffnb/core-endpoints/internal/schema"
)

// GeneratedHeader starts every generated file.
const GeneratedHeader = "Code generated by core-endpoints. DO NOT EDIT."

// Exported upper-cases the first letter of name.
func Exported(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// LowerCamel is the client method name of a Go method name.
func LowerCamel(name string) string {
	return field.ToLowerCamelCase(name)
}

// GoType spells t as Go source.
func GoType(t domain.TypeRef) string {
	if t.Display != "" {
		return t.Display
	}
	switch t.Kind {
	case domain.KindArray:
		if t.Elem == nil {
			return "[]any"
		}
		return "[]" + GoType(*t.Elem)
	case domain.KindNamed:
		return t.Name
	}
	switch t.Name {
	case domain.NUMBER:
		return "int"
	case domain.STRING:
		return "string"
	case domain.BOOLEAN:
		return "bool"
	case "":
		return ""
	}
	return t.Name
}

// TSType spells t as TypeScript.
func TSType(t domain.TypeRef) string {
	switch {
	case t.IsZero():
		return "void"
	case t.IsArray():
		return TSType(*t.Elem) + "[]"
	}
	return t.Name
}

// TSSchemaType spells a schema fragment as TypeScript.
func TSSchemaType(s *spec.Schema) string {
	if s == nil {
		return "any"
	}
	if name := schema.RefName(s); name != "" && s.Items == nil {
		return name
	}
	if s.Items != nil && s.Items.Schema != nil {
		return TSSchemaType(s.Items.Schema) + "[]"
	}
	if len(s.Type) > 0 {
		switch s.Type[0] {
		case domain.NUMBER, domain.STRING, domain.BOOLEAN:
			return s.Type[0]
		case schema.OBJECT:
			return "Record<string, any>"
		}
	}
	return "any"
}

// TSInterfaces renders one interface per definition, sorted by name.
func TSInterfaces(defs spec.Definitions) string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		def := defs[name]
		b.WriteString("export interface " + name + " {\n")

		props := make([]string, 0, len(def.Properties))
		for prop := range def.Properties {
			props = append(props, prop)
		}
		sort.Strings(props)
		for _, prop := range props {
			s := def.Properties[prop]
			b.WriteString("  " + tsKey(prop) + ": " + TSSchemaType(&s) + ";\n")
		}
		b.WriteString("}\n\n")
	}
	return b.String()
}

func tsKey(name string) string {
	if token.IsIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

// Free returns base, or base followed by the first number from 2 up that is
// not in taken.
func Free(base string, taken map[string]struct{}) string {
	name := base
	for n := 2; ; n++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = base + strconv.Itoa(n)
	}
}

// Unique maps names to identifiers that are distinct from each other and
// from reserved, keeping the first occurrence of each name as is.
func Unique(names []string, reserved ...string) []string {
	taken := make(map[string]struct{}, len(names)+len(reserved))
	for _, r := range reserved {
		taken[r] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = Free(name, taken)
		taken[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
