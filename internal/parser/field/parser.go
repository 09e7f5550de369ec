package field

import (
	"go/ast"
	"reflect"
	"strings"
)

// TagBaseFieldParser reads the property name of a struct field from its tags.
type TagBaseFieldParser struct {
	field    *ast.Field
	tag      reflect.StructTag
	strategy string
}

// NewTagBaseFieldParser creates a new tag-based field parser.
func NewTagBaseFieldParser(field *ast.Field, strategy string) *TagBaseFieldParser {
	parser := &TagBaseFieldParser{
		field:    field,
		strategy: strategy,
	}
	if field.Tag != nil {
		parser.tag = reflect.StructTag(strings.ReplaceAll(field.Tag.Value, "`", ""))
	}

	return parser
}

// ShouldSkip determines if the field should be skipped: embedded and
// non-exported fields, `json:"-"` and `swaggerignore:"true"`.
func (ps *TagBaseFieldParser) ShouldSkip() bool {
	if len(ps.field.Names) == 0 {
		return true
	}

	if !ast.IsExported(ps.field.Names[0].Name) {
		return true
	}

	if ps.field.Tag == nil {
		return false
	}

	if strings.EqualFold(ps.tag.Get(swaggerIgnoreTag), "true") {
		return true
	}

	// json:"tag,hoge"
	return ps.FirstTagValue(jsonTag) == "-"
}

// FieldNames returns the property names declared by this field.
func (ps *TagBaseFieldParser) FieldNames() []string {
	if len(ps.field.Names) == 1 && ps.field.Tag != nil {
		if name := ps.FirstTagValue(jsonTag); name != "" {
			return []string{name}
		}

		// use "form" tag when there is no json name
		if name := ps.FirstTagValue(formTag); name != "" {
			return []string{name}
		}
	}

	names := make([]string, 0, len(ps.field.Names))
	for _, name := range ps.field.Names {
		if !ast.IsExported(name.Name) {
			continue
		}
		names = append(names, ApplyNamingStrategy(name.Name, ps.strategy))
	}
	return names
}

// FirstTagValue returns the first value from a tag.
func (ps *TagBaseFieldParser) FirstTagValue(tag string) string {
	return strings.TrimSpace(strings.Split(ps.tag.Get(tag), ",")[0])
}
