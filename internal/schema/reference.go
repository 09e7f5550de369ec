package schema

import (
	"strings"

	"github.com/go-openapi/spec"
)

const definitionsPrefix = "#/definitions/"

// RefSchema builds a reference schema.
func RefSchema(refType string) *spec.Schema {
	return spec.RefSchema(definitionsPrefix + refType)
}

// IsRefSchema determines whether a schema is a reference schema.
func IsRefSchema(schema *spec.Schema) bool {
	if schema == nil {
		return false
	}
	return schema.Ref.Ref.GetURL() != nil
}

// RefName extracts the definition name from a schema reference, looking
// through one array layer. It returns "" for primitive schemas.
func RefName(schema *spec.Schema) string {
	if schema == nil {
		return ""
	}
	if schema.Items != nil && schema.Items.Schema != nil {
		return RefName(schema.Items.Schema)
	}
	if !IsRefSchema(schema) {
		return ""
	}
	return getRefName(schema.Ref.String())
}

// getRefName extracts the definition name from a $ref string like "#/definitions/ModelName".
func getRefName(ref string) string {
	if len(ref) > len(definitionsPrefix) && strings.HasPrefix(ref, definitionsPrefix) {
		return ref[len(definitionsPrefix):]
	}
	return ""
}
