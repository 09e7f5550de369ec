// Package schema turns descriptor types into OpenAPI 2.0 schema fragments and
// materializes the model definitions they reference.
package schema

import (
	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/domain"
)

const (
	// ARRAY represent a array value.
	ARRAY = "array"
	// OBJECT represent a object value.
	OBJECT = "object"
	// FILE represent a multipart file value.
	FILE = "file"
)

// IsSimplePrimitiveType determines whether the type name is one of the
// primitive names that map to a native schema type.
func IsSimplePrimitiveType(typeName string) bool {
	return domain.IsPrimitiveName(typeName)
}

// PrimitiveSchema builds a primitive schema.
func PrimitiveSchema(refType string) *spec.Schema {
	return &spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{refType}}}
}

// ObjectSchema builds an object schema with the given properties.
func ObjectSchema(properties spec.SchemaProperties) spec.Schema {
	return spec.Schema{SchemaProps: spec.SchemaProps{
		Type:       []string{OBJECT},
		Properties: properties,
	}}
}
