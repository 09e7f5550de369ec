package schema

import (
	"fmt"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// Resolved is a TypeRef with its single array layer unwrapped.
type Resolved struct {
	IsArray  bool
	BaseName string
}

// Resolve unwraps at most one array layer of t. Arrays of arrays are rejected.
func Resolve(t domain.TypeRef) (Resolved, error) {
	path := t.Path()
	switch len(path) {
	case 1:
		return Resolved{BaseName: path[0]}, nil
	case 2:
		return Resolved{IsArray: true, BaseName: path[1]}, nil
	default:
		return Resolved{}, fmt.Errorf("%w: %s", domain.ErrNestedArray, t)
	}
}

// IsSimple reports whether t may be placed in a path or query string.
func IsSimple(t domain.TypeRef) bool {
	return t.IsSimple()
}

// IsVoid reports whether r carries no type at all.
func (r Resolved) IsVoid() bool {
	return r.BaseName == ""
}

// IsPrimitive reports whether the base name maps to a native schema type.
func (r Resolved) IsPrimitive() bool {
	return IsSimplePrimitiveType(r.BaseName)
}

// Fragment returns the schema fragment for r: a primitive schema for the three
// primitive names, a $ref for anything else, wrapped in an array schema when
// r is an array. A void Resolved yields nil.
func Fragment(r Resolved) *spec.Schema {
	if r.IsVoid() {
		return nil
	}
	var base *spec.Schema
	if r.IsPrimitive() {
		base = PrimitiveSchema(r.BaseName)
	} else {
		base = RefSchema(r.BaseName)
	}
	if r.IsArray {
		return spec.ArrayProperty(base)
	}
	return base
}

// FragmentFor resolves t and returns its fragment.
func FragmentFor(t domain.TypeRef) (*spec.Schema, error) {
	r, err := Resolve(t)
	if err != nil {
		return nil, err
	}
	return Fragment(r), nil
}
