// Package domain holds the descriptor types shared by the providers, the
// endpoint compiler and the emission backends. Descriptors are produced once
// by a provider and treated as immutable afterwards.
package domain

import (
	"fmt"
	"strings"
)

// TypeKind is the shape of a TypeRef.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindArray
	KindNamed
)

// Primitive names understood by the compiler.
const (
	NUMBER  = "number"
	STRING  = "string"
	BOOLEAN = "boolean"
)

// ARRAY is the leading element of a type path for array types.
const ARRAY = "Array"

// TypeRef is a normalized reference to a parameter, field or return type.
// The zero value means "no type" and is used for void returns.
type TypeRef struct {
	Kind TypeKind
	// Name is the primitive name for KindPrimitive and the model name for KindNamed.
	Name string
	// Elem is set for KindArray only.
	Elem *TypeRef
	// Display is the spelling used by the source, e.g. "int64" or "UserID".
	// Empty when the provider has nothing better than the normalized name.
	Display string
}

// Primitive returns a primitive TypeRef.
func Primitive(name string) TypeRef {
	return TypeRef{Kind: KindPrimitive, Name: name}
}

// Array wraps elem in an array TypeRef.
func Array(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Elem: &elem}
}

// Named returns a model reference.
func Named(name string) TypeRef {
	return TypeRef{Kind: KindNamed, Name: name}
}

// WithDisplay returns a copy of t carrying the given source spelling.
func (t TypeRef) WithDisplay(display string) TypeRef {
	t.Display = display
	return t
}

// IsZero reports whether t is the void type.
func (t TypeRef) IsZero() bool {
	return t.Kind == KindPrimitive && t.Name == "" && t.Elem == nil
}

// IsSimple reports whether t is a bare number, string or boolean.
func (t TypeRef) IsSimple() bool {
	return t.Kind == KindPrimitive && IsPrimitiveName(t.Name)
}

// IsArray reports whether t is an array of anything.
func (t TypeRef) IsArray() bool {
	return t.Kind == KindArray && t.Elem != nil
}

// Path returns the type path of t: the base name, prefixed with ARRAY once per
// array layer.
func (t TypeRef) Path() []string {
	var path []string
	cur := t
	for cur.IsArray() {
		path = append(path, ARRAY)
		cur = *cur.Elem
	}
	return append(path, cur.Name)
}

// BaseName is the last element of the type path.
func (t TypeRef) BaseName() string {
	path := t.Path()
	return path[len(path)-1]
}

// String renders t in manifest notation: "number", "User", "User[]".
func (t TypeRef) String() string {
	if t.IsArray() {
		return t.Elem.String() + "[]"
	}
	return t.Name
}

// ParseTypeRef parses manifest notation back into a TypeRef. Known primitive
// names become primitives, anything else a model reference.
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, nil
	}
	if strings.HasSuffix(s, "[]") {
		elem, err := ParseTypeRef(strings.TrimSuffix(s, "[]"))
		if err != nil {
			return TypeRef{}, err
		}
		if elem.IsZero() {
			return TypeRef{}, fmt.Errorf("%w: array of nothing in %q", ErrUnsupportedType, s)
		}
		return Array(elem), nil
	}
	if strings.ContainsAny(s, " []{}<>") {
		return TypeRef{}, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
	if IsPrimitiveName(s) {
		return Primitive(s), nil
	}
	return Named(s), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeRef) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeRef) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeRef(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsPrimitiveName reports whether name is one of the three primitive names.
func IsPrimitiveName(name string) bool {
	switch name {
	case NUMBER, STRING, BOOLEAN:
		return true
	}
	return false
}
