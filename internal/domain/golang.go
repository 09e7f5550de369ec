package domain

import "strings"

// IsGolangPrimitiveType checks if a type is a Go basic type.
func IsGolangPrimitiveType(typeName string) bool {
	switch typeName {
	case "uint",
		"int",
		"uint8",
		"int8",
		"uint16",
		"int16",
		"byte",
		"uint32",
		"int32",
		"rune",
		"uint64",
		"int64",
		"uintptr",
		"float32",
		"float64",
		"bool",
		"string":
		return true
	}

	return false
}

// GolangPrimitiveName maps a Go type spelling onto one of the three primitive
// names. Well-known value types that travel as text or numbers on the wire
// (time.Time, UUIDs, decimals) map like their wire form. It returns "" for
// everything else.
func GolangPrimitiveName(typeName string) string {
	clean := strings.TrimPrefix(typeName, "*")
	switch clean {
	case "bool":
		return BOOLEAN
	case "string":
		return STRING
	case "time.Time", "uuid.UUID", "types.UUID":
		return STRING
	case "decimal.Decimal":
		return NUMBER
	}
	if IsGolangPrimitiveType(clean) {
		return NUMBER
	}
	if strings.HasSuffix(clean, "/uuid.UUID") {
		return STRING
	}
	if strings.HasSuffix(clean, "/decimal.Decimal") {
		return NUMBER
	}
	return ""
}
