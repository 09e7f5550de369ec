package field

// Naming strategy constants
const (
	// CamelCase indicates using CamelCase strategy for struct field.
	CamelCase = "camelcase"
	// PascalCase indicates using PascalCase strategy for struct field.
	PascalCase = "pascalcase"
	// SnakeCase indicates using SnakeCase strategy for struct field.
	SnakeCase = "snakecase"
)

// Tag names
const (
	swaggerIgnoreTag = "swaggerignore"
	jsonTag          = "json"
	formTag          = "form"
)
