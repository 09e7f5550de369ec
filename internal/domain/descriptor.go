package domain

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Annotation keys recognized on a method doc comment.
const (
	TagAlias          = "alias"
	TagMethod         = "method"
	TagQuery          = "query"
	TagUsing          = "using"
	TagCustom         = "custom"
	TagTag            = "tag"
	TagTagDescription = "tagdescription"
	TagDescription    = "description"
	TagSummary        = "summary"
	TagUpload         = "upload"
	TagUploadMeta     = "uploadmeta"
	TagUploadMetaDesc = "uploadmetadesc"
	TagNoGenerate     = "nogenerate"
	TagOptional       = "optional"
	TagError          = "error"
)

// DefaultFactory is the handler factory used when no @using tag is given.
const DefaultFactory = "server"

// Annotations is the tag set of one method. Keys are lower-cased; per
// parameter descriptions are stored under the parameter name as written.
type Annotations map[string]string

// Get returns the value for key, or "" when absent.
func (a Annotations) Get(key string) string {
	if a == nil {
		return ""
	}
	if v, ok := a[key]; ok {
		return v
	}
	return a[strings.ToLower(key)]
}

// Has reports whether key is present, with or without a value.
func (a Annotations) Has(key string) bool {
	if a == nil {
		return false
	}
	if _, ok := a[key]; ok {
		return true
	}
	_, ok := a[strings.ToLower(key)]
	return ok
}

// ParameterDescriptor is one method parameter. Order is significant.
type ParameterDescriptor struct {
	Name     string  `json:"name"`
	Type     TypeRef `json:"type"`
	Optional bool    `json:"optional,omitempty"`
}

// ErrorMap maps an HTTP status code to the model returned with it.
type ErrorMap map[int]string

// Codes returns the status codes in ascending order.
func (m ErrorMap) Codes() []int {
	codes := make([]int, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// MethodDescriptor describes one candidate endpoint.
type MethodDescriptor struct {
	Service      string                `json:"service"`
	Name         string                `json:"name"`
	Parameters   []ParameterDescriptor `json:"parameters"`
	ReturnType   TypeRef               `json:"returns,omitzero"`
	ReturnsError bool                  `json:"returnsError,omitempty"`
	TakesContext bool                  `json:"takesContext,omitempty"`
	Private      bool                  `json:"private,omitempty"`
	Annotations  Annotations           `json:"annotations,omitempty"`
	Doc          string                `json:"doc,omitempty"`
	Errors       ErrorMap              `json:"errors,omitempty"`
	// Position is file:line of the declaration, used in diagnostics only.
	Position string `json:"-"`
}

// Alias is the route token of the method, defaulting to its name.
func (m *MethodDescriptor) Alias() string {
	if alias := strings.Trim(m.Annotations.Get(TagAlias), " /"); alias != "" {
		return alias
	}
	return m.Name
}

// Factory is the name of the handler factory the server route calls.
func (m *MethodDescriptor) Factory() string {
	if using := m.Annotations.Get(TagUsing); using != "" {
		return using
	}
	return DefaultFactory
}

// HasReturn reports whether the method produces a payload.
func (m *MethodDescriptor) HasReturn() bool {
	return !m.ReturnType.IsZero()
}

// ModelDescriptor is a named record type with ordered fields.
type ModelDescriptor struct {
	Name   string
	Doc    string
	Fields *orderedmap.OrderedMap[string, TypeRef]
}

// NewModel creates an empty model.
func NewModel(name string) *ModelDescriptor {
	return &ModelDescriptor{
		Name:   name,
		Fields: orderedmap.New[string, TypeRef](),
	}
}

// AddField appends a field, replacing the type of an existing field of the same name.
func (m *ModelDescriptor) AddField(name string, t TypeRef) *ModelDescriptor {
	m.Fields.Set(name, t)
	return m
}

// RangeFields calls fn for every field in declaration order and stops at the
// first error.
func (m *ModelDescriptor) RangeFields(fn func(name string, t TypeRef) error) error {
	if m.Fields == nil {
		return nil
	}
	for pair := m.Fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
