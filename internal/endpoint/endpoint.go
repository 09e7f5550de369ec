// Package endpoint compiles one method descriptor into the resolved endpoint
// shared by the server, client and schema backends.
package endpoint

import (
	"strings"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/guard"
	"github.com/griffnb/core-endpoints/internal/schema"
)

// Location is where a parameter travels in the request.
type Location string

const (
	InPath     Location = "path"
	InQuery    Location = "query"
	InBody     Location = "body"
	InFormData Location = "formData"
)

// Verbs accepted by @method.
var Verbs = map[string]struct{}{
	"get":     {},
	"post":    {},
	"put":     {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// Param is a classified, resolved parameter.
type Param struct {
	domain.ParameterDescriptor
	In          Location
	Resolved    schema.Resolved
	Description string
}

// FormField is a multipart form field declared by @upload or @uploadmeta.
type FormField struct {
	Name        string
	File        bool
	Description string
}

// Endpoint is the resolved form of one method descriptor. Every backend reads
// the same Endpoint, so they agree on parameter routing and types.
type Endpoint struct {
	Method     *domain.MethodDescriptor
	Verb       string
	BasePath   string
	Segments   []string
	PathParams []Param
	Query      []Param
	Body       []Param
	Return     schema.Resolved
	Form       []FormField
	// Guards holds one validator per path and query parameter, path first.
	Guards []guard.Validator
}

// Name is the method name.
func (e *Endpoint) Name() string {
	return e.Method.Name
}

// Service is the name of the owning service.
func (e *Endpoint) Service() string {
	return e.Method.Service
}

// Params returns every parameter in descriptor order.
func (e *Endpoint) Params() []Param {
	params := make([]Param, 0, len(e.PathParams)+len(e.Query)+len(e.Body))
	params = append(params, e.PathParams...)
	params = append(params, e.Query...)
	return append(params, e.Body...)
}

// Custom reports whether the handler writes its own response.
func (e *Endpoint) Custom() bool {
	return e.Method.Annotations.Has(domain.TagCustom)
}

// Factory is the handler factory the server route calls.
func (e *Endpoint) Factory() string {
	return e.Method.Factory()
}

// Tag is the schema tag of the endpoint, if any.
func (e *Endpoint) Tag() string {
	return e.Method.Annotations.Get(domain.TagTag)
}

// SendsBody reports whether the client sends the body parameter as payload.
func (e *Endpoint) SendsBody() bool {
	return e.Verb == "post" || e.Verb == "put"
}

// Template renders the route with literal segments interleaved with
// placeholders for path parameters. The result has no leading slash.
func (e *Endpoint) Template(placeholder func(p Param) string) string {
	parts := make([]string, 0, len(e.Segments)+len(e.PathParams))
	for i, segment := range e.Segments {
		parts = append(parts, segment)
		if i < len(e.PathParams) {
			parts = append(parts, placeholder(e.PathParams[i]))
		}
	}
	return strings.Join(parts, "/")
}

// RoutePath is the server route: base path, then segments and :param tokens.
func (e *Endpoint) RoutePath() string {
	return JoinBase(e.BasePath, e.Template(func(p Param) string { return ":" + p.Name }))
}

// SchemaPath is the document path template with {param} tokens.
func (e *Endpoint) SchemaPath() string {
	return "/" + e.Template(func(p Param) string { return "{" + p.Name + "}" })
}

// JoinBase prefixes a route template with the base path.
func JoinBase(basePath, template string) string {
	base := strings.TrimRight(basePath, "/")
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if base == "/" {
		base = ""
	}
	return base + "/" + template
}
