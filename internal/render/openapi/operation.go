// Package openapi builds the OpenAPI 2.0 operation of a compiled endpoint.
package openapi

import (
	"net/http"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/endpoint"
	"github.com/griffnb/core-endpoints/internal/schema"
)

const (
	mimeJSON      = "application/json"
	mimeMultipart = "multipart/form-data"
)

// Builder is the schema document backend.
type Builder struct{}

// NewBuilder returns the schema backend.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildOperation implements endpoint.SchemaBackend. Parameters are listed as
// upload files, upload metadata, path, query and body parameters.
func (b *Builder) BuildOperation(e *endpoint.Endpoint) (*spec.Operation, error) {
	m := e.Method
	op := spec.NewOperation("")

	op.Description = m.Annotations.Get(domain.TagDescription)
	if op.Description == "" {
		op.Description = m.Doc
	}
	op.Summary = m.Annotations.Get(domain.TagSummary)
	if op.Summary == "" {
		op.Summary = op.Description
	}
	op.Produces = []string{mimeJSON}
	if len(e.Form) > 0 {
		op.Consumes = []string{mimeMultipart}
	}
	if tag := e.Tag(); tag != "" {
		op.Tags = []string{tag}
	}

	for _, f := range e.Form {
		param := spec.FormDataParam(f.Name).WithDescription(f.Description).AsRequired()
		if f.File {
			param.Typed(schema.FILE, "")
		} else {
			param.Typed(domain.STRING, "")
		}
		op.AddParam(param)
	}
	for _, p := range e.PathParams {
		op.AddParam(spec.PathParam(p.Name).Typed(p.Resolved.BaseName, "").WithDescription(p.Description))
	}
	for _, p := range e.Query {
		param := spec.QueryParam(p.Name).Typed(p.Resolved.BaseName, "").WithDescription(p.Description)
		if !p.Optional {
			param.AsRequired()
		}
		op.AddParam(param)
	}
	for _, p := range e.Body {
		op.AddParam(bodyParam(p))
	}

	op.RespondsWith(http.StatusOK, response(http.StatusOK, schema.Fragment(e.Return)))
	for _, code := range m.Errors.Codes() {
		fragment, err := schema.FragmentFor(errorType(m.Errors[code]))
		if err != nil {
			return nil, err
		}
		op.RespondsWith(code, response(code, fragment))
	}
	return op, nil
}

// bodyParam carries compound and array types as a schema and bare
// primitives as a plain type.
func bodyParam(p endpoint.Param) *spec.Parameter {
	param := spec.BodyParam(p.Name, schema.Fragment(p.Resolved)).WithDescription(p.Description)
	if p.Type.IsSimple() {
		param.Schema = nil
		param.Typed(p.Resolved.BaseName, "")
	}
	if !p.Optional {
		param.AsRequired()
	}
	return param
}

func response(code int, fragment *spec.Schema) *spec.Response {
	return spec.NewResponse().WithDescription(http.StatusText(code)).WithSchema(fragment)
}

// errorType reads an error map entry. Entries are plain model or primitive
// names, which always parse.
func errorType(name string) domain.TypeRef {
	if domain.IsPrimitiveName(name) {
		return domain.Primitive(name)
	}
	return domain.Named(name)
}
