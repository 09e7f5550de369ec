// Package document accumulates the OpenAPI 2.0 document shared by every
// endpoint compiled in one run.
package document

import (
	"fmt"
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// DefaultBasePath is used when no base path is configured.
const DefaultBasePath = "/v1/"

// Info is the general API information of the document.
type Info struct {
	Title          string
	Version        string
	Description    string
	TermsOfService string
	BasePath       string
}

// Document is the run-scoped schema document. It is not safe for concurrent
// mutation; endpoints are compiled one at a time.
type Document struct {
	info    Info
	swagger *spec.Swagger
}

// New returns an empty document.
func New(info Info) *Document {
	if info.BasePath == "" {
		info.BasePath = DefaultBasePath
	}
	d := &Document{info: info}
	d.Reset()
	return d
}

// Reset discards every path, definition and tag.
func (d *Document) Reset() {
	d.swagger = &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			BasePath: d.info.BasePath,
			Schemes:  []string{"http", "https"},
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Version:        d.info.Version,
					Title:          d.info.Title,
					Description:    d.info.Description,
					TermsOfService: d.info.TermsOfService,
				},
			},
			Paths:       &spec.Paths{Paths: make(map[string]spec.PathItem)},
			Definitions: make(spec.Definitions),
			Tags:        []spec.Tag{},
		},
	}
}

// ApplyInfo overrides the general information with the non-empty fields of info.
func (d *Document) ApplyInfo(info Info) {
	if info.Title != "" {
		d.info.Title = info.Title
		d.swagger.Info.Title = info.Title
	}
	if info.Version != "" {
		d.info.Version = info.Version
		d.swagger.Info.Version = info.Version
	}
	if info.Description != "" {
		d.info.Description = info.Description
		d.swagger.Info.Description = info.Description
	}
	if info.TermsOfService != "" {
		d.info.TermsOfService = info.TermsOfService
		d.swagger.Info.TermsOfService = info.TermsOfService
	}
	if info.BasePath != "" {
		d.info.BasePath = info.BasePath
		d.swagger.BasePath = info.BasePath
	}
}

// BasePath is the route prefix of every endpoint.
func (d *Document) BasePath() string {
	return d.swagger.BasePath
}

// SetOperation stores op under (path, method), replacing any previous
// operation for the same pair.
func (d *Document) SetOperation(path, method string, op *spec.Operation) error {
	item := d.swagger.Paths.Paths[path]
	switch strings.ToLower(method) {
	case "get":
		item.Get = op
	case "post":
		item.Post = op
	case "put":
		item.Put = op
	case "delete":
		item.Delete = op
	case "patch":
		item.Patch = op
	case "head":
		item.Head = op
	case "options":
		item.Options = op
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidVerb, method)
	}
	d.swagger.Paths.Paths[path] = item
	return nil
}

// Operation returns the operation stored under (path, method), or nil.
func (d *Document) Operation(path, method string) *spec.Operation {
	item, ok := d.swagger.Paths.Paths[path]
	if !ok {
		return nil
	}
	switch strings.ToLower(method) {
	case "get":
		return item.Get
	case "post":
		return item.Post
	case "put":
		return item.Put
	case "delete":
		return item.Delete
	case "patch":
		return item.Patch
	case "head":
		return item.Head
	case "options":
		return item.Options
	}
	return nil
}

// AddTag registers name once. A description is attached only if the tag had
// none before.
func (d *Document) AddTag(name, description string) {
	if name == "" {
		return
	}
	for i := range d.swagger.Tags {
		if d.swagger.Tags[i].Name != name {
			continue
		}
		if d.swagger.Tags[i].Description == "" && description != "" {
			d.swagger.Tags[i].Description = description
		}
		return
	}
	d.swagger.Tags = append(d.swagger.Tags, spec.NewTag(name, description, nil))
}

// MergeDefinitions adds defs, overwriting same-named definitions.
func (d *Document) MergeDefinitions(defs spec.Definitions) {
	for name, def := range defs {
		d.swagger.Definitions[name] = def
	}
}

// Definition returns the definition stored under name.
func (d *Document) Definition(name string) (spec.Schema, bool) {
	def, ok := d.swagger.Definitions[name]
	return def, ok
}

// Swagger exposes the underlying document for output.
func (d *Document) Swagger() *spec.Swagger {
	return d.swagger
}
