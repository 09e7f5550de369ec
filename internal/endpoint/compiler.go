package endpoint

import (
	"fmt"
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/guard"
	"github.com/griffnb/core-endpoints/internal/schema"
)

// ServerFragment is the generated server code of one endpoint.
type ServerFragment struct {
	Registration string
	Handler      string
}

// ClientFragment is the generated client method of one endpoint.
type ClientFragment struct {
	Target string
	Code   string
}

// ServerBackend renders the server route of an endpoint.
type ServerBackend interface {
	RenderRoute(e *Endpoint) (ServerFragment, error)
}

// ClientBackend renders a client stub method for an endpoint.
type ClientBackend interface {
	Target() string
	RenderMethod(e *Endpoint) (string, error)
}

// SchemaBackend builds the document operation of an endpoint.
type SchemaBackend interface {
	BuildOperation(e *Endpoint) (*spec.Operation, error)
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// SkipReason says why a method produced no output.
type SkipReason string

const (
	NotSkipped     SkipReason = ""
	SkipNoGenerate SkipReason = "nogenerate"
	SkipPrivate    SkipReason = "private"
)

// Result is the output of compiling one method.
type Result struct {
	Endpoint  *Endpoint
	Server    ServerFragment
	Clients   []ClientFragment
	Operation *spec.Operation
	Skipped   SkipReason
}

// Compiler compiles method descriptors one at a time into a shared document.
type Compiler struct {
	store   domain.ModelStore
	doc     *document.Document
	server  ServerBackend
	schema  SchemaBackend
	clients []ClientBackend
	strict  bool
	debug   Debugger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithClients requests client stubs from the given backends.
func WithClients(clients ...ClientBackend) Option {
	return func(c *Compiler) {
		c.clients = append(c.clients, clients...)
	}
}

// WithStrict makes unknown model references fail the method.
func WithStrict(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(c *Compiler) {
		if debug != nil {
			c.debug = debug
		}
	}
}

// New creates a Compiler writing into doc.
func New(store domain.ModelStore, doc *document.Document, server ServerBackend, schemaBackend SchemaBackend, opts ...Option) *Compiler {
	c := &Compiler{
		store:  store,
		doc:    doc,
		server: server,
		schema: schemaBackend,
		debug:  noOpDebugger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the document the compiler writes into.
func (c *Compiler) Document() *document.Document {
	return c.doc
}

// Compile compiles m. A skipped method yields a Result with Skipped set and
// leaves the document untouched. A failing method also leaves the document
// untouched; the error is a *domain.MethodError.
func (c *Compiler) Compile(m *domain.MethodDescriptor) (*Result, error) {
	if m.Annotations.Has(domain.TagNoGenerate) {
		return &Result{Skipped: SkipNoGenerate}, nil
	}
	if m.Private {
		return &Result{Skipped: SkipPrivate}, nil
	}

	res, err := c.compile(m)
	if err != nil {
		return nil, domain.NewMethodError(m, err)
	}
	return res, nil
}

func (c *Compiler) compile(m *domain.MethodDescriptor) (*Result, error) {
	e, err := c.resolve(m)
	if err != nil {
		return nil, err
	}

	// Definitions are staged per endpoint and merged only once every backend
	// has succeeded.
	registry := schema.NewRegistry(c.store, c.strict)
	if err := c.register(registry, e); err != nil {
		return nil, err
	}
	if missing := registry.Unresolved(); len(missing) > 0 {
		c.debug.Printf("%s.%s: skipping unknown models %s", m.Service, m.Name, strings.Join(missing, ", "))
	}

	for _, p := range e.PathParams {
		e.Guards = append(e.Guards, guard.Plan(p.Name, fmt.Sprintf("c.Param(%q)", p.Name), p.Type, false))
	}
	for _, p := range e.Query {
		source := fmt.Sprintf("c.Query(%q)", p.Name)
		if p.Optional {
			source = fmt.Sprintf("c.GetQuery(%q)", p.Name)
		}
		e.Guards = append(e.Guards, guard.Plan(p.Name, source, p.Type, p.Optional))
	}
	guard.Unique(e.Guards)

	result := &Result{Endpoint: e}
	if c.server != nil {
		if result.Server, err = c.server.RenderRoute(e); err != nil {
			return nil, fmt.Errorf("server route: %w", err)
		}
	}

	if len(c.clients) > 0 {
		if len(e.Body) > 1 {
			return nil, fmt.Errorf("%w: %d", domain.ErrTooManyBodyParams, len(e.Body))
		}
		for _, client := range c.clients {
			code, err := client.RenderMethod(e)
			if err != nil {
				return nil, fmt.Errorf("%s client: %w", client.Target(), err)
			}
			result.Clients = append(result.Clients, ClientFragment{Target: client.Target(), Code: code})
		}
	}

	if c.schema != nil {
		if result.Operation, err = c.schema.BuildOperation(e); err != nil {
			return nil, fmt.Errorf("schema operation: %w", err)
		}
		if err := c.merge(e, result.Operation, registry); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolve classifies the parameters of m and resolves every type.
func (c *Compiler) resolve(m *domain.MethodDescriptor) (*Endpoint, error) {
	alias := m.Alias()
	groups := Classify(alias, m.Parameters, m.Annotations.Get(domain.TagQuery))

	e := &Endpoint{
		Method:   m,
		BasePath: c.doc.BasePath(),
		Segments: SplitAlias(alias),
	}

	var err error
	if e.PathParams, err = c.params(m, groups.Path, InPath); err != nil {
		return nil, err
	}
	for _, p := range e.PathParams {
		if p.Optional {
			return nil, fmt.Errorf("%w: %s", domain.ErrOptionalPathParam, p.Name)
		}
	}
	if e.Query, err = c.params(m, groups.Query, InQuery); err != nil {
		return nil, err
	}
	if e.Body, err = c.params(m, groups.Body, InBody); err != nil {
		return nil, err
	}

	if e.Return, err = schema.Resolve(m.ReturnType); err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}

	e.Verb = strings.ToLower(strings.TrimSpace(m.Annotations.Get(domain.TagMethod)))
	switch {
	case e.Verb == "" && len(e.Body) > 0:
		e.Verb = "post"
	case e.Verb == "":
		e.Verb = "get"
	}
	if _, ok := Verbs[e.Verb]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidVerb, e.Verb)
	}

	if name := m.Annotations.Get(domain.TagUpload); name != "" {
		e.Form = append(e.Form, FormField{Name: name, File: true, Description: "Uploaded file"})
	}
	if name := m.Annotations.Get(domain.TagUploadMeta); name != "" {
		e.Form = append(e.Form, FormField{Name: name, Description: m.Annotations.Get(domain.TagUploadMetaDesc)})
	}
	return e, nil
}

func (c *Compiler) params(m *domain.MethodDescriptor, group []domain.ParameterDescriptor, in Location) ([]Param, error) {
	params := make([]Param, 0, len(group))
	for _, p := range group {
		resolved, err := schema.Resolve(p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params = append(params, Param{
			ParameterDescriptor: p,
			In:                  in,
			Resolved:            resolved,
			Description:         m.Annotations.Get(p.Name),
		})
	}
	return params, nil
}

// register materializes every model the endpoint references.
func (c *Compiler) register(registry *schema.Registry, e *Endpoint) error {
	if err := registry.EnsureType(e.Method.ReturnType); err != nil {
		return fmt.Errorf("return type: %w", err)
	}
	for _, code := range e.Method.Errors.Codes() {
		model := e.Method.Errors[code]
		if schema.IsSimplePrimitiveType(model) {
			continue
		}
		if err := registry.EnsureDefined(model); err != nil {
			return fmt.Errorf("error %d: %w", code, err)
		}
	}
	for _, p := range e.Body {
		if err := registry.EnsureType(p.Type); err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
	}
	return nil
}

func (c *Compiler) merge(e *Endpoint, op *spec.Operation, registry *schema.Registry) error {
	if err := c.doc.SetOperation(e.SchemaPath(), e.Verb, op); err != nil {
		return err
	}
	c.doc.MergeDefinitions(registry.Definitions())
	if tag := e.Tag(); tag != "" {
		c.doc.AddTag(tag, e.Method.Annotations.Get(domain.TagTagDescription))
	}
	return nil
}
