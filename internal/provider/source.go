// Package provider extracts method and model descriptors from Go sources.
package provider

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/loader"
	"github.com/griffnb/core-endpoints/internal/parser/doc"
	"github.com/griffnb/core-endpoints/internal/parser/field"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// Source builds descriptors from loaded AST files. Index must see every file
// before Extract is called; Extract is safe for concurrent use afterwards.
type Source struct {
	strategy string
	debug    Debugger
	types    *typeResolver
	store    *domain.MemoryStore
	services map[string]string
}

// NewSource creates a Source naming model properties with strategy.
func NewSource(strategy string, debug Debugger) *Source {
	if strategy == "" {
		strategy = field.CamelCase
	}
	if debug == nil {
		debug = &noOpDebugger{}
	}
	return &Source{
		strategy: strategy,
		debug:    debug,
		types:    newTypeResolver(),
		store:    domain.NewMemoryStore(),
		services: make(map[string]string),
	}
}

// Store returns the models found by Index.
func (s *Source) Store() *domain.MemoryStore {
	return s.store
}

// Services returns the doc text of every service type, keyed by name.
func (s *Source) Services() map[string]string {
	return s.services
}

// Index records services, named basic types and models of files.
func (s *Source) Index(files []*loader.AstFileInfo) error {
	var specs []*ast.TypeSpec
	docs := make(map[*ast.TypeSpec]*ast.CommentGroup)
	for _, info := range files {
		for _, decl := range info.File.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, sp := range gen.Specs {
				ts := sp.(*ast.TypeSpec)
				cg := ts.Doc
				if cg == nil && len(gen.Specs) == 1 {
					cg = gen.Doc
				}
				docs[ts] = cg
				specs = append(specs, ts)

				if info.ParseFlag.Has(loader.ParseOperations) {
					if err := s.indexService(ts, cg); err != nil {
						return fmt.Errorf("%s: %w", info.Path, err)
					}
				}
			}
		}
	}

	// named basic types may refer to each other in any order
	for changed := true; changed; {
		before := len(s.types.basics)
		for _, ts := range specs {
			s.types.declare(ts)
		}
		changed = len(s.types.basics) != before
	}

	for _, ts := range specs {
		st, ok := ts.Type.(*ast.StructType)
		if !ok || ts.TypeParams != nil {
			continue
		}
		if _, isService := s.services[ts.Name.Name]; isService {
			continue
		}
		m := s.model(ts.Name.Name, st, docs[ts])
		if !s.store.Add(m) {
			s.debug.Printf("model %s is declared more than once, keeping the first", m.Name)
		}
	}
	return nil
}

func (s *Source) indexService(ts *ast.TypeSpec, cg *ast.CommentGroup) error {
	if cg == nil {
		return nil
	}
	c, err := doc.ParseGroup(cg)
	if err != nil {
		return err
	}
	if c.IsService {
		s.services[ts.Name.Name] = c.Text
	}
	return nil
}

// model converts a struct declaration. Fields of unsupported types are left
// out of the model.
func (s *Source) model(name string, st *ast.StructType, cg *ast.CommentGroup) *domain.ModelDescriptor {
	m := domain.NewModel(name)
	if c, err := doc.ParseGroup(cg); err == nil {
		m.Doc = c.Text
	}
	for _, f := range st.Fields.List {
		ps := field.NewTagBaseFieldParser(f, s.strategy)
		if ps.ShouldSkip() {
			continue
		}
		t, err := s.types.resolve(f.Type, modeField)
		if err != nil {
			s.debug.Printf("model %s: skipping field %s: %v", name, f.Names[0].Name, err)
			continue
		}
		for _, prop := range ps.FieldNames() {
			m.AddField(prop, t)
		}
	}
	return m
}

// Extract returns the descriptors of the service methods declared in info, in
// declaration order. Methods that cannot be described are reported in the
// joined error, each as a *domain.MethodError; the others are still returned.
func (s *Source) Extract(info *loader.AstFileInfo) ([]*domain.MethodDescriptor, error) {
	if !info.ParseFlag.Has(loader.ParseOperations) {
		return nil, nil
	}

	var (
		out  []*domain.MethodDescriptor
		errs []error
	)
	for _, decl := range info.File.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
			continue
		}
		service := receiverName(fd.Recv.List[0].Type)
		if _, ok := s.services[service]; !ok {
			continue
		}

		m, err := s.method(service, fd)
		if m != nil {
			m.Position = info.FileSet.Position(fd.Pos()).String()
		}
		if err != nil {
			errs = append(errs, domain.NewMethodError(m, err))
			continue
		}
		out = append(out, m)
	}
	return out, errors.Join(errs...)
}

func (s *Source) method(service string, fd *ast.FuncDecl) (*domain.MethodDescriptor, error) {
	m := &domain.MethodDescriptor{
		Service: service,
		Name:    fd.Name.Name,
		Private: !ast.IsExported(fd.Name.Name),
	}

	c, err := doc.ParseGroup(fd.Doc)
	if err != nil {
		return m, err
	}
	m.Annotations = c.Annotations
	m.Doc = c.Text
	if len(c.Errors) > 0 {
		m.Errors = c.Errors
	}

	// never compiled, so their signatures need not be describable
	if m.Private || m.Annotations.Has(domain.TagNoGenerate) {
		return m, nil
	}

	if err := s.parameters(m, fd.Type.Params, c); err != nil {
		return m, err
	}
	if err := s.results(m, fd.Type.Results); err != nil {
		return m, err
	}
	return m, nil
}

func (s *Source) parameters(m *domain.MethodDescriptor, params *ast.FieldList, c *doc.Comment) error {
	if params == nil {
		return nil
	}
	for i, f := range params.List {
		if i == 0 && isContext(f.Type) {
			m.TakesContext = true
			if len(f.Names) > 1 {
				return fmt.Errorf("%w: more than one context parameter", domain.ErrUnsupportedType)
			}
			continue
		}
		if len(f.Names) == 0 {
			return fmt.Errorf("%w: unnamed parameter of type %s", domain.ErrUnsupportedType, types.ExprString(f.Type))
		}
		if isContext(f.Type) {
			return fmt.Errorf("%w: context.Context must be the first parameter", domain.ErrUnsupportedType)
		}
		t, err := s.types.resolve(f.Type, modeParam)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", f.Names[0].Name, err)
		}
		for _, name := range f.Names {
			m.Parameters = append(m.Parameters, domain.ParameterDescriptor{
				Name:     name.Name,
				Type:     t,
				Optional: c.IsOptional(name.Name),
			})
		}
	}
	return nil
}

func (s *Source) results(m *domain.MethodDescriptor, results *ast.FieldList) error {
	if results == nil {
		return nil
	}
	var exprs []ast.Expr
	for _, f := range results.List {
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			exprs = append(exprs, f.Type)
		}
	}

	switch {
	case len(exprs) == 0:
		return nil
	case len(exprs) == 1 && isError(exprs[0]):
		m.ReturnsError = true
		return nil
	case len(exprs) == 2 && !isError(exprs[1]):
		return fmt.Errorf("%w: second result must be error", domain.ErrUnsupportedType)
	case len(exprs) > 2:
		return fmt.Errorf("%w: more than two results", domain.ErrUnsupportedType)
	}

	t, err := s.types.resolve(exprs[0], modeReturn)
	if err != nil {
		return fmt.Errorf("result: %w", err)
	}
	m.ReturnType = t
	m.ReturnsError = len(exprs) == 2
	return nil
}

// receiverName is the type name of a method receiver.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}
