// Package client renders typed client stubs for compiled endpoints.
package client

import (
	"fmt"
	"strings"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/codewriter"
	"github.com/griffnb/core-endpoints/internal/endpoint"
	"github.com/griffnb/core-endpoints/internal/render"
)

// Client target names.
const (
	TargetTypeScript = "typescript"
	TargetGo         = "go"
)

// ServiceMethods is the rendered client methods of one service, in
// compile order.
type ServiceMethods struct {
	Service string
	Methods []string
}

// Renderer renders client methods and assembles them into a file.
type Renderer interface {
	endpoint.ClientBackend
	FileName() string
	File(pkg string, services []ServiceMethods, defs spec.Definitions) ([]byte, error)
}

// New returns the renderer for target.
func New(target string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case TargetTypeScript, "ts":
		return NewTypeScript(), nil
	case TargetGo:
		return NewGo(), nil
	}
	return nil, fmt.Errorf("client target %q not supported", target)
}

// ClassName is the generated client type of a service.
func ClassName(service string) string {
	return render.Exported(service) + "Client"
}

// TypeScript renders an axios based client class per service.
type TypeScript struct{}

// NewTypeScript returns the TypeScript client backend.
func NewTypeScript() *TypeScript {
	return &TypeScript{}
}

// Target implements endpoint.ClientBackend.
func (ts *TypeScript) Target() string {
	return TargetTypeScript
}

// FileName is the generated file name.
func (ts *TypeScript) FileName() string {
	return "client_gen.ts"
}

// RenderMethod implements endpoint.ClientBackend.
func (ts *TypeScript) RenderMethod(e *endpoint.Endpoint) (string, error) {
	params := e.Params()
	signature := make([]string, 0, len(params))
	taken := make(map[string]struct{}, len(params))
	for i, p := range params {
		taken[p.Name] = struct{}{}
		typ := render.TSType(p.Type)
		switch {
		case p.Optional && trailingOptional(params[i:]):
			signature = append(signature, p.Name+"?: "+typ)
		case p.Optional:
			signature = append(signature, p.Name+": "+typ+" | undefined")
		default:
			signature = append(signature, p.Name+": "+typ)
		}
	}

	ret := render.TSType(e.Method.ReturnType)
	url := "`" + endpoint.JoinBase(e.BasePath, e.Template(func(p endpoint.Param) string {
		return "${encodeURIComponent(" + p.Name + ")}"
	})) + "`"

	args := []string{url}
	if e.SendsBody() {
		if len(e.Body) == 1 {
			args = append(args, e.Body[0].Name)
		}
	} else if len(e.Query) > 0 {
		names := make([]string, 0, len(e.Query))
		for _, p := range e.Query {
			names = append(names, p.Name)
		}
		args = append(args, "{ params: { "+strings.Join(names, ", ")+" } }")
	}

	w := codewriter.New("  ")
	w.Indent(1)
	w.Block(fmt.Sprintf("async %s(%s): Promise<%s> {", render.LowerCamel(e.Name()), strings.Join(signature, ", "), ret), "}", func() {
		request := fmt.Sprintf("this.http.%s<%s>(%s)", e.Verb, ret, strings.Join(args, ", "))
		if e.Method.HasReturn() {
			res := render.Free("res", taken)
			w.Line("const " + res + " = await " + request + ";")
			w.Line("return " + res + ".data;")
		} else {
			w.Line("await " + request + ";")
		}
	})
	return w.String(), nil
}

// File assembles the client module.
func (ts *TypeScript) File(_ string, services []ServiceMethods, defs spec.Definitions) ([]byte, error) {
	w := codewriter.New("  ")
	w.Line("// " + render.GeneratedHeader)
	w.Line(`import axios, { AxiosInstance } from "axios";`)
	w.Blank()
	w.Out(render.TSInterfaces(defs), false)
	for i, svc := range services {
		if i > 0 {
			w.Blank()
		}
		w.Block(fmt.Sprintf("export class %s {", ClassName(svc.Service)), "}", func() {
			w.Line("constructor(private readonly http: AxiosInstance = axios.create()) {}")
			for _, m := range svc.Methods {
				w.Blank()
				w.Indent(-1)
				w.Out(m, false)
				w.Indent(1)
			}
		})
	}
	return w.Bytes(), nil
}

func trailingOptional(params []endpoint.Param) bool {
	for _, p := range params {
		if !p.Optional {
			return false
		}
	}
	return true
}
