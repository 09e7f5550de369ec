package client

import (
	"fmt"
	"strings"

	"github.com/go-openapi/spec"
	"golang.org/x/tools/imports"

	"github.com/griffnb/core-endpoints/internal/codewriter"
	"github.com/griffnb/core-endpoints/internal/endpoint"
	"github.com/griffnb/core-endpoints/internal/render"
	"github.com/griffnb/core-endpoints/internal/render/server"
)

var methodConstants = map[string]string{
	"get":     "http.MethodGet",
	"post":    "http.MethodPost",
	"put":     "http.MethodPut",
	"delete":  "http.MethodDelete",
	"patch":   "http.MethodPatch",
	"head":    "http.MethodHead",
	"options": "http.MethodOptions",
}

// Go renders a client type per service on top of httpkit.Client. The file is
// generated into the package declaring the models.
type Go struct{}

// NewGo returns the Go client backend.
func NewGo() *Go {
	return &Go{}
}

// Target implements endpoint.ClientBackend.
func (g *Go) Target() string {
	return TargetGo
}

// FileName is the generated file name.
func (g *Go) FileName() string {
	return "client_gen.go"
}

// reservedGo are the identifiers a generated method body relies on besides
// its parameters.
var reservedGo = []string{"c", "ctx", "query", "out", "err", "context", "http", "httpkit"}

// RenderMethod implements endpoint.ClientBackend.
func (g *Go) RenderMethod(e *endpoint.Endpoint) (string, error) {
	params := e.Params()
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	reserved := reservedGo
	if ret := e.Method.ReturnType; ret.BaseName() != "" && !ret.IsSimple() {
		reserved = append(append([]string{}, reservedGo...), ret.BaseName())
	}
	locals := make(map[string]string, len(params))
	for i, local := range render.Unique(names, reserved...) {
		locals[params[i].Name] = local
	}

	signature := make([]string, 0, len(params)+1)
	signature = append(signature, "ctx context.Context")
	for _, p := range params {
		signature = append(signature, locals[p.Name]+" "+render.GoType(p.Type))
	}

	results := "error"
	retType := ""
	if e.Method.HasReturn() {
		retType = render.GoType(e.Method.ReturnType)
		results = "(" + retType + ", error)"
	}

	name := render.Exported(e.Name())
	w := codewriter.New("\t")
	w.Line(fmt.Sprintf("// %s calls %s %s.", name, strings.ToUpper(e.Verb), e.RoutePath()))
	w.Block(fmt.Sprintf("func (c *%s) %s(%s) %s {", ClassName(e.Service()), name, strings.Join(signature, ", "), results), "}", func() {
		query := "nil"
		body := "nil"
		if e.SendsBody() {
			if len(e.Body) == 1 {
				body = locals[e.Body[0].Name]
			}
		} else if len(e.Query) > 0 {
			query = "query"
			writeQuery(w, e.Query, locals)
		}

		call := fmt.Sprintf("c.client.Do(ctx, %s, %s, %s, %s", methodConstants[e.Verb], pathExpr(e, locals), query, body)
		if retType == "" {
			w.Line("return " + call + ", nil)")
			return
		}

		out, zero, ret := "out", "out", "out"
		decl := retType
		if strings.HasPrefix(retType, "*") {
			decl = strings.TrimPrefix(retType, "*")
			zero = "nil"
			ret = "&out"
		}
		w.Line(fmt.Sprintf("var %s %s", out, decl))
		w.Block(fmt.Sprintf("if err := %s, &%s); err != nil {", call, out), "}", func() {
			w.Line(fmt.Sprintf("return %s, err", zero))
		})
		w.Line(fmt.Sprintf("return %s, nil", ret))
	})
	return w.String(), nil
}

// writeQuery declares the query object encoded by httpkit.Client.
func writeQuery(w *codewriter.Writer, query []endpoint.Param, locals map[string]string) {
	exported := make([]string, 0, len(query))
	for _, p := range query {
		exported = append(exported, render.Exported(p.Name))
	}
	fields := render.Unique(exported)

	w.Block("query := struct {", "}{", func() {
		for i, p := range query {
			tag := p.Name
			if p.Optional {
				tag += ",omitempty"
			}
			w.Line(fmt.Sprintf("%s %s `schema:%q`", fields[i], render.GoType(p.Type), tag))
		}
	})
	w.Indent(1)
	for i, p := range query {
		w.Line(fmt.Sprintf("%s: %s,", fields[i], locals[p.Name]))
	}
	w.Indent(-1)
	w.Line("}")
}

// pathExpr builds the request path as a Go string expression.
func pathExpr(e *endpoint.Endpoint, locals map[string]string) string {
	const marker = "\x00"
	route := endpoint.JoinBase(e.BasePath, e.Template(func(p endpoint.Param) string {
		return marker + locals[p.Name] + marker
	}))

	var parts []string
	for i, piece := range strings.Split(route, marker) {
		if i%2 == 1 {
			parts = append(parts, "httpkit.PathParam("+piece+")")
		} else if piece != "" {
			parts = append(parts, fmt.Sprintf("%q", piece))
		}
	}
	return strings.Join(parts, " + ")
}

// File assembles the client source file.
func (g *Go) File(pkg string, services []ServiceMethods, _ spec.Definitions) ([]byte, error) {
	w := codewriter.New("\t")
	w.Line("// " + render.GeneratedHeader)
	w.Blank()
	w.Line("package " + pkg)
	w.Blank()
	w.Block("import (", ")", func() {
		w.Line(`"context"`)
		w.Line(`"net/http"`)
		w.Blank()
		w.Line(fmt.Sprintf("%q", server.RuntimeImport))
	})
	for _, svc := range services {
		class := ClassName(svc.Service)
		w.Blank()
		w.Line(fmt.Sprintf("// %s calls the %s endpoints.", class, svc.Service))
		w.Block(fmt.Sprintf("type %s struct {", class), "}", func() {
			w.Line("client *httpkit.Client")
		})
		w.Blank()
		w.Line(fmt.Sprintf("// New%s creates a %s on top of client.", class, class))
		w.Block(fmt.Sprintf("func New%s(client *httpkit.Client) *%s {", class, class), "}", func() {
			w.Line(fmt.Sprintf("return &%s{client: client}", class))
		})
		for _, m := range svc.Methods {
			w.Blank()
			w.Out(m, false)
		}
	}

	src, err := imports.Process(g.FileName(), w.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("format client: %w", err)
	}
	return src, nil
}
