// Package server renders gin route handlers for compiled endpoints.
package server

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/griffnb/core-endpoints/internal/codewriter"
	"github.com/griffnb/core-endpoints/internal/endpoint"
	"github.com/griffnb/core-endpoints/internal/guard"
	"github.com/griffnb/core-endpoints/internal/render"
)

// RuntimeImport is the import path of the runtime package used by generated code.
const RuntimeImport = "github.com/griffnb/core-endpoints/httpkit"

// payloadVar holds the decoded request body. It cannot collide with a bound
// parameter, which always carries the guard prefix.
const payloadVar = "payload"

// Gin renders gin handlers.
type Gin struct{}

// NewGin returns the gin server backend.
func NewGin() *Gin {
	return &Gin{}
}

// HandlerName is the generated handler function of e.
func HandlerName(e *endpoint.Endpoint) string {
	return "handle" + render.Exported(e.Service()) + render.Exported(e.Name())
}

// RenderRoute implements endpoint.ServerBackend.
func (g *Gin) RenderRoute(e *endpoint.Endpoint) (endpoint.ServerFragment, error) {
	name := HandlerName(e)
	route := e.RoutePath()
	verb := strings.ToUpper(e.Verb)

	w := codewriter.New("\t")
	w.Line(fmt.Sprintf("// %s serves %s %s.", name, verb, route))
	w.Block(fmt.Sprintf("func %s(c *gin.Context) error {", name), "}", func() {
		var args []string
		if e.Method.TakesContext {
			args = append(args, "c.Request.Context()")
		}
		for _, v := range e.Guards {
			args = append(args, guard.Write(w, v))
		}
		args = append(args, writeBody(w, e.Body)...)

		call := fmt.Sprintf("%s(c).%s(%s)", e.Factory(), e.Name(), strings.Join(args, ", "))
		writeCall(w, e, call)
	})

	return endpoint.ServerFragment{
		Registration: fmt.Sprintf("app.%s(%q, guarded(%s))", verb, route, name),
		Handler:      w.String(),
	}, nil
}

// writeBody decodes the body parameters and returns their call arguments.
func writeBody(w *codewriter.Writer, body []endpoint.Param) []string {
	switch len(body) {
	case 0:
		return nil
	case 1:
		p := body[0]
		typ := render.GoType(p.Type)
		arg := payloadVar
		if strings.HasPrefix(typ, "*") {
			typ = strings.TrimPrefix(typ, "*")
			arg = "&" + payloadVar
		}
		w.Line(fmt.Sprintf("var %s %s", payloadVar, typ))
		writeDecode(w, p.Optional)
		return []string{arg}
	}

	exported := make([]string, 0, len(body))
	for _, p := range body {
		exported = append(exported, render.Exported(p.Name))
	}
	fields := render.Unique(exported)

	args := make([]string, 0, len(body))
	optional := true
	w.Block(fmt.Sprintf("var %s struct {", payloadVar), "}", func() {
		for i, p := range body {
			field := fields[i]
			w.Line(fmt.Sprintf("%s %s `json:%q`", field, render.GoType(p.Type), p.Name+",omitempty"))
			args = append(args, payloadVar+"."+field)
			optional = optional && p.Optional
		}
	})
	writeDecode(w, optional)
	return args
}

func writeDecode(w *codewriter.Writer, optional bool) {
	decode := "httpkit.DecodeBody"
	if optional {
		decode = "httpkit.DecodeOptionalBody"
	}
	w.Block(fmt.Sprintf("if err := %s(c.Request.Body, &%s); err != nil {", decode, payloadVar), "}", func() {
		w.Line("return err")
	})
}

// writeCall invokes the service method and answers with its result.
func writeCall(w *codewriter.Writer, e *endpoint.Endpoint, call string) {
	hasReturn := e.Method.HasReturn()
	returnsError := e.Method.ReturnsError
	custom := e.Custom()

	switch {
	case hasReturn && returnsError && custom:
		w.Block(fmt.Sprintf("if _, err := %s; err != nil {", call), "}", func() {
			w.Line("return err")
		})
	case hasReturn && returnsError:
		w.Line(fmt.Sprintf("result, err := %s", call))
		w.Block("if err != nil {", "}", func() {
			w.Line("return err")
		})
		w.Line("c.JSON(http.StatusOK, result)")
	case hasReturn && custom:
		w.Line(call)
	case hasReturn:
		w.Line(fmt.Sprintf("c.JSON(http.StatusOK, %s)", call))
	case returnsError:
		w.Block(fmt.Sprintf("if err := %s; err != nil {", call), "}", func() {
			w.Line("return err")
		})
		if !custom {
			w.Line("c.Status(http.StatusOK)")
		}
	default:
		w.Line(call)
		if !custom {
			w.Line("c.Status(http.StatusOK)")
		}
	}
	w.Line("return nil")
}

// File assembles the routes file of a package from the endpoint fragments,
// in the given order.
func File(pkg string, fragments []endpoint.ServerFragment) ([]byte, error) {
	w := codewriter.New("\t")
	w.Line("// " + render.GeneratedHeader)
	w.Blank()
	w.Line("package " + pkg)
	w.Blank()
	w.Block("import (", ")", func() {
		w.Line(`"net/http"`)
		w.Blank()
		w.Line(`"github.com/gin-gonic/gin"`)
		w.Blank()
		w.Line(fmt.Sprintf("%q", RuntimeImport))
	})
	w.Blank()
	w.Line("// RegisterRoutes binds every generated endpoint on app.")
	w.Block("func RegisterRoutes(app gin.IRoutes) {", "}", func() {
		for _, f := range fragments {
			w.Line(f.Registration)
		}
	})
	w.Blank()
	w.Line("// guarded answers a failed handler with the status carried by its error and no body.")
	w.Block("func guarded(handle func(c *gin.Context) error) gin.HandlerFunc {", "}", func() {
		w.Block("return func(c *gin.Context) {", "}", func() {
			w.Block("if err := handle(c); err != nil {", "}", func() {
				w.Line("c.AbortWithStatus(httpkit.StatusOf(err))")
			})
		})
	})
	for _, f := range fragments {
		w.Blank()
		w.Out(f.Handler, false)
	}

	src, err := imports.Process("routes_gen.go", w.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, fmt.Errorf("format routes: %w", err)
	}
	return src, nil
}
