package provider

import (
	"fmt"
	"go/ast"
	"go/types"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// typeMode selects what a position accepts.
type typeMode int

const (
	modeParam typeMode = iota
	modeReturn
	modeField
)

// typeResolver maps Go type expressions onto TypeRefs.
type typeResolver struct {
	// basics maps named types declared in the sources with a basic underlying
	// type (type DeviceID int64) to their primitive name.
	basics map[string]string
}

func newTypeResolver() *typeResolver {
	return &typeResolver{basics: make(map[string]string)}
}

// declare records a type declaration when its underlying type is basic.
func (r *typeResolver) declare(spec *ast.TypeSpec) {
	ident, ok := spec.Type.(*ast.Ident)
	if !ok {
		return
	}
	if prim := domain.GolangPrimitiveName(ident.Name); prim != "" {
		r.basics[spec.Name.Name] = prim
		return
	}
	if prim, ok := r.basics[ident.Name]; ok {
		r.basics[spec.Name.Name] = prim
	}
}

// resolve maps expr in the given position.
func (r *typeResolver) resolve(expr ast.Expr, mode typeMode) (domain.TypeRef, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return r.ident(t.Name)
	case *ast.SelectorExpr:
		spelling := types.ExprString(t)
		if prim := domain.GolangPrimitiveName(spelling); prim != "" {
			if mode == modeParam {
				return domain.TypeRef{}, unsupported(expr, "value type parameter")
			}
			return domain.Primitive(prim).WithDisplay(spelling), nil
		}
		return domain.Named(t.Sel.Name).WithDisplay(spelling), nil
	case *ast.StarExpr:
		inner, err := r.resolve(t.X, mode)
		if err != nil {
			return domain.TypeRef{}, err
		}
		if inner.IsSimple() && mode == modeParam {
			return domain.TypeRef{}, unsupported(expr, "pointer to primitive parameter")
		}
		return inner.WithDisplay("*" + goSpelling(inner, t.X)), nil
	case *ast.ArrayType:
		if t.Len != nil {
			return domain.TypeRef{}, unsupported(expr, "fixed size array")
		}
		elem, err := r.resolve(t.Elt, mode)
		if err != nil {
			return domain.TypeRef{}, err
		}
		if elem.IsArray() {
			return domain.TypeRef{}, fmt.Errorf("%s: %w", types.ExprString(expr), domain.ErrNestedArray)
		}
		return domain.Array(elem), nil
	case *ast.ParenExpr:
		return r.resolve(t.X, mode)
	}
	return domain.TypeRef{}, unsupported(expr, "type")
}

func (r *typeResolver) ident(name string) (domain.TypeRef, error) {
	switch name {
	case "error", "any", "interface{}":
		return domain.TypeRef{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, name)
	case "int", "string", "bool":
		return domain.Primitive(domain.GolangPrimitiveName(name)), nil
	}
	if prim := domain.GolangPrimitiveName(name); prim != "" {
		return domain.Primitive(prim).WithDisplay(name), nil
	}
	if prim, ok := r.basics[name]; ok {
		return domain.Primitive(prim).WithDisplay(name), nil
	}
	return domain.Named(name), nil
}

// goSpelling is the Go source of the type t was resolved from.
func goSpelling(t domain.TypeRef, expr ast.Expr) string {
	if t.Display != "" {
		return t.Display
	}
	return types.ExprString(expr)
}

func unsupported(expr ast.Expr, what string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrUnsupportedType, what, types.ExprString(expr))
}

// isContext reports whether expr spells context.Context.
func isContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

// isError reports whether expr spells the error interface.
func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}
