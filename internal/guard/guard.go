// Package guard synthesizes the coercion guards that run before a generated
// handler calls into the service.
package guard

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/griffnb/core-endpoints/internal/codewriter"
	"github.com/griffnb/core-endpoints/internal/domain"
)

// BindingPrefix starts every bound variable name.
const BindingPrefix = "maybe"

// Validator guards one path or query parameter.
type Validator struct {
	Param string
	// Source is the Go expression yielding the raw value. For optional
	// parameters it yields a (value, present) pair.
	Source   string
	Type     domain.TypeRef
	Optional bool
	Bound    string
}

// BindingName derives the bound variable name of a parameter.
func BindingName(param string) string {
	return BindingPrefix + cases.Title(language.Und, cases.NoLower).String(param)
}

// Plan prepares the validator of one parameter.
func Plan(param, source string, t domain.TypeRef, optional bool) Validator {
	return Validator{
		Param:    param,
		Source:   source,
		Type:     t,
		Optional: optional,
		Bound:    BindingName(param),
	}
}

// Unique renames repeated bound names in place, numbering the later ones
// (maybeId, maybeId2, ...) so every guard declares its own variable.
func Unique(vs []Validator) {
	taken := make(map[string]struct{}, len(vs))
	for i := range vs {
		name := vs[i].Bound
		for n := 2; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s%d", vs[i].Bound, n)
		}
		taken[name] = struct{}{}
		vs[i].Bound = name
	}
}

// Coercer is the httpkit function coercing the value, or "" when the type is
// not simple and the raw value is used as is. Numbers declared with another
// Go type than int are coerced straight into that type, range checked.
func (v Validator) Coercer() string {
	if !v.Type.IsSimple() {
		return ""
	}
	switch v.Type.Name {
	case domain.NUMBER:
		if sized(v.Type) {
			return "httpkit.NumberAs[" + v.Type.Display + "]"
		}
		return "httpkit.Number"
	case domain.STRING:
		return "httpkit.String"
	default:
		return "httpkit.Bool"
	}
}

// Write emits the guard statements into w and returns the expression to pass
// to the service method. The statements return the coercion error from the
// enclosing handler.
func Write(w *codewriter.Writer, v Validator) string {
	coercer := v.Coercer()
	if coercer == "" {
		return v.Source
	}
	if v.Optional {
		coercer = "httpkit.Optional(" + coercer + ")"
	}
	w.Line(fmt.Sprintf("%s, err := %s(%s)", v.Bound, coercer, v.Source))
	w.Block("if err != nil {", "}", func() {
		w.Line("return err")
	})
	return convert(v.Bound, v.Type)
}

func sized(t domain.TypeRef) bool {
	return t.Name == domain.NUMBER && t.Display != "" && t.Display != "int"
}

// convert wraps name in a conversion to the declared parameter type when the
// coerced type differs from it.
func convert(name string, t domain.TypeRef) string {
	display := t.Display
	switch {
	case display == "":
		return name
	case t.Name == domain.NUMBER:
		return name
	case t.Name == domain.STRING && display == "string":
		return name
	case t.Name == domain.BOOLEAN && display == "bool":
		return name
	}
	return display + "(" + name + ")"
}
