package schema

import (
	"fmt"
	"sort"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// Registry materializes model definitions for one endpoint compile. Every
// model is visited at most once per Registry, which keeps cyclic and diamond
// shaped model graphs finite. A Registry must not be shared between endpoints.
type Registry struct {
	store       domain.ModelStore
	strict      bool
	processed   map[string]struct{}
	unresolved  map[string]struct{}
	definitions spec.Definitions
}

// NewRegistry creates a Registry reading models from store. In strict mode an
// unknown model name is an error; otherwise it is recorded and skipped.
func NewRegistry(store domain.ModelStore, strict bool) *Registry {
	return &Registry{
		store:       store,
		strict:      strict,
		processed:   make(map[string]struct{}),
		unresolved:  make(map[string]struct{}),
		definitions: make(spec.Definitions),
	}
}

// EnsureType registers every model reachable from t.
func (r *Registry) EnsureType(t domain.TypeRef) error {
	res, err := Resolve(t)
	if err != nil {
		return err
	}
	if res.IsVoid() || res.IsPrimitive() {
		return nil
	}
	return r.EnsureDefined(res.BaseName)
}

// EnsureDefined writes the definition of name and of every model it reaches.
func (r *Registry) EnsureDefined(name string) error {
	if _, done := r.processed[name]; done {
		return nil
	}
	r.processed[name] = struct{}{}

	var model *domain.ModelDescriptor
	var ok bool
	if r.store != nil {
		model, ok = r.store.FindModel(name)
	}
	if !ok {
		if r.strict {
			return fmt.Errorf("%w: %s", domain.ErrUnknownModel, name)
		}
		r.unresolved[name] = struct{}{}
		return nil
	}

	properties := make(spec.SchemaProperties)
	err := model.RangeFields(func(field string, t domain.TypeRef) error {
		res, err := Resolve(t)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, field, err)
		}
		if res.IsVoid() {
			return nil
		}
		properties[field] = *Fragment(res)
		if !res.IsPrimitive() {
			return r.EnsureDefined(res.BaseName)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.definitions[name] = ObjectSchema(properties)
	return nil
}

// Definitions returns the definitions written so far.
func (r *Registry) Definitions() spec.Definitions {
	return r.definitions
}

// Unresolved returns the model names that were referenced but not found, sorted.
func (r *Registry) Unresolved() []string {
	names := make([]string, 0, len(r.unresolved))
	for name := range r.unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
