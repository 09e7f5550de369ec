package orchestrator

import (
	"sort"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/endpoint"
	"github.com/griffnb/core-endpoints/internal/render/client"
)

// Output is the compiled result of a run, ready to be written.
type Output struct {
	// Packages holds the generated code per target package, sorted by directory.
	Packages []*Package
	// Methods holds every descriptor seen, in compile order.
	Methods []*domain.MethodDescriptor
	// Failures are the methods that were logged and skipped.
	Failures []error
	Compiled int
	Skipped  int
	Store    *domain.MemoryStore
}

// Package is the generated code destined for one Go package.
type Package struct {
	Dir    string
	Name   string
	Routes []endpoint.ServerFragment
	// Clients maps a client target to its methods grouped by service.
	Clients map[string][]client.ServiceMethods
}

// compile runs the endpoint compiler over units one at a time. Order matters:
// the last endpoint compiled for a path and verb wins in the document.
func (s *Service) compile(units []unit, store domain.ModelStore) (*Output, error) {
	backends := make([]endpoint.ClientBackend, 0, len(s.clients))
	for _, r := range s.clients {
		backends = append(backends, r)
	}
	compiler := endpoint.New(store, s.doc, s.server, s.operations,
		endpoint.WithClients(backends...),
		endpoint.WithStrict(s.config.Strict),
		endpoint.WithDebugger(s.config.Debug),
	)

	out := &Output{}
	packages := make(map[string]*Package)
	for _, u := range units {
		out.Methods = append(out.Methods, u.method)

		res, err := compiler.Compile(u.method)
		if err != nil {
			s.config.Debug.Printf("Orchestrator: skipping %s: %v", u.method.Position, err)
			out.Failures = append(out.Failures, err)
			if s.config.Strict {
				return nil, s.strictFailure(out.Failures)
			}
			continue
		}
		if res.Skipped != endpoint.NotSkipped {
			s.config.Debug.Printf("Orchestrator: %s.%s not generated (%s)", u.method.Service, u.method.Name, res.Skipped)
			out.Skipped++
			continue
		}
		out.Compiled++

		pkg, ok := packages[u.dir]
		if !ok {
			pkg = &Package{Dir: u.dir, Name: u.pkg, Clients: make(map[string][]client.ServiceMethods)}
			packages[u.dir] = pkg
		}
		pkg.Routes = append(pkg.Routes, res.Server)
		for _, frag := range res.Clients {
			pkg.Clients[frag.Target] = appendMethod(pkg.Clients[frag.Target], u.method.Service, frag.Code)
		}
	}

	for _, pkg := range packages {
		out.Packages = append(out.Packages, pkg)
	}
	sort.Slice(out.Packages, func(i, j int) bool {
		return out.Packages[i].Dir < out.Packages[j].Dir
	})
	return out, nil
}

// appendMethod adds code to the methods of service, keeping services in
// first-seen order.
func appendMethod(services []client.ServiceMethods, service, code string) []client.ServiceMethods {
	for i := range services {
		if services[i].Service == service {
			services[i].Methods = append(services[i].Methods, code)
			return services
		}
	}
	return append(services, client.ServiceMethods{Service: service, Methods: []string{code}})
}
