package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/loader"
	"github.com/griffnb/core-endpoints/internal/provider"
)

// unit is a method together with the package its generated code goes to.
type unit struct {
	method *domain.MethodDescriptor
	dir    string
	pkg    string
}

// fileUnits pairs a file path with its extracted methods for deterministic ordering.
type fileUnits struct {
	filePath string
	units    []unit
	failures []error
}

// extractParallel extracts descriptors from all files concurrently using an
// errgroup bounded by the number of CPUs. Results are sorted by file path so
// that methods keep source order regardless of goroutine scheduling.
// Methods that cannot be described are returned as failures; in strict mode
// they abort the run.
func (s *Service) extractParallel(source *provider.Source, files []*loader.AstFileInfo) ([]unit, []error, error) {
	var (
		mu        sync.Mutex
		collected []fileUnits
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, fileInfo := range files {
		if fileInfo.File == nil {
			continue
		}

		fileInfo := fileInfo

		g.Go(func() error {
			methods, err := source.Extract(fileInfo)
			fu := fileUnits{filePath: fileInfo.Path}
			if err != nil {
				fu.failures = unwrapJoined(err)
			}
			if len(methods) == 0 && len(fu.failures) == 0 {
				return nil
			}

			dir := filepath.Dir(fileInfo.Path)
			for _, m := range methods {
				fu.units = append(fu.units, unit{method: m, dir: dir, pkg: fileInfo.File.Name.Name})
			}

			mu.Lock()
			collected = append(collected, fu)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Sort by file path for deterministic output.
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].filePath < collected[j].filePath
	})

	var (
		units    []unit
		failures []error
	)
	for _, fu := range collected {
		units = append(units, fu.units...)
		for _, failure := range fu.failures {
			s.config.Debug.Printf("Orchestrator: skipping %s: %v", fu.filePath, failure)
			failures = append(failures, fmt.Errorf("%s: %w", fu.filePath, failure))
		}
	}
	if err := s.strictFailure(failures); err != nil {
		return nil, nil, err
	}

	return units, failures, nil
}

// unwrapJoined splits an errors.Join result into its parts.
func unwrapJoined(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
