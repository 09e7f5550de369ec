package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KyleBanks/depth"
)

// LoadDependencies follows the imports of the search directories up to
// maxDepth. Imported files carry the dependency parse flag, so they only
// contribute models.
func (s *Service) LoadDependencies(dirs []string, maxDepth int) (*LoadResult, error) {
	result := newLoadResult()
	if s.dependencies == ParseNone {
		return result, nil
	}

	walk := &dependencyWalk{service: s, result: result, seen: make(map[string]struct{})}
	for _, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			walk.seen[abs] = struct{}{}
		}
	}

	for i, dir := range dirs {
		pkgPath, err := importPath(dir)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			continue
		}

		tree := depth.Tree{ResolveInternal: true, MaxDepth: maxDepth}
		if err := tree.Resolve(pkgPath); err != nil {
			return nil, fmt.Errorf("resolving imports of %s: %w", pkgPath, err)
		}
		for j := range tree.Root.Deps {
			if err := walk.visit(&tree.Root.Deps[j]); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// dependencyWalk reads each resolved package directory once.
type dependencyWalk struct {
	service *Service
	result  *LoadResult
	seen    map[string]struct{}
}

func (w *dependencyWalk) visit(pkg *depth.Pkg) error {
	if !pkg.Resolved || pkg.Raw == nil || (pkg.Internal && !w.service.internal) {
		return nil
	}
	if !w.service.wantPackage(pkg.Raw.ImportPath) {
		return nil
	}
	if _, ok := w.seen[pkg.Raw.Dir]; ok {
		return nil
	}
	w.seen[pkg.Raw.Dir] = struct{}{}

	entries, err := os.ReadDir(pkg.Raw.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(pkg.Raw.Dir, entry.Name())
		if err := w.service.parseFile(pkg.Raw.ImportPath, path, nil, w.service.dependencies, w.result); err != nil {
			return err
		}
	}

	for i := range pkg.Deps {
		if err := w.visit(&pkg.Deps[i]); err != nil {
			return err
		}
	}
	return nil
}
