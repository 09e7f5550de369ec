package loader

import (
	"fmt"
	"go/token"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

const goPackagesMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo

// LoadWithGoPackages loads the search directories, and the directory of the
// main API file, as package patterns. Imported packages are visited only
// when a dependency flag is set.
func (s *Service) LoadWithGoPackages(searchDirs []string, absMainAPIFilePath string) (*LoadResult, error) {
	mode := goPackagesMode
	if s.dependencies != ParseNone {
		mode |= packages.NeedDeps
	}

	patterns := make([]string, 0, len(searchDirs)+1)
	if absMainAPIFilePath != "" {
		patterns = append(patterns, filepath.Dir(absMainAPIFilePath))
	}
	for _, dir := range searchDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, abs+"/...")
	}

	cfg := &packages.Config{Mode: mode, Fset: token.NewFileSet()}
	roots, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}
	for _, pkg := range roots {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, pkg.Errors[0])
		}
	}

	isRoot := make(map[*packages.Package]bool, len(roots))
	for _, pkg := range roots {
		isRoot[pkg] = true
	}

	result := newLoadResult()
	result.Packages = roots
	packages.Visit(roots, func(pkg *packages.Package) bool {
		if !s.wantPackage(pkg.PkgPath) {
			return false
		}
		flag := s.dependencies
		if isRoot[pkg] {
			flag = ParseAll
		}
		s.addPackage(pkg, cfg, flag, result)
		return s.dependencies != ParseNone
	}, nil)

	return result, nil
}

// addPackage admits the already parsed files of pkg.
func (s *Service) addPackage(pkg *packages.Package, cfg *packages.Config, flag ParseFlag, result *LoadResult) {
	for i, path := range pkg.CompiledGoFiles {
		if i >= len(pkg.Syntax) || !s.wantFile(path) || s.skipDir(filepath.Dir(path)) {
			continue
		}
		src := source{file: pkg.Syntax[i], fset: cfg.Fset}
		if src.generated() {
			continue
		}
		result.Files[src.file] = &AstFileInfo{
			File:        src.file,
			Path:        path,
			PackagePath: pkg.PkgPath,
			ParseFlag:   flag,
			FileSet:     src.fset,
		}
	}
}
