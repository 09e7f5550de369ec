package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the search directories, then their dependencies when a
// dependency flag is set. With go/packages enabled the package graph
// replaces the directory walk.
func (s *Service) Load(dirs []string, mainAPIFile string, maxDepth int) (*LoadResult, error) {
	if s.goPackages {
		return s.LoadWithGoPackages(dirs, mainAPIFile)
	}

	result, err := s.LoadSearchDirs(dirs)
	if err != nil {
		return nil, err
	}

	deps, err := s.LoadDependencies(dirs, maxDepth)
	if err != nil {
		return nil, err
	}
	result.Merge(deps)

	return result, nil
}

// LoadSearchDirs parses every source file below the search directories.
func (s *Service) LoadSearchDirs(dirs []string) (*LoadResult, error) {
	result := newLoadResult()

	for _, dir := range dirs {
		root, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}

		pkgPath, err := importPath(root)
		if err != nil {
			s.debug.Printf("warning: %s, files of %s get a relative package path", err, root)
			pkgPath = ""
		}
		if !s.wantPackage(pkgPath) {
			continue
		}

		if err := s.walk(pkgPath, root, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *Service) walk(pkgPath, root string, result *LoadResult) error {
	return filepath.Walk(root, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %q: %w", path, err)
		}
		if f.IsDir() {
			if path != root && s.skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		filePkg := filepath.ToSlash(filepath.Dir(filepath.Join(pkgPath, rel)))
		return s.parseFile(filePkg, path, nil, ParseAll, result)
	})
}

// parseFile admits one file to result. Generated files are dropped so that
// a second run does not read its own output.
func (s *Service) parseFile(pkgPath, path string, content any, flag ParseFlag, result *LoadResult) error {
	if !s.wantFile(path) {
		return nil
	}

	src, err := parseSource(path, content)
	if err != nil {
		return err
	}
	if src.generated() {
		s.debug.Printf("skipping generated file %s", path)
		return nil
	}
	if flag == ParseModels && !src.declaresTypes() {
		return nil
	}

	result.Files[src.file] = &AstFileInfo{
		File:        src.file,
		Path:        path,
		PackagePath: pkgPath,
		ParseFlag:   flag,
		FileSet:     src.fset,
	}
	return nil
}

func (s *Service) wantFile(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), "_test.go") {
		return false
	}
	return filepath.Ext(path) == s.extension
}

// skipDir reports whether a directory below a search root is left out:
// vendor unless asked for, docs, testdata, hidden and excluded dirs.
func (s *Service) skipDir(path string) bool {
	name := filepath.Base(path)
	switch {
	case name == "vendor":
		return !s.vendor
	case name == "docs", name == "testdata":
		return true
	case len(name) > 1 && name[0] == '.' && name != "..":
		return true
	}
	_, excluded := s.excludes[filepath.Clean(path)]
	return excluded
}

func (s *Service) wantPackage(pkgPath string) bool {
	if len(s.prefixes) == 0 {
		return true
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(pkgPath, prefix) {
			return true
		}
	}
	return false
}
