package loader

import (
	"fmt"
	"go/ast"
	"go/build"
	goparser "go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// importPath resolves the import path of the package in dir. Directories
// outside any module fall back to go/build.
func importPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName, Dir: abs}, ".")
	if err == nil && len(pkgs) == 1 && len(pkgs[0].Errors) == 0 && pkgs[0].PkgPath != "" {
		return pkgs[0].PkgPath, nil
	}

	pkg, buildErr := build.ImportDir(abs, build.ImportComment)
	if buildErr == nil && pkg.ImportPath != "" {
		return strings.TrimPrefix(pkg.ImportPath, "_"+build.Default.GOPATH+"/src/"), nil
	}
	return "", fmt.Errorf("no import path for %s", dir)
}

// source is one parsed file before it is admitted to a LoadResult.
type source struct {
	file *ast.File
	fset *token.FileSet
}

// generated reports whether the file carries a "Code generated" header.
// The routes and clients this tool writes are such files.
func (src source) generated() bool {
	return ast.IsGenerated(src.file)
}

// declaresTypes reports whether the file declares a type or a method.
// A dependency file without either cannot contribute a model.
func (src source) declaresTypes() bool {
	for _, decl := range src.file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil {
				return true
			}
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				return true
			}
		}
	}
	return false
}

func parseSource(path string, content any) (source, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, path, content, goparser.ParseComments)
	if err != nil {
		return source{}, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	return source{file: file, fset: fset}, nil
}
