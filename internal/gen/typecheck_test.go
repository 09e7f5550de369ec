package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// ginSource declares the part of gin the generated routes use.
const ginSource = `package gin

import "net/http"

type HandlerFunc func(*Context)

type IRoutes interface {
	GET(string, ...HandlerFunc) IRoutes
	POST(string, ...HandlerFunc) IRoutes
	PUT(string, ...HandlerFunc) IRoutes
	DELETE(string, ...HandlerFunc) IRoutes
	PATCH(string, ...HandlerFunc) IRoutes
	HEAD(string, ...HandlerFunc) IRoutes
	OPTIONS(string, ...HandlerFunc) IRoutes
}

type Context struct {
	Request *http.Request
}

func (c *Context) Param(key string) string            { return "" }
func (c *Context) Query(key string) string            { return "" }
func (c *Context) GetQuery(key string) (string, bool) { return "", false }
func (c *Context) JSON(code int, obj any)             {}
func (c *Context) Status(code int)                    {}
func (c *Context) AbortWithStatus(code int)           {}
`

// factorySource is the handler factory a user writes next to the routes.
const factorySource = `package %s

import "github.com/gin-gonic/gin"

func server(c *gin.Context) *%s {
	return &%s{}
}
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

// runtimeImporter resolves the standard library and httpkit from one
// packages.Load, so every package shares the same type objects, plus a
// stand-in for gin.
func runtimeImporter(t *testing.T, fset *token.FileSet) types.Importer {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps,
		Dir:  "../..",
		Fset: fset,
	}
	roots, err := packages.Load(cfg, "github.com/griffnb/core-endpoints/httpkit", "context", "net/http", "time")
	require.NoError(t, err)

	loaded := make(map[string]*types.Package)
	var loadErrs []string
	packages.Visit(roots, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
		if p.Types != nil {
			loaded[p.PkgPath] = p.Types
		}
	})
	require.Empty(t, loadErrs)

	imp := importerFunc(func(path string) (*types.Package, error) {
		if pkg, ok := loaded[path]; ok {
			return pkg, nil
		}
		return nil, fmt.Errorf("package %s is not loaded", path)
	})

	file, err := parser.ParseFile(fset, "gin.go", ginSource, 0)
	require.NoError(t, err)
	gin, err := (&types.Config{Importer: imp}).Check("github.com/gin-gonic/gin", fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	loaded[gin.Path()] = gin

	return imp
}

// typeCheck type-checks the package in dir, generated files included.
func typeCheck(t *testing.T, imp types.Importer, fset *token.FileSet, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, 0)
		require.NoError(t, err)
		files = append(files, f)
	}
	require.NotEmpty(t, files)

	var typeErrs []string
	conf := &types.Config{
		Importer: imp,
		Error: func(err error) {
			typeErrs = append(typeErrs, err.Error())
		},
	}
	_, _ = conf.Check(files[0].Name.Name, fset, files, nil)
	assert.Empty(t, typeErrs)
}

// copyFixture copies a testdata package into a temporary directory.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join("../../testdata", name)
	dst := filepath.Join(t.TempDir(), name)
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

func TestGen_GeneratedCodeTypeChecks(t *testing.T) {
	fset := token.NewFileSet()
	imp := runtimeImporter(t, fset)

	tests := []struct {
		fixture string
		service string
	}{
		{fixture: "users", service: "UserService"},
		{fixture: "catalog", service: "CatalogService"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			// Arrange
			dir := copyFixture(t, tt.fixture)
			config := &Config{
				SearchDir:   dir,
				MainAPIFile: "api.go",
				OutputDir:   filepath.Join(dir, "..", "apidocs"),
				OutputTypes: []string{"json"},
				Clients:     []string{"go", "typescript"},
			}

			// Act
			err := New().Build(config)
			require.NoError(t, err)
			factory := fmt.Sprintf(factorySource, tt.fixture, tt.service, tt.service)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "factory.go"), []byte(factory), 0o644))

			// Assert
			assert.FileExists(t, filepath.Join(dir, RoutesFile))
			assert.FileExists(t, filepath.Join(dir, "client_gen.go"))
			typeCheck(t, imp, fset, dir)
		})
	}
}

func TestGen_CatalogRoutes(t *testing.T) {
	// Arrange
	dir := copyFixture(t, "catalog")
	config := &Config{
		SearchDir:   dir,
		OutputDir:   filepath.Join(dir, "..", "apidocs"),
		OutputTypes: []string{"json"},
		Clients:     []string{"go", "typescript"},
	}

	// Act
	err := New().Build(config)

	// Assert
	require.NoError(t, err)
	routes, err := os.ReadFile(filepath.Join(dir, RoutesFile))
	require.NoError(t, err)
	assert.Contains(t, string(routes), `httpkit.Optional(httpkit.NumberAs[Level])(c.GetQuery("level"))`)
	assert.Contains(t, string(routes), `httpkit.NumberAs[uint16](c.Param("id"))`)
	assert.Contains(t, string(routes), `maybeId2, err := httpkit.NumberAs[int32](c.Query("Id"))`)

	client, err := os.ReadFile(filepath.Join(dir, "client_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "Search(ctx context.Context, query2 string, level Level, out2 uint8, c2 bool) ([]Item, error)")

	ts, err := os.ReadFile(filepath.Join(config.OutputDir, "client_gen.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(ts), "async rename(err: number, res: Item): Promise<Item> {")
	assert.Contains(t, string(ts), "const res2 = await this.http.put<Item>(")
}
