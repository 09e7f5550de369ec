package orchestrator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/provider"
)

const usersDir = "../../testdata/users"

func TestNew(t *testing.T) {
	t.Run("creates orchestrator with default config", func(t *testing.T) {
		// Act
		service, err := New(nil)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, service.loader)
		assert.NotNil(t, service.baseParser)
		assert.Equal(t, "camelcase", service.config.PropNamingStrategy)
		assert.Equal(t, ".go", service.config.ParseExtension)
		assert.Empty(t, service.Clients())
		assert.Equal(t, document.DefaultBasePath, service.Document().BasePath())
	})

	t.Run("client targets are deduplicated", func(t *testing.T) {
		service, err := New(&Config{Clients: []string{"ts", "typescript", "go"}})
		require.NoError(t, err)
		assert.Len(t, service.Clients(), 2)
	})

	t.Run("unknown client target", func(t *testing.T) {
		_, err := New(&Config{Clients: []string{"cobol"}})
		assert.Error(t, err)
	})
}

func TestService_Parse(t *testing.T) {
	t.Run("compiles the users service", func(t *testing.T) {
		// Arrange
		service, err := New(&Config{Clients: []string{"typescript", "go"}})
		require.NoError(t, err)

		// Act
		out, err := service.Parse([]string{usersDir}, "api.go", 0)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, out.Failures)
		assert.Equal(t, 7, out.Compiled)
		assert.Equal(t, 2, out.Skipped)
		assert.Len(t, out.Methods, 9)

		require.Len(t, out.Packages, 1)
		pkg := out.Packages[0]
		assert.Equal(t, "users", pkg.Name)
		require.Len(t, pkg.Routes, 7)
		assert.Equal(t, `app.GET("/v1/hello/:name", guarded(handleUserServiceHello))`, pkg.Routes[0].Registration)
		assert.Equal(t, `app.GET("/v1/users", guarded(handleUserServiceListUsers))`, pkg.Routes[2].Registration)
		assert.Equal(t, `app.DELETE("/v1/users/:id/devices/:deviceID", guarded(handleUserServiceRemoveDevice))`, pkg.Routes[5].Registration)
		require.Len(t, pkg.Clients["typescript"], 1)
		assert.Len(t, pkg.Clients["typescript"][0].Methods, 7)
		assert.Len(t, pkg.Clients["go"][0].Methods, 7)

		swagger := service.GetSwagger()
		assert.Equal(t, "Users API", swagger.Info.Title)
		assert.Equal(t, "/v1/", swagger.BasePath)
		assert.Len(t, swagger.Paths.Paths, 6)
		assert.NotNil(t, swagger.Paths.Paths["/users"].Get)
		assert.NotNil(t, swagger.Paths.Paths["/users"].Post)
		assert.NotNil(t, swagger.Paths.Paths["/users/{id}/devices"].Put)
		assert.NotNil(t, swagger.Paths.Paths["/avatar"].Post)
		assert.Len(t, swagger.Definitions, 7)
		require.Len(t, swagger.Tags, 1)
		assert.Equal(t, "User management", swagger.Tags[0].Description)
	})

	t.Run("configured info wins over annotations", func(t *testing.T) {
		service, err := New(&Config{Info: document.Info{BasePath: "/api/", Title: "Override"}})
		require.NoError(t, err)

		out, err := service.Parse([]string{usersDir}, "api.go", 0)

		require.NoError(t, err)
		assert.Equal(t, "Override", service.GetSwagger().Info.Title)
		assert.Equal(t, "1.2.0", service.GetSwagger().Info.Version)
		assert.Equal(t, `app.GET("/api/hello/:name", guarded(handleUserServiceHello))`, out.Packages[0].Routes[0].Registration)
	})

	t.Run("parse is repeatable", func(t *testing.T) {
		service, err := New(nil)
		require.NoError(t, err)

		_, err = service.Parse([]string{usersDir}, "api.go", 0)
		require.NoError(t, err)
		first := len(service.GetSwagger().Paths.Paths)
		_, err = service.Parse([]string{usersDir}, "api.go", 0)
		require.NoError(t, err)

		assert.Equal(t, first, len(service.GetSwagger().Paths.Paths))
	})

	t.Run("failing methods are skipped unless strict", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		src := `package api

// @service
type API struct{}

// @alias items
func (a API) List(page int) []Item { return nil }

// @method fetch
func (a API) Broken() {}

func (a API) Unsupported(m map[string]int) {}

type Item struct {
	Name string ` + "`json:\"name\"`" + `
}
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "api.go"), []byte(src), 0o644))

		// Act
		service, err := New(nil)
		require.NoError(t, err)
		out, err := service.Parse([]string{dir}, "api.go", 0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, out.Compiled)
		require.Len(t, out.Failures, 2)
		assert.True(t, errors.Is(out.Failures[0], domain.ErrUnsupportedType))
		assert.True(t, errors.Is(out.Failures[1], domain.ErrInvalidVerb))

		strict, err := New(&Config{Strict: true})
		require.NoError(t, err)
		_, err = strict.Parse([]string{dir}, "api.go", 0)
		assert.Error(t, err)
	})

	t.Run("strict rejects unknown models", func(t *testing.T) {
		dir := t.TempDir()
		src := "package api\n\n// @service\ntype API struct{}\n\nfunc (a API) Get() Missing { return Missing{} }\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "api.go"), []byte(src), 0o644))

		lenient, err := New(nil)
		require.NoError(t, err)
		out, err := lenient.Parse([]string{dir}, "", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Compiled)

		strict, err := New(&Config{Strict: true})
		require.NoError(t, err)
		_, err = strict.Parse([]string{dir}, "", 0)
		assert.True(t, errors.Is(err, domain.ErrUnknownModel))
	})
}

func TestService_CompileManifest(t *testing.T) {
	t.Run("manifest compiles like the sources", func(t *testing.T) {
		// Arrange
		service, err := New(&Config{Clients: []string{"typescript"}})
		require.NoError(t, err)
		parsed, err := service.Parse([]string{usersDir}, "api.go", 0)
		require.NoError(t, err)
		manifest := provider.NewManifest(parsed.Methods, parsed.Store)
		b, err := manifest.Marshal()
		require.NoError(t, err)
		loaded, err := provider.ParseManifest(b)
		require.NoError(t, err)

		fresh, err := New(&Config{Clients: []string{"typescript"}})
		require.NoError(t, err)

		// Act
		out, err := fresh.CompileManifest(loaded, "out", "api")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, parsed.Compiled, out.Compiled)
		require.Len(t, out.Packages, 1)
		assert.Equal(t, "api", out.Packages[0].Name)
		assert.Equal(t, "out", out.Packages[0].Dir)
		assert.Equal(t, len(service.GetSwagger().Paths.Paths), len(fresh.GetSwagger().Paths.Paths))
		assert.Equal(t, len(service.GetSwagger().Definitions), len(fresh.GetSwagger().Definitions))
	})
}
