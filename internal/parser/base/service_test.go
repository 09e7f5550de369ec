package base

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-endpoints/internal/document"
)

func TestParseGeneralInfo(t *testing.T) {
	t.Parallel()

	t.Run("parse title, version, and description", func(t *testing.T) {
		service := NewService()

		comments := []string{
			"@title Test API",
			"@version 1.0.0",
			"@description This is a test API",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "Test API", service.Info().Info.Title)
		assert.Equal(t, "1.0.0", service.Info().Info.Version)
		assert.Equal(t, "This is a test API", service.Info().Info.Description)
	})

	t.Run("parse multiline description", func(t *testing.T) {
		service := NewService()

		comments := []string{
			"@description Line 1",
			"@description Line 2",
			"@description Line 3",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "Line 1\nLine 2\nLine 3", service.Info().Info.Description)
	})

	t.Run("parse termsOfService and basePath", func(t *testing.T) {
		service := NewService()

		comments := []string{
			"@termsOfService http://example.com/terms",
			"@BasePath /api/",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, "http://example.com/terms", service.Info().Info.TermsOfService)
		assert.Equal(t, "/api/", service.Info().Info.BasePath)
	})
}

func TestParseTagInfo(t *testing.T) {
	t.Parallel()

	t.Run("parse multiple tags", func(t *testing.T) {
		service := NewService()

		comments := []string{
			"@tag.description orphan",
			"@tag.name users",
			"@tag.description User operations",
			"@tag.name devices",
		}

		err := service.ParseGeneralInfo(comments)
		assert.NoError(t, err)
		assert.Equal(t, []Tag{
			{Name: "users", Description: "User operations"},
			{Name: "devices"},
		}, service.Info().Tags)
	})

	t.Run("tag description from markdown", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "users.md"), []byte("# Users"), 0o644))
		service := NewService()
		service.SetMarkdownFileDir(dir)

		err := service.ParseGeneralInfo([]string{"@tag.name users", "@tag.description.markdown"})

		require.NoError(t, err)
		assert.Equal(t, "# Users", service.Info().Tags[0].Description)
	})

	t.Run("missing markdown file", func(t *testing.T) {
		service := NewService()
		service.SetMarkdownFileDir(t.TempDir())

		err := service.ParseGeneralInfo([]string{"@description.markdown"})

		assert.Error(t, err)
	})
}

func TestParseGeneralAPIInfo(t *testing.T) {
	t.Parallel()

	t.Run("main api file", func(t *testing.T) {
		// Arrange
		service := NewService()
		doc := document.New(document.Info{Title: "from config"})

		// Act
		err := service.ParseGeneralAPIInfo("../../../testdata/users/api.go")
		require.NoError(t, err)
		service.Info().Apply(doc)

		// Assert
		swagger := doc.Swagger()
		assert.Equal(t, "Users API", swagger.Info.Title)
		assert.Equal(t, "1.2.0", swagger.Info.Version)
		assert.Equal(t, "Manages users and their devices.", swagger.Info.Description)
		assert.Equal(t, "https://example.com/terms", swagger.Info.TermsOfService)
		assert.Equal(t, "/v1/", swagger.BasePath)
		require.Len(t, swagger.Tags, 1)
		assert.Equal(t, "users", swagger.Tags[0].Name)
		assert.Equal(t, "User management", swagger.Tags[0].Description)
	})

	t.Run("endpoint comments are not general info", func(t *testing.T) {
		assert.False(t, isGeneralAPIComment([]string{"GetUser returns one user.", "@alias users", "@description one"}))
		assert.True(t, isGeneralAPIComment([]string{"@title API"}))
	})

	t.Run("unreadable file", func(t *testing.T) {
		err := NewService().ParseGeneralAPIInfo("does-not-exist.go")
		assert.Error(t, err)
	})
}

func TestFieldsByAnySpace(t *testing.T) {
	assert.Equal(t, []string{"@title", "My  API"}, FieldsByAnySpace("@title \t My  API", 2))
	assert.Equal(t, []string{"@service"}, FieldsByAnySpace("@service", 2))
	assert.Equal(t, []string{"a", "b", "c"}, FieldsByAnySpace("a b  c", 0))
	assert.Equal(t, []string{""}, FieldsByAnySpace("   ", 2))
}
