package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-endpoints/internal/domain"
)

func TestParse(t *testing.T) {
	t.Run("annotations and text", func(t *testing.T) {
		// Arrange
		lines := []string{
			"// GetUser returns one user.",
			"// @alias users",
			"// @Method GET",
			"// @tag users",
			"// @tagdescription User management",
			"// @description first line",
			"// @description second line",
			"// @userId the user id",
			"// @nogenerate",
			"// @optional limit cursor",
			"// @error 404 NotFound",
			"// @error 409 Conflict",
		}

		// Act
		c, err := Parse(lines)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "GetUser returns one user.", c.Text)
		assert.Equal(t, "users", c.Annotations.Get(domain.TagAlias))
		assert.Equal(t, "GET", c.Annotations.Get(domain.TagMethod))
		assert.Equal(t, "User management", c.Annotations.Get(domain.TagTagDescription))
		assert.Equal(t, "first line\nsecond line", c.Annotations.Get(domain.TagDescription))
		assert.Equal(t, "the user id", c.Annotations.Get("userId"))
		assert.True(t, c.Annotations.Has(domain.TagNoGenerate))
		assert.True(t, c.IsOptional("limit"))
		assert.True(t, c.IsOptional("cursor"))
		assert.False(t, c.IsOptional("userId"))
		assert.Equal(t, domain.ErrorMap{404: "NotFound", 409: "Conflict"}, c.Errors)
		assert.False(t, c.IsService)
	})

	t.Run("block comments", func(t *testing.T) {
		c, err := Parse([]string{"/*\n * UserService serves users.\n * @service\n */"})
		require.NoError(t, err)
		assert.True(t, c.IsService)
		assert.Equal(t, "UserService serves users.", c.Text)
	})

	t.Run("bad error annotations", func(t *testing.T) {
		_, err := Parse([]string{"// @error notfound User"})
		assert.Error(t, err)

		_, err = Parse([]string{"// @error 404"})
		assert.Error(t, err)

		_, err = Parse([]string{"// @error 99 User"})
		assert.Error(t, err)
	})

	t.Run("nil group", func(t *testing.T) {
		c, err := ParseGroup(nil)
		require.NoError(t, err)
		assert.Empty(t, c.Text)
		assert.Empty(t, c.Annotations)
	})
}
