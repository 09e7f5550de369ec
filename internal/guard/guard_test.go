package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/griffnb/core-endpoints/internal/codewriter"
	"github.com/griffnb/core-endpoints/internal/domain"
)

func TestBindingName(t *testing.T) {
	assert.Equal(t, "maybeId", BindingName("id"))
	assert.Equal(t, "maybeUserID", BindingName("userID"))
	assert.NotEqual(t, BindingName("a"), BindingName("b"))
}

func TestUnique(t *testing.T) {
	// Arrange
	number := domain.Primitive(domain.NUMBER)
	vs := []Validator{
		Plan("id", `c.Param("id")`, number, false),
		Plan("Id", `c.Query("Id")`, number, false),
		Plan("id2", `c.Query("id2")`, number, false),
		Plan("ID", `c.Query("ID")`, number, false),
	}

	// Act
	Unique(vs)

	// Assert
	bound := make([]string, 0, len(vs))
	for _, v := range vs {
		bound = append(bound, v.Bound)
	}
	assert.Equal(t, []string{"maybeId", "maybeId2", "maybeId22", "maybeID"}, bound)
}

func TestWrite(t *testing.T) {
	t.Run("required number", func(t *testing.T) {
		// Arrange
		w := codewriter.New("\t")
		v := Plan("id", `c.Param("id")`, domain.Primitive(domain.NUMBER), false)

		// Act
		arg := Write(w, v)

		// Assert
		assert.Equal(t, "maybeId", arg)
		assert.Equal(t, "maybeId, err := httpkit.Number(c.Param(\"id\"))\nif err != nil {\n\treturn err\n}\n", w.String())
	})

	t.Run("optional boolean", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("active", `c.GetQuery("active")`, domain.Primitive(domain.BOOLEAN).WithDisplay("bool"), true)

		arg := Write(w, v)

		assert.Equal(t, "maybeActive", arg)
		assert.Contains(t, w.String(), `maybeActive, err := httpkit.Optional(httpkit.Bool)(c.GetQuery("active"))`)
	})

	t.Run("string converts to named type", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("slug", `c.Query("slug")`, domain.Primitive(domain.STRING).WithDisplay("Slug"), false)

		arg := Write(w, v)

		assert.Equal(t, "Slug(maybeSlug)", arg)
		assert.Contains(t, w.String(), "httpkit.String(")
	})

	t.Run("sized integers are coerced into their own type", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("limit", `c.Query("limit")`, domain.Primitive(domain.NUMBER).WithDisplay("int64"), false)

		assert.Equal(t, "maybeLimit", Write(w, v))
		assert.Contains(t, w.String(), `maybeLimit, err := httpkit.NumberAs[int64](c.Query("limit"))`)
	})

	t.Run("int8 parameter never wraps around", func(t *testing.T) {
		// Arrange
		w := codewriter.New("\t")
		v := Plan("level", `c.Param("level")`, domain.Primitive(domain.NUMBER).WithDisplay("int8"), false)

		// Act
		arg := Write(w, v)

		// Assert
		assert.Equal(t, "maybeLevel", arg)
		assert.Contains(t, w.String(), `maybeLevel, err := httpkit.NumberAs[int8](c.Param("level"))`)
		assert.NotContains(t, w.String(), "int8(maybeLevel)")
	})

	t.Run("optional named number", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("level", `c.GetQuery("level")`, domain.Primitive(domain.NUMBER).WithDisplay("Level"), true)

		assert.Equal(t, "maybeLevel", Write(w, v))
		assert.Contains(t, w.String(), `maybeLevel, err := httpkit.Optional(httpkit.NumberAs[Level])(c.GetQuery("level"))`)
	})

	t.Run("plain int needs no type argument", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("page", `c.Query("page")`, domain.Primitive(domain.NUMBER).WithDisplay("int"), false)

		assert.Equal(t, "maybePage", Write(w, v))
		assert.Contains(t, w.String(), "httpkit.Number(")
	})

	t.Run("non simple emits nothing", func(t *testing.T) {
		w := codewriter.New("\t")
		v := Plan("user", "raw", domain.Named("User"), false)

		assert.Equal(t, "raw", Write(w, v))
		assert.Empty(t, w.String())
	})
}
