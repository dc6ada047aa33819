package goquery_test

import (
	"testing"

	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/goquery"
	"github.com/diogo-cruz/aisafety/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identifier string
		want       string
	}{
		{"metr", "metr"},
		{"METR", "metr"},
		{" apollo ", "apollo"},
		{"https://metr.org/blog/2024-01-01-post", "metr"},
		{"metr.org", "metr"},
		{"www.lakera.ai", "lakera"},
		{"aisi", "aisi"},
		{"UK AISI", "aisi"},
		{"https://www.nist.gov/aisi", "nist"},
		{"nist aisi", "nist"},
		{"canada aisi", "canada"},
		{"ised", "canada"},
		{"humancompatible", "chai"},
		{"https://humancompatible.ai/research", "chai"},
		{"google deepmind", "deepmind"},
		{"anthropic.com", "anthropic"},
		{"cser", "cser"},
	}

	registry := goquery.DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			t.Parallel()

			got, err := registry.Resolve(tt.identifier)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestRegistry_ResolveErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown publisher is unsupported", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.DefaultRegistry().Resolve("unknown.example")

		require.Error(t, err)
		assert.Equal(t, aisafety.EUNSUPPORTED, aisafety.ErrorCode(err))
		assert.Contains(t, aisafety.ErrorMessage(err), "unknown.example")
	})

	t.Run("empty identifier is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.DefaultRegistry().Resolve("  ")

		assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	})

	t.Run("resolves only registered publishers", func(t *testing.T) {
		t.Parallel()

		registry := goquery.NewRegistry()
		registry.Register(goquery.NewMetr())

		_, err := registry.Resolve("apollo")

		assert.Equal(t, aisafety.EUNSUPPORTED, aisafety.ErrorCode(err))
	})
}

func TestNewAdapter(t *testing.T) {
	t.Parallel()

	t.Run("resolves against the default registry", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewAdapter("https://www.anthropic.com/research")

		require.NoError(t, err)
		assert.Equal(t, "anthropic", got.Name())
		assert.Equal(t, "https://www.anthropic.com", got.BaseURL())
	})

	t.Run("unknown publishers fail before any request", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewAdapter("unknown.example")

		assert.Equal(t, aisafety.EUNSUPPORTED, aisafety.ErrorCode(err))
	})
}

func TestRegistry_List(t *testing.T) {
	t.Parallel()

	t.Run("lists publishers in registration order", func(t *testing.T) {
		t.Parallel()

		got := goquery.DefaultRegistry().List()

		assert.Equal(t, []string{
			"metr", "aisi", "lakera", "nist", "canada",
			"apollo", "anthropic", "deepmind", "cser", "chai",
		}, got)
	})

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		registry := goquery.DefaultRegistry()
		names := registry.List()
		names[0] = "changed"

		assert.Equal(t, "metr", registry.List()[0])
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("replaces an adapter with the same name in place", func(t *testing.T) {
		t.Parallel()

		// Given the default registry
		registry := goquery.DefaultRegistry()
		replacement := &mock.Adapter{
			NameFn:    func() string { return "nist" },
			BaseURLFn: func() string { return "https://example.org" },
		}

		// When an adapter named like an existing one is registered
		registry.Register(replacement)

		// Then it replaces the original without moving
		assert.Same(t, replacement, registry.Get("nist"))
		assert.Equal(t, "nist", registry.List()[3])
		assert.Len(t, registry.List(), 10)
	})

	t.Run("get returns nil for unknown names", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, goquery.NewRegistry().Get("metr"))
	})
}
