package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildUpdatePost(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("only supplied fields appear in the SET list", func(t *testing.T) {
		query, args, err := buildUpdatePost("my-slug", PostUpdate{
			Title: strPtr("New title"),
		}, now)
		require.NoError(t, err)

		assert.Contains(t, query, "title = ")
		assert.Contains(t, query, "updated_at = ")
		assert.NotContains(t, query, "content = ")
		assert.NotContains(t, query, "published_at")
		assert.Contains(t, query, "slug = ")
		assert.Contains(t, args, "New title")
		assert.Contains(t, args, "my-slug")
	})

	t.Run("publishing re-stamps published_at", func(t *testing.T) {
		query, args, err := buildUpdatePost("my-slug", PostUpdate{
			Status: strPtr("published"),
		}, now)
		require.NoError(t, err)

		assert.Contains(t, query, "status = ")
		assert.Contains(t, query, "published_at = ")
		assert.Contains(t, args, now)
	})

	t.Run("a draft status does not touch published_at", func(t *testing.T) {
		query, _, err := buildUpdatePost("my-slug", PostUpdate{
			Status: strPtr("draft"),
		}, now)
		require.NoError(t, err)

		assert.NotContains(t, query, "published_at")
	})

	t.Run("uses dollar placeholders for Postgres", func(t *testing.T) {
		query, _, err := buildUpdatePost("my-slug", PostUpdate{Title: strPtr("T")}, now)
		require.NoError(t, err)

		assert.Contains(t, query, "$1")
		assert.NotContains(t, query, "?")
	})
}
