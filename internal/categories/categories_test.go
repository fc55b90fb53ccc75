package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bokjinews/blog/models"
)

func TestMatches(t *testing.T) {
	t.Run("matches on the taxonomy label", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "여성"}

		assert.True(t, Matches(post, "women"))
	})

	t.Run("matches on the slug itself", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "youth"}

		assert.True(t, Matches(post, "youth"))
	})

	t.Run("matches on an alias", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "장애"}

		assert.True(t, Matches(post, "disabled"))
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "  Youth  "}

		assert.True(t, Matches(post, "YOUTH"))
	})

	t.Run("unknown category slug never matches", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "여성"}

		assert.False(t, Matches(post, "housing"))
	})

	t.Run("post without a category never matches", func(t *testing.T) {
		post := models.Post{Slug: "p"}

		assert.False(t, Matches(post, "women"))
	})

	t.Run("unrelated category does not match", func(t *testing.T) {
		post := models.Post{Slug: "p", Category: "청년"}

		assert.False(t, Matches(post, "women"))
	})
}

func TestBySlug(t *testing.T) {
	category, ok := BySlug(" Disabled ")

	assert.True(t, ok)
	assert.Equal(t, "장애인", category.Label)

	_, ok = BySlug("unknown")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	all := All()

	assert.Len(t, all, 5)
	assert.Equal(t, "children-teen", all[0].Slug)
}
