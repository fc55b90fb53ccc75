// Package categories holds the fixed welfare-news category taxonomy and
// decides whether a post belongs to a requested category. A post's
// category field is free text, so matching runs against the normalized
// label, the slug itself, or any alias.
package categories

import (
	"github.com/bokjinews/blog/internal/utils/stringutils"
	"github.com/bokjinews/blog/models"
)

type Category struct {
	Slug    string   `json:"slug"`
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
}

var taxonomy = []Category{
	{Slug: "children-teen", Label: "아동/청소년", Aliases: []string{"아동", "청소년", "아동-청소년"}},
	{Slug: "youth", Label: "청년"},
	{Slug: "middle-elderly", Label: "중장년/노인", Aliases: []string{"중장년", "노인", "중장년-노인"}},
	{Slug: "women", Label: "여성"},
	{Slug: "disabled", Label: "장애인", Aliases: []string{"장애", "장애우"}},
}

// All returns the taxonomy in display order.
func All() []Category {
	result := make([]Category, len(taxonomy))
	copy(result, taxonomy)
	return result
}

func BySlug(slug string) (Category, bool) {
	normalized := stringutils.Normalize(slug)
	for _, category := range taxonomy {
		if category.Slug == normalized {
			return category, true
		}
	}
	return Category{}, false
}

// Matches reports whether post belongs to the category identified by
// categorySlug. An unknown slug or a post without a category never
// matches.
func Matches(post models.Post, categorySlug string) bool {
	category, ok := BySlug(categorySlug)
	if !ok {
		return false
	}

	postCategory := stringutils.Normalize(post.Category)
	if postCategory == "" {
		return false
	}

	if postCategory == stringutils.Normalize(category.Label) {
		return true
	}
	if postCategory == category.Slug {
		return true
	}
	for _, alias := range category.Aliases {
		if postCategory == stringutils.Normalize(alias) {
			return true
		}
	}
	return false
}
