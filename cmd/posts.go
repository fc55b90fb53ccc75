package main

import (
	"errors"
	"net/http"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/categories"
	"github.com/bokjinews/blog/internal/content"
	"github.com/bokjinews/blog/internal/utils/functional"
	"github.com/bokjinews/blog/internal/validator"
	"github.com/bokjinews/blog/models"
)

func (app *application) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := app.resolver.ListPosts(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// An unknown category slug matches nothing rather than everything.
	if categorySlug := app.readString(r.URL.Query(), "category", ""); categorySlug != "" {
		posts = functional.Filter(posts, func(post models.Post) bool {
			return categories.Matches(post, categorySlug)
		})
		if posts == nil {
			posts = []models.Post{}
		}
	}

	if err := app.writeJSON(w, http.StatusOK, posts, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getPost(w http.ResponseWriter, r *http.Request) {
	slug := app.readString(r.URL.Query(), "slug", "")
	if slug == "" {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "slug required"})
		return
	}

	post, err := app.resolver.GetPost(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, post, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) savePost(w http.ResponseWriter, r *http.Request) {
	type savePostPayload struct {
		Slug        string             `json:"slug"`
		Frontmatter models.Frontmatter `json:"frontmatter"`
		Content     string             `json:"content"`
	}

	var requestPayload savePostPayload

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(requestPayload.Slug, "slug", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	// Writing to the database stamps the author, so it needs a login;
	// the file store does not.
	var author *auth.User
	if app.resolver.HasHostedStore() {
		user, err := app.auth.GetAuthenticatedUser(r)
		if err != nil {
			app.authenticationRequiredResponse(w, r, err)
			return
		}
		author = user
	}

	slug, err := app.resolver.SavePost(r.Context(), requestPayload.Slug, requestPayload.Frontmatter, requestPayload.Content, author)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"slug": slug}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deletePost(w http.ResponseWriter, r *http.Request) {
	slug := app.readString(r.URL.Query(), "slug", "")
	if slug == "" {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "slug required"})
		return
	}

	if err := app.resolver.DeletePost(r.Context(), slug); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"ok": true}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listCategories(w http.ResponseWriter, r *http.Request) {
	if err := app.writeJSON(w, http.StatusOK, categories.All(), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
