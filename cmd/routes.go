package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	router.HandlerFunc(http.MethodGet, "/health", app.healthcheck)

	// Public content surface
	router.HandlerFunc(http.MethodGet, "/api/posts", app.listPosts)
	router.HandlerFunc(http.MethodGet, "/api/post", app.getPost)
	router.HandlerFunc(http.MethodGet, "/api/categories", app.listCategories)

	// Authoring surface
	router.HandlerFunc(http.MethodPost, "/api/posts", app.savePost)
	router.HandlerFunc(http.MethodDelete, "/api/posts", app.deletePost)
	router.HandlerFunc(http.MethodPost, "/api/upload", app.uploadFile)

	// Accounts
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUser)
	router.HandlerFunc(http.MethodPost, "/api/users/login", app.login)

	// Admin approval workflow
	router.HandlerFunc(http.MethodGet, "/api/admin/users", app.requireAdmin(app.listUsers))
	router.HandlerFunc(http.MethodPost, "/api/admin/users", app.requireAdmin(app.processApproval))
	router.HandlerFunc(http.MethodPatch, "/api/admin/users", app.requireAdmin(app.changeUserRole))

	return app.recoverPanic(app.authenticate(router))
}

func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	if err := app.writeJSON(w, http.StatusOK, envelope{"status": "available"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
