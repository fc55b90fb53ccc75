package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/bokjinews/blog/internal/auth"
	"github.com/bokjinews/blog/internal/core"
	"github.com/bokjinews/blog/models"
)

// authenticate resolves an optional bearer token into the authenticated
// user. With a database the profile row is the source of truth for the
// current role; in file mode the claims themselves are used.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Bearer" {
				app.invalidAuthenticationTokenResponse(w, r, xerrors.New("Authentication header must be in the format 'Bearer <token>'"))
				return
			}
			token := authorizationParts[1]
			claim, err := app.auth.Authenticate(token)
			if err != nil {
				app.invalidAuthenticationTokenResponse(w, r, err)
				return
			}

			user := &auth.User{
				Email: claim.Email,
				Name:  claim.Name,
				Role:  claim.Role,
			}

			if app.users != nil {
				user, err = app.users.GetProfileByEmail(r.Context(), claim.Email)
				if err != nil {
					if errors.Is(err, core.NoRecordFound) {
						app.invalidAuthenticationTokenResponse(w, r, err)
						return
					}
					app.internalErrorResponse(w, r, err)
					return
				}
			}

			user.Token = token
			r = app.auth.SetAuthenticatedUser(r, user)
		}

		next.ServeHTTP(w, r)
	})
}

// requireAdmin verifies the admin role server-side on every request.
func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := app.auth.GetAuthenticatedUser(r)
		if err != nil {
			app.authenticationRequiredResponse(w, r, xerrors.Newf("authentication required"))
			return
		}

		if user.Role != models.RoleAdmin {
			app.notPermittedResponse(w, r, "Administrator privileges are required.")
			return
		}

		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
