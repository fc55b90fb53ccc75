package main

import (
	"errors"
	"net/http"

	"github.com/bokjinews/blog/internal/core"
	"github.com/bokjinews/blog/internal/filter"
	"github.com/bokjinews/blog/internal/validator"
	"github.com/bokjinews/blog/models"
)

func (app *application) listUsers(w http.ResponseWriter, r *http.Request) {
	if app.users == nil {
		app.internalErrorResponse(w, r, errors.New("the account store is not configured"))
		return
	}

	statusFilter := filter.NewFilter(app.readString(r.URL.Query(), "status", ""))

	if v := filter.ValidateFilters(statusFilter); !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	profiles, err := app.users.ListProfiles(r.Context(), statusFilter.Status)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profiles, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) processApproval(w http.ResponseWriter, r *http.Request) {
	if app.users == nil {
		app.internalErrorResponse(w, r, errors.New("the account store is not configured"))
		return
	}

	type approvalPayload struct {
		UserID int64  `json:"userId"`
		Action string `json:"action"`
	}

	var requestPayload approvalPayload

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.Check(requestPayload.UserID != 0, "userId", "must be provided")
	v.Check(validator.In(requestPayload.Action, "approve", "reject"), "action", "must be either approve or reject")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	admin, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	status := models.ApprovalApproved
	if requestPayload.Action == "reject" {
		status = models.ApprovalRejected
	}

	profile, err := app.users.ProcessApproval(r.Context(), requestPayload.UserID, status, admin.ID)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) changeUserRole(w http.ResponseWriter, r *http.Request) {
	if app.users == nil {
		app.internalErrorResponse(w, r, errors.New("the account store is not configured"))
		return
	}

	type rolePayload struct {
		UserID int64  `json:"userId"`
		Role   string `json:"role"`
	}

	var requestPayload rolePayload

	if err := app.readJSON(w, r, &requestPayload); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.Check(requestPayload.UserID != 0, "userId", "must be provided")
	v.Check(validator.In(requestPayload.Role, models.RoleUser, models.RoleAdmin), "role", "must be either user or admin")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	admin, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	// An admin can never change their own role. This keeps at least one
	// admin able to undo a mistake.
	if requestPayload.UserID == admin.ID {
		app.notPermittedResponse(w, r, "You cannot change your own role.")
		return
	}

	profile, err := app.users.UpdateRole(r.Context(), requestPayload.UserID, requestPayload.Role)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
