package main

import (
	"errors"
	"net/http"

	"github.com/bokjinews/blog/internal/storage"
)

func (app *application) uploadFile(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around a max-size file.
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxFileSize+1_048_576)

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "No file provided",
			ErrorStack:   err,
		})
		return
	}
	defer file.Close()

	result, err := app.uploads.Save(header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge),
			errors.Is(err, storage.ErrUnsupportedType),
			errors.Is(err, storage.ErrBadExtension):
			app.badRequestResponse(w, r, &AppError{
				ErrorMessage: err.Error(),
				ErrorStack:   err,
			})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, result, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
