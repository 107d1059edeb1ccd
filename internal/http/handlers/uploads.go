package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ihuusa2/ihu-usa-sub002/internal/storage"
)

// AdminUpload stores a multipart "file" image and returns its hosted URL.
func (a *App) AdminUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(storage.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds 10 MiB")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "multipart form expected")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "file is empty")
		return
	}
	if len(data) > storage.MaxUploadBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds 10 MiB")
		return
	}
	stored, err := a.Media.SaveImage(r.Context(), data)
	if errors.Is(err, storage.ErrEmptyUpload) {
		a.error(w, http.StatusBadRequest, "bad_request", "file is empty")
		return
	}
	if errors.Is(err, storage.ErrUnsupportedMedia) {
		a.error(w, http.StatusUnsupportedMediaType, "unsupported_media", "only images can be uploaded")
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("key", stored.Key).Str("mime", stored.MIME).Int("size", stored.Size).Msg("upload stored")
	a.json(w, http.StatusCreated, stored)
}
