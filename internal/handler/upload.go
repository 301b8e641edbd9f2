package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/tastehub/api/internal/storage"
)

// multipartOverhead leaves room for text fields next to the image.
const multipartOverhead = 1 << 20

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// saveUploadedImage parses the multipart form and stores its "image" file.
// It returns an empty URL when no file was sent. A non-zero status means the
// request must be rejected with msg.
func saveUploadedImage(r *http.Request, files storage.FileStore, folder string) (url string, status int, msg string) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(storage.MaxImageSize + multipartOverhead); err != nil {
			return "", http.StatusBadRequest, "invalid multipart form"
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", 0, ""
		}
		return "", http.StatusBadRequest, "invalid image upload"
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, header.Size); err != nil {
		return "", http.StatusBadRequest, err.Error()
	}

	url, err = files.Save(r.Context(), folder, contentType, file)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
			return "", http.StatusBadRequest, err.Error()
		}
		internalErrorLog("save upload", err)
		return "", http.StatusInternalServerError, "internal server error"
	}
	return url, 0, ""
}
