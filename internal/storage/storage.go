// Package storage persists uploaded images and returns the URL clients use
// to fetch them.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("only jpeg, png, gif and webp images are allowed")
	ErrTooLarge        = errors.New("image exceeds 10MB")
	ErrInvalidDataURL  = errors.New("invalid image data URL")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FileStore saves an image under folder and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, folder, contentType string, r io.Reader) (string, error)
}

// ValidateImage checks the declared content type and size of an upload.
func ValidateImage(contentType string, size int64) error {
	if _, ok := imageExtensions[normalizeType(contentType)]; !ok {
		return ErrUnsupportedType
	}
	if size > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

// objectName returns a fresh, collision-free key like "menu/3f2c….png".
func objectName(folder, contentType string) string {
	return path.Join(folder, uuid.NewString()+imageExtensions[normalizeType(contentType)])
}

func normalizeType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

// ParseDataURL decodes a base64 "data:image/...;base64,..." string.
func ParseDataURL(s string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidDataURL
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if err := ValidateImage(contentType, int64(len(data))); err != nil {
		return "", nil, err
	}
	return normalizeType(contentType), data, nil
}
