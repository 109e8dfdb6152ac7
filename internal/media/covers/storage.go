// Package covers validates and stores book cover images.
package covers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/media/images"
)

// Dir is the storage directory holding every cover.
const Dir = "covers"

// field is the request field cover problems are reported under.
const field = "cover"

// AllowedExtensions are the accepted cover file extensions.
var AllowedExtensions = []string{"jpg", "jpeg", "png"}

// allowedMIMETypes are the accepted sniffed content types.
var allowedMIMETypes = []string{"image/jpeg", "image/png"}

// FileStore is the byte sink covers are written to.
type FileStore interface {
	SaveFile(ctx context.Context, path string, r io.Reader) (string, error)
	DeleteFile(ctx context.Context, path string) bool
}

// Storage validates cover uploads and stores them under random names.
type Storage struct {
	files FileStore
}

// NewStorage creates a cover storage on top of files.
func NewStorage(files FileStore) *Storage {
	return &Storage{files: files}
}

// Save validates the upload and stores it as covers/{uuid}.{ext}.
// Returns the relative storage path, never a URL.
func (s *Storage) Save(ctx context.Context, data []byte, fileName string) (string, error) {
	ext, err := Validate(data, fileName)
	if err != nil {
		return "", err
	}

	path := Dir + "/" + uuid.NewString() + "." + ext
	return s.files.SaveFile(ctx, path, bytes.NewReader(data))
}

// Delete removes a stored cover. Blank paths and missing files are not errors.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if !s.files.DeleteFile(ctx, path) {
		return domainerrors.Storage("failed to delete cover " + path)
	}
	return nil
}

// Validate checks a cover upload and returns its normalized extension.
func Validate(data []byte, fileName string) (string, error) {
	var fe domainerrors.FieldErrors

	ext := Extension(fileName)
	switch {
	case strings.TrimSpace(fileName) == "":
		fe.Add(field, domainerrors.FieldEmptyFileName)
	case !isAllowedExtension(ext):
		fe.Add(field, domainerrors.FieldInvalidFileExtension, extensionParams(ext)...)
	}
	if len(data) == 0 {
		fe.Add(field, domainerrors.FieldEmptyFileContent)
	}
	if err := fe.Err("invalid cover"); err != nil {
		return "", err
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedMIMETypes...) {
		return "", domainerrors.UnsupportedMediaType("cover content must be a JPEG or PNG image, got " + mt.String())
	}

	if err := images.CheckDimensions(data); errors.Is(err, images.ErrTooManyPixels) {
		fe.Add(field, domainerrors.FieldImageTooLarge, images.MaxPixels)
		return "", fe.Err("invalid cover")
	}

	return ext, nil
}

// Extension returns the lowercased text after the last "." in fileName,
// or "" when there is none.
func Extension(fileName string) string {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(fileName[i+1:]))
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// extensionParams reports the rejected extension followed by the allowed ones.
func extensionParams(ext string) []any {
	params := make([]any, 0, len(AllowedExtensions)+1)
	params = append(params, ext)
	for _, allowed := range AllowedExtensions {
		params = append(params, allowed)
	}
	return params
}
