package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedExtensions lists the accepted photo file extensions
var AllowedExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// DefaultMaxPhotoSize is the per-file limit when none is configured
const DefaultMaxPhotoSize int64 = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Photo validation errors
var (
	ErrMissingFile   = shared.NewDomainError("INVALID_FILE", "File name is missing")
	ErrFileType      = shared.NewDomainError("INVALID_FILE_TYPE", "File type not allowed. Allowed: "+strings.Join(AllowedExtensions, ", "))
	ErrFileTooLarge  = shared.NewDomainError("FILE_TOO_LARGE", "File is too large")
	ErrInvalidPhoto  = shared.NewDomainError("INVALID_FILE_TYPE", "File content is not a supported image")
	ErrPhotoNotFound = shared.NewDomainError("NOT_FOUND", "Photo not found")
)

// Extension returns the lower-case extension of filename without the dot
func Extension(filename string) string {
	ext := path.Ext(strings.ReplaceAll(filename, "\\", "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ValidateUpload checks the name, declared size and extension of an upload
func ValidateUpload(u Upload, maxSize int64) error {
	if strings.TrimSpace(u.Filename) == "" {
		return ErrMissingFile
	}
	if !slices.Contains(AllowedExtensions, Extension(u.Filename)) {
		return ErrFileType
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxPhotoSize
	}
	if u.Size > maxSize {
		return tooLarge(maxSize)
	}
	return nil
}

// ReadPhoto reads an upload fully, enforcing maxSize on the actual bytes and
// sniffing the content so a renamed non-image is rejected.
// It returns the data and the detected content type.
func ReadPhoto(u Upload, maxSize int64) ([]byte, string, error) {
	if err := ValidateUpload(u, maxSize); err != nil {
		return nil, "", err
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxPhotoSize
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(u.Body, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n > maxSize {
		return nil, "", tooLarge(maxSize)
	}

	data := buf.Bytes()
	contentType := http.DetectContentType(data)
	if !allowedContentTypes[contentType] {
		return nil, "", ErrInvalidPhoto
	}
	return data, contentType, nil
}

// NewObjectName returns a random file name keeping the upload's extension
func NewObjectName(filename string) string {
	ext := Extension(filename)
	if ext == "jpeg" {
		ext = "jpg"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}

func tooLarge(maxSize int64) error {
	return shared.NewDomainError(ErrFileTooLarge.Code,
		fmt.Sprintf("File is too large. Maximum size: %dMB", maxSize>>20))
}
