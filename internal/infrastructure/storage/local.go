package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LocalPhotoStorage writes photos to a directory served by the HTTP server
type LocalPhotoStorage struct {
	fs           afero.Fs
	publicPrefix string
	maxSize      int64
	logger       *zap.Logger
}

// NewLocalPhotoStorage stores photos under dir on the OS file system
func NewLocalPhotoStorage(dir, publicPrefix string, maxSize int64, logger *zap.Logger) (*LocalPhotoStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return NewLocalPhotoStorageFs(afero.NewBasePathFs(osFs, dir), publicPrefix, maxSize, logger), nil
}

// NewLocalPhotoStorageFs stores photos at the root of fsys
func NewLocalPhotoStorageFs(fsys afero.Fs, publicPrefix string, maxSize int64, logger *zap.Logger) *LocalPhotoStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalPhotoStorage{
		fs:           fsys,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		maxSize:      maxSize,
		logger:       logger,
	}
}

// Save implements PhotoStorage
func (s *LocalPhotoStorage) Save(_ context.Context, upload Upload) (string, error) {
	data, _, err := ReadPhoto(upload, s.maxSize)
	if err != nil {
		return "", err
	}

	name := NewObjectName(upload.Filename)
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	s.logger.Debug("Photo stored", zap.String("name", name), zap.Int("size", len(data)))
	return s.publicPrefix + "/" + name, nil
}

// Open implements PhotoStorage
func (s *LocalPhotoStorage) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	name, ok := s.nameOf(ref)
	if !ok {
		return nil, ErrPhotoNotFound
	}
	f, err := s.fs.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	return f, nil
}

// Delete implements PhotoStorage
func (s *LocalPhotoStorage) Delete(_ context.Context, ref string) error {
	name, ok := s.nameOf(ref)
	if !ok {
		return nil
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// nameOf maps a public reference back to a file name, refusing anything outside the root
func (s *LocalPhotoStorage) nameOf(ref string) (string, bool) {
	name := strings.TrimPrefix(ref, s.publicPrefix+"/")
	if name == "" || name == "." || name == ".." || name != path.Base(name) {
		return "", false
	}
	return name, true
}

var _ PhotoStorage = (*LocalPhotoStorage)(nil)
