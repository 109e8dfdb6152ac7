// Package images provides path-addressed image file storage and cover placeholders.
package images

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// Storage manages image files under a single root directory.
// Paths passed in are relative, slash-separated storage paths such as "covers/abc.png".
// Safe for concurrent use: writes land via rename, so readers never see partial files.
type Storage struct {
	basePath string
	logger   *slog.Logger
}

// FileInfo describes a stored file.
type FileInfo struct {
	Path    string // Relative storage path
	Size    int64
	ModTime time.Time
}

// NewStorage creates a Storage rooted at basePath.
// basePath should be the storage directory (e.g., ~/ReadLog/storage).
func NewStorage(basePath string, logger *slog.Logger) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Create directory if it doesn't exist.
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Storage{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// SaveFile streams r into path, creating parent directories as needed.
// The data is written to a temp file and renamed into place.
// Writing zero bytes is a failure; no file is left behind on any failure.
func (s *Storage) SaveFile(ctx context.Context, path string, r io.Reader) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "save cancelled")
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to create directory")
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to create file")
	}
	tmpPath := tmp.Name()

	// Any early return below must remove the temp file.
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				s.logger.Warn("Failed to remove partial upload", "path", tmpPath, "error", rmErr)
			}
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to write file")
	}
	if written == 0 {
		return "", domainerrors.Storage("no bytes written for " + path)
	}

	if err := tmp.Sync(); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to sync file")
	}
	if err := tmp.Close(); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to close file")
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to set file permissions")
	}
	if err := os.Rename(tmpPath, full); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to move file into place")
	}
	committed = true

	s.logger.Debug("Stored file", "path", path, "bytes", written)
	return path, nil
}

// DeleteFile removes path. A missing file counts as deleted.
// Returns false, after logging, only when removal fails for another reason.
func (s *Storage) DeleteFile(ctx context.Context, path string) bool {
	full, err := s.resolve(path)
	if err != nil {
		s.logger.Warn("Refusing to delete file", "path", path, "error", err)
		return false
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return true
		}
		s.logger.ErrorContext(ctx, "Failed to delete file", "path", path, "error", err)
		return false
	}

	return true
}

// Open returns a reader for path. The caller must close it.
func (s *Storage) Open(path string) (*os.File, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full) //#nosec G304 -- path is confined to basePath by resolve
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.NotFoundf("file %s not found", path)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeStorage, "failed to open file")
	}
	return f, nil
}

// Exists checks if a file is stored at path.
func (s *Storage) Exists(path string) bool {
	full, err := s.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// List returns the regular files directly inside dir.
// Temp files from in-flight uploads are skipped. A missing dir yields no files.
func (s *Storage) List(dir string) ([]FileInfo, error) {
	full, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".upload-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, FileInfo{
			Path:    dir + "/" + entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// Path returns the full filesystem path for a storage path.
func (s *Storage) Path(path string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(path))
}

// resolve maps a relative storage path onto the filesystem, rejecting
// anything that would escape basePath.
func (s *Storage) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", domainerrors.Storage("path cannot be empty")
	}
	if !fs.ValidPath(path) {
		return "", domainerrors.Storage("invalid storage path " + path)
	}
	return s.Path(path), nil
}
