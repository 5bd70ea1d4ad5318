// Package fsutil provides the file primitives mdlive needs around documents
// and configuration files: content snapshots for change detection, atomic
// writes, and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is. The underlying
// os error is wrapped too, so fs.ErrNotExist and fs.ErrPermission match.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// Snapshot captures the state of a file when it was read.
type Snapshot struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// Same reports whether both snapshots saw identical content.
func (s *Snapshot) Same(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Size == other.Size && s.Hash == other.Hash
}

// ReadFile reads a file and returns its content with a snapshot of it.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// Modified reports whether the file changed since the snapshot was taken.
// A quick mod time and size comparison is confirmed by rehashing.
func (s *Snapshot) Modified(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if !stat.ModTime().Equal(s.ModTime) || stat.Size() != s.Size {
		return true, nil
	}

	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(content) != s.Hash, nil
}

// IsNotFound reports whether err means the file does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
