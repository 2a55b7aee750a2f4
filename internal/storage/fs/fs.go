// Package fs stores full-size images and their thumbnails in two local
// directories. A stored image is addressed only by its filename; the directory
// listing is the sole record of what exists.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind selects one of the two storage directories.
type Kind int

const (
	KindFull Kind = iota
	KindThumb
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindThumb:
		return "thumb"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrNotFound    = errors.New("image not found")
	ErrInvalidName = errors.New("invalid image name")
)

type Config struct {
	FullDir  string
	ThumbDir string
}

type Storage struct {
	fullDir  string
	thumbDir string
}

// New creates both base directories when missing.
func New(cfg Config) (*Storage, error) {
	const op = "storage.fs.New"

	for _, dir := range []string{cfg.FullDir, cfg.ThumbDir} {
		if dir == "" {
			return nil, fmt.Errorf("%s: empty storage directory", op)
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{
		fullDir:  cfg.FullDir,
		thumbDir: cfg.ThumbDir,
	}, nil
}

// ValidateName rejects names that would escape or alias a storage directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

func (s *Storage) Path(kind Kind, name string) string {
	if kind == KindThumb {
		return filepath.Join(s.thumbDir, name)
	}

	return filepath.Join(s.fullDir, name)
}

// Create opens a writer for name. Nothing is visible at the final path until
// Commit, which replaces any existing file of the same name.
func (s *Storage) Create(kind Kind, name string) (*File, error) {
	const op = "storage.fs.Create"

	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	path := s.Path(kind, name)

	f, err := os.CreateTemp(filepath.Dir(path), ".upload-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &File{f: f, path: path}, nil
}

// Size returns the byte size of a stored file.
func (s *Storage) Size(kind Kind, name string) (int64, error) {
	const op = "storage.fs.Size"

	if err := ValidateName(name); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	info, err := os.Stat(s.Path(kind, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%s: %s %q: %w", op, kind, name, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return info.Size(), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Storage) Remove(kind Kind, name string) error {
	const op = "storage.fs.Remove"

	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(s.Path(kind, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Open opens a stored file for reading.
func (s *Storage) Open(kind Kind, name string) (*os.File, error) {
	const op = "storage.fs.Open"

	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(s.Path(kind, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %s %q: %w", op, kind, name, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// File is a pending write into storage.
type File struct {
	f       *os.File
	path    string
	written int64
	closed  bool
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.f.Write(p)
	f.written += int64(n)

	return n, err
}

// Written is the number of bytes written so far.
func (f *File) Written() int64 {
	return f.written
}

// Commit moves the written content to its final path.
func (f *File) Commit() error {
	const op = "storage.fs.File.Commit"

	if f.closed {
		return fmt.Errorf("%s: %w", op, os.ErrClosed)
	}
	f.closed = true

	if err := f.f.Close(); err != nil {
		_ = os.Remove(f.f.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(f.f.Name(), f.path); err != nil {
		_ = os.Remove(f.f.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close discards the pending content unless it was committed. It is safe to
// call after Commit.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.f.Close()
	if rmErr := os.Remove(f.f.Name()); rmErr != nil && err == nil {
		err = rmErr
	}

	return err
}
