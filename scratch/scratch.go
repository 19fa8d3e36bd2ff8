package scratch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyName is returned when a suggested file name sanitizes to nothing.
var ErrEmptyName = errors.New("suggested name sanitizes to empty")

// Store is one scratch namespace for request-scoped files. Separate stores
// are used for document uploads and audio so the two flows cannot collide
// on file names.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Handle points at one staged or allocated scratch file.
type Handle struct {
	path string
}

func (h *Handle) Path() string {
	return h.path
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Stage writes data to a uniquely named file inside the store and returns a
// handle to it. The caller owns the handle and must Release it on every exit
// path.
func (s *Store) Stage(data []byte, suggestedName string) (*Handle, error) {
	h, err := s.Allocate(suggestedName)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(h.path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", suggestedName, err)
	}
	s.logger.Debug("Staged scratch file",
		slog.String("path", h.path),
		slog.Int("size", len(data)))
	return h, nil
}

// Allocate reserves a unique path inside the store without creating the
// file, for stages whose external tool writes the file itself. Release works
// the same as for staged files.
func (s *Store) Allocate(suggestedName string) (*Handle, error) {
	name, err := sanitizeName(suggestedName)
	if err != nil {
		return nil, err
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return &Handle{path: filepath.Join(s.dir, fmt.Sprintf("%s_%s", token, name))}, nil
}

// Release removes the underlying file. Releasing a handle whose file was
// never written (or already removed) is not an error.
func (s *Store) Release(h *Handle) error {
	if h == nil {
		return nil
	}
	err := os.Remove(h.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("Failed to release scratch file",
			slog.String("path", h.path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to release %s: %w", h.path, err)
	}
	return nil
}

// sanitizeName strips path separators and control characters from a
// client-supplied file name. Names that sanitize to empty (or to a relative
// path component) are rejected.
func sanitizeName(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		if r == '/' || r == '\\' || r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "", fmt.Errorf("%w: %q", ErrEmptyName, name)
	}
	return out, nil
}
