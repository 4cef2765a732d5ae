// Package artifact stores files captured during collection runs, such as
// page snapshots and debug screenshots. Bytes live on disk keyed by run ID
// and name; metadata is tracked separately in the database.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store persists run artifacts.
type Store interface {
	// Save writes data under the run's directory and returns the stored path.
	Save(runID int64, name string, data []byte) (string, error)
	// Get reads a previously saved artifact.
	Get(runID int64, name string) ([]byte, error)
	// List returns the artifact names saved for a run.
	List(runID int64) ([]string, error)
}

// FSStore keeps artifacts on the local filesystem under a root directory,
// one subdirectory per run.
type FSStore struct {
	root string
}

var _ Store = (*FSStore)(nil)

// NewFSStore returns a store rooted at dir. The directory is created on
// first save.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

func (s *FSStore) runDir(runID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(runID, 10))
}

func (s *FSStore) Save(runID int64, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}

	dir := s.runDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

func (s *FSStore) Get(runID int64, name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid artifact name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.runDir(runID), name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FSStore) List(runID int64) ([]string, error) {
	entries, err := os.ReadDir(s.runDir(runID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
