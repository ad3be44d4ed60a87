package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/newsdesk/internal/errors"
)

// FileBackend stores values as a flat JSON object in a single file.
//
// Every write rewrites the whole file through a temp file and rename, so a
// reader never sees a partial file. There is no cross-process locking: two
// processes writing at once race and the last rename wins.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a backend persisting to path. The file is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file path
func (f *FileBackend) Path() string {
	return f.path
}

// Get implements Backend
func (f *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements Backend
func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// Delete implements Backend
func (f *FileBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileBackend) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, fmt.Sprintf("failed to read session file %s", f.path), err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, fmt.Sprintf("session file %s is not valid JSON", f.path), err).
			WithSuggestion("Run 'newsdesk auth logout' or delete the file to start a fresh session")
	}
	return values, nil
}

func (f *FileBackend) save(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to create session directory", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to encode session", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to create temp session file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to restrict session file permissions", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to write session file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to write session file", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, fmt.Sprintf("failed to replace session file %s", f.path), err)
	}
	return nil
}
