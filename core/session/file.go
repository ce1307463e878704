package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// tokenKey is the single persisted key, shared with the browser dashboard's storage.
const tokenKey = "authToken"

// FileHolder persists the token in a small JSON file. Concurrent processes are last-writer-wins.
type FileHolder struct {
	path string
	mu   sync.Mutex
}

var _ Holder = (*FileHolder)(nil)

func NewFileHolder(path string) *FileHolder {
	return &FileHolder{path: path}
}

func (h *FileHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		return ""
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return ""
	}
	return stored[tokenKey]
}

func (h *FileHolder) SetToken(token string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return errors.Wrap(err, "encoding token file")
	}
	return errors.Wrap(os.WriteFile(h.path, data, 0o600), "writing token file")
}

func (h *FileHolder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}
