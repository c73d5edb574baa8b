package parameter

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/c360/widgetkit/errors"
)

// FileStore persists parameter values as a JSON object on disk. Writes go
// through a temp file and rename so a crash mid-save never corrupts the
// stored values.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. Parent
// directories are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored value set. A missing file is not an error and
// yields an empty map.
func (s *FileStore) Load() (map[string]float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]float64{}, nil
		}
		return nil, errors.WrapTransient(err, "parameter", "Load", "read store file")
	}

	var values map[string]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.WrapInvalid(err, "parameter", "Load", "unmarshal store file")
	}
	if values == nil {
		values = map[string]float64{}
	}
	return values, nil
}

// Save writes the value set, replacing any previous content
func (s *FileStore) Save(values map[string]float64) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "parameter", "Save", "marshal values")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapTransient(err, "parameter", "Save", "create store directory")
	}

	tmp, err := os.CreateTemp(dir, ".params-*.json")
	if err != nil {
		return errors.WrapTransient(err, "parameter", "Save", "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapTransient(err, "parameter", "Save", "write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapTransient(err, "parameter", "Save", "close temp file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapTransient(err, "parameter", "Save", "replace store file")
	}
	return nil
}
