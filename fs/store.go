// Package fs provides file-based persistence for scrape output.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/diogo-cruz/aisafety"
)

// Ensure Store implements aisafety.OutputStore at compile time.
var _ aisafety.OutputStore = (*Store)(nil)

// Store writes output documents as JSON files in a directory.
type Store struct {
	dir string
}

// NewStore creates a Store that writes into dir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Save writes the output. An empty path derives the filename from the
// output's base URL inside the store directory.
func (s *Store) Save(ctx context.Context, out *aisafety.Output, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(s.dir, aisafety.OutputFilename(out.Metadata.BaseURL))
	}
	if err := WriteJSON(path, out); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON encodes v as UTF-8 JSON indented by two spaces, with HTML
// characters left unescaped, and writes it to path. The file is written
// to a temporary sibling first and renamed into place, so readers never
// observe a partial document.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return aisafety.Errorf(aisafety.EINVALID, "encode %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
