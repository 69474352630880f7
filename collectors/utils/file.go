package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Errorf("read error: %w", err)
	}
	if err = json.Unmarshal(b, v); err != nil {
		return xerrors.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON, creating the parent directory.
// Non-ASCII text is kept as is.
func WriteJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return xerrors.Errorf("failed to encode json: %w", err)
	}
	return WriteFile(path, buf.Bytes())
}

// WriteFile writes data to path, creating the parent directory.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return xerrors.Errorf("mkdir error: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return xerrors.Errorf("write error: %w", err)
	}
	return nil
}
