package artifact

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes b to w in the artifact format.
func Encode(w io.Writer, b *Bundle) error {
	if b == nil {
		return fmt.Errorf("%w: nil bundle", ErrIncomplete)
	}
	if missing := b.missingKeys(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrIncomplete, missing)
	}
	out := *b
	if out.Schema.Version == 0 && !out.Schema.Legacy() {
		out.Schema.Version = SchemaVersion
	}
	return gob.NewEncoder(w).Encode(&out)
}

// Write persists b at path, replacing any existing file atomically.
func Write(path string, b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}
