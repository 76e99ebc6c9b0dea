package atlas

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes the atlas to path. The data goes to a temporary file in
// the same directory first and is renamed into place, so a failed write
// never leaves a partial atlas behind.
func WriteFile(path string, a *Atlas) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create atlas directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp atlas file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write atlas file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write atlas file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to write atlas file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move atlas file into place: %w", err)
	}
	return nil
}

// ReadFile decodes the atlas stored at path.
func ReadFile(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open atlas file: %w", err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
