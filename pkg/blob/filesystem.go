package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemStore keeps blobs under root, sharded by the first four checksum
// characters to keep directory fanout bounded: root/ab/cd/abcd....
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root %q: %w", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) path(checksum string) string {
	return filepath.Join(s.root, filepath.FromSlash(Key(checksum)))
}

func (s *FilesystemStore) Put(_ context.Context, data []byte) (string, error) {
	checksum := Checksum(data)

	path := s.path(checksum)
	if _, err := os.Stat(path); err == nil {
		return checksum, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	// Write to a temp file and rename so a concurrent Put of the same
	// content can never leave a torn blob under the final key.
	tmp, err := os.CreateTemp(s.root, "put-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp blob: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write blob %s: %w", checksum, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to publish blob %s: %w", checksum, err)
	}

	return checksum, nil
}

func (s *FilesystemStore) Get(_ context.Context, checksum string) ([]byte, error) {
	if len(checksum) < 4 {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path(checksum))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", checksum, err)
	}
	return data, nil
}

func (s *FilesystemStore) Exists(_ context.Context, checksum string) (bool, error) {
	if len(checksum) < 4 {
		return false, nil
	}

	if _, err := os.Stat(s.path(checksum)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob %s: %w", checksum, err)
	}
	return true, nil
}

func (s *FilesystemStore) Delete(_ context.Context, checksum string) error {
	if len(checksum) < 4 {
		return nil
	}

	if err := os.Remove(s.path(checksum)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", checksum, err)
	}
	return nil
}

// List walks the store and returns every stored checksum. In-flight temp
// files directly under the root are skipped.
func (s *FilesystemStore) List(_ context.Context) ([]string, error) {
	var checksums []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Dir(path) != s.root {
			checksums = append(checksums, info.Name())
		}
		return nil
	})
	return checksums, err
}

// Count reports how many blobs the store holds.
func (s *FilesystemStore) Count() (int, error) {
	checksums, err := s.List(context.Background())
	return len(checksums), err
}
