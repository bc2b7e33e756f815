package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that would escape the storage root
var ErrInvalidName = errors.New("storage: invalid file name")

// LocalStorage keeps uploaded files flat inside a single directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes r under a random name that keeps the extension of
// originalName and returns the generated name.
func (s *LocalStorage) Save(r io.Reader, originalName string) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}
	filename := id + filepath.Ext(originalName)
	filePath := filepath.Join(s.basePath, filename)

	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		// Clean up on failure
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// Delete removes a file. Missing files are not an error.
func (s *LocalStorage) Delete(name string) error {
	filePath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// BasePath returns the directory for serving files
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// resolve only accepts plain file names, nothing with a directory part.
func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.basePath, name), nil
}

var randRead = rand.Read

// generateID creates a unique identifier for filenames
func generateID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := randRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
