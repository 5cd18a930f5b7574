package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const latestSuffix = "_last.jpg"

var (
	// ErrImageNotFound is returned when a device has not uploaded anything yet.
	ErrImageNotFound = errors.New("image not found")
	// ErrInvalidDeviceID is returned for identifiers that cannot be used in a file name.
	ErrInvalidDeviceID = errors.New("invalid device id")
)

// ImageStore keeps exactly one file per device: the latest uploaded image.
// Writes go to a temporary file in the same directory and are renamed into
// place, so readers see either the previous or the new complete image.
type ImageStore struct {
	dir string
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// ValidateDeviceID rejects identifiers that would escape the upload directory.
func ValidateDeviceID(deviceID string) error {
	if deviceID == "" || deviceID == "." || deviceID == ".." ||
		strings.ContainsAny(deviceID, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceID, deviceID)
	}
	return nil
}

// Path returns the deterministic location of a device's latest image.
func (s *ImageStore) Path(deviceID string) (string, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, deviceID+latestSuffix), nil
}

// Save atomically replaces the latest image of a device. On failure the
// temporary file is removed and the previous image stays untouched.
func (s *ImageStore) Save(deviceID string, data []byte) (err error) {
	path, err := s.Path(deviceID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+deviceID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load returns the latest image of a device or ErrImageNotFound.
func (s *ImageStore) Load(deviceID string) ([]byte, error) {
	path, err := s.Path(deviceID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}
