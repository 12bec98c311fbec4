// Package filex contains small filesystem helpers of the client.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// MaxPhotoSize bounds the size of a photo attached to a diary entry.
const MaxPhotoSize = 10 << 20

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// EnsureParentDir makes sure the directory holding file exists.
func EnsureParentDir(file string) error {
	_, err := EnsureDir(filepath.Dir(file))
	return err
}

// ReadPhoto loads a photo from disk and sniffs its content type.
func ReadPhoto(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxPhotoSize {
		return nil, "", fmt.Errorf("%s is larger than %d bytes", path, MaxPhotoSize)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return b, http.DetectContentType(b), nil
}

// WritePhoto stores body at dest, or at dest/name when dest is an existing
// directory. Missing parent directories are created. It returns the path
// written.
func WritePhoto(dest, name string, body []byte) (string, error) {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, name)
	}
	if err := EnsureParentDir(dest); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, body, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}
