package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalPrefix is the reference prefix and the URL path local images are
// served under.
const LocalPrefix = "uploads/"

// Local writes images to a directory on disk. References look like
// "uploads/<uuid>.jpg", matching the paths older records already hold.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	if root == "" {
		root = "uploads"
	}
	return &Local{root: root}
}

func (d *Local) Driver() string { return "local" }

func (d *Local) Put(_ context.Context, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}

	name := objectName(filename)
	full := filepath.Join(d.root, name)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", name, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxImageSize+1))
	closeErr := f.Close()
	if err == nil && n > MaxImageSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	return LocalPrefix + name, nil
}

// fileName extracts the bare file name from ref. Anything that could
// resolve outside root is refused.
func fileName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, LocalPrefix)
	if !ok || name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}

func (d *Local) Get(_ context.Context, ref string) ([]byte, error) {
	name, ok := fileName(ref)
	if !ok {
		return nil, ErrBadReference
	}
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage/local: get %s: %w", name, err)
	}
	return data, nil
}

func (d *Local) Delete(_ context.Context, ref string) error {
	name, ok := fileName(ref)
	if !ok {
		return ErrBadReference
	}
	if err := os.Remove(filepath.Join(d.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}
