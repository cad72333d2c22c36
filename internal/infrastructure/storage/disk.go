package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Disk writes uploads below Root and serves them under PublicPrefix.
type Disk struct {
	Root         string
	PublicPrefix string
}

func NewDisk(root, publicPrefix string) *Disk {
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &Disk{Root: root, PublicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (d *Disk) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (int64, error) {
	dst, err := d.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return n, err
	}

	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return n, fmt.Errorf("move upload into place: %w", err)
	}
	return n, nil
}

func (d *Disk) Remove(_ context.Context, key string) error {
	dst, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Disk) URL(key string) string {
	return d.PublicPrefix + "/" + strings.TrimLeft(key, "/")
}

func (d *Disk) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.Root, filepath.FromSlash(clean)), nil
}
