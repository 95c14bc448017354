package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores files in a directory served under baseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates new instance of Local.
func NewLocal(dir, baseURL string) *Local {
	return &Local{
		dir:     dir,
		baseURL: baseURL,
	}
}

// Put implements Store.
func (l *Local) Put(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	p := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, readerWithContext{ctx: ctx, r: r}); err != nil {
		f.Close()    // nolint:errcheck
		os.Remove(p) // nolint:errcheck
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return joinURL(l.baseURL, key), nil
}

// Delete implements Store. Deleting missing file is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(key))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
