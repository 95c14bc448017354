// Package filestore contains storages for post attachments.
package filestore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

//go:generate mockgen -destination=./mock/filestore.go -package=mock -source=filestore.go

// ErrInvalidKey is returned when a key escapes the store root or is empty.
var ErrInvalidKey = errors.New("invalid key")

// Store stores files under keys.
type Store interface {
	// Put stores r under key and returns public url of the file.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", ErrInvalidKey
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
