// Package store provides key-value backends for persisted marker records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// Storage is an asynchronous-safe key-value capability. Implementations must
// be safe for concurrent use.
type Storage interface {
	// Get returns the bytes stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores data at key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Kind names a storage backend.
type Kind string

const (
	KindMemory  Kind = "memory"
	KindFile    Kind = "file"
	KindKeyring Kind = "keyring"
	KindHTTP    Kind = "http"
)

// Options selects and configures a backend for Open.
type Options struct {
	Kind    Kind
	Path    string // file: directory holding one file per key
	URL     string // http: base URL of a marker store service
	Service string // keyring: service name
	// ContentType is the media type the http backend exchanges records in.
	ContentType string
}

// Open builds the backend described by opts.
func Open(opts Options) (Storage, error) {
	switch Kind(strings.ToLower(string(opts.Kind))) {
	case KindMemory, "":
		return NewMemory(), nil
	case KindFile:
		if opts.Path == "" {
			return nil, errors.New("file store requires a path")
		}

		return NewFile(opts.Path), nil
	case KindKeyring:
		return NewKeyring(opts.Service), nil
	case KindHTTP:
		if opts.URL == "" {
			return nil, errors.New("http store requires a URL")
		}

		h := NewHTTP(opts.URL, nil)
		if opts.ContentType != "" {
			h.WithContentType(opts.ContentType)
		}

		return h, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
}
