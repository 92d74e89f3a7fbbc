package main

import (
	"fmt"
	"strings"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/internal/store"
	"github.com/alkime/knobs/internal/workdir"
)

// openStore builds the marker store and record codec named in cfg.
func openStore(cfg *config.Config) (store.Storage, marker.Codec, error) {
	codec, err := marker.CodecByName(cfg.StoreCodec)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.StorePath
	if path == "" && storeKind(cfg) == store.KindFile {
		if path, err = workdir.MarkersDir(); err != nil {
			return nil, nil, err
		}
	}

	s, err := store.Open(store.Options{
		Kind:        storeKind(cfg),
		Path:        path,
		URL:         cfg.StoreURL,
		Service:     store.DefaultKeyringService,
		ContentType: codec.ContentType(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	return s, codec, nil
}

// storeName describes where markers are kept, for display.
func storeName(cfg *config.Config) string {
	switch storeKind(cfg) {
	case store.KindFile:
		path := cfg.StorePath
		if path == "" {
			path, _ = workdir.MarkersDir()
		}
		return "file " + path
	case store.KindHTTP:
		return "http " + cfg.StoreURL
	default:
		return cfg.Store
	}
}

func storeKind(cfg *config.Config) store.Kind {
	return store.Kind(strings.ToLower(strings.TrimSpace(cfg.Store)))
}
