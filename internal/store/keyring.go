package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keychain service records are filed under.
const DefaultKeyringService = "knobs-markers"

// Keyring stores records in the system keychain. Values are base64 encoded
// since keychains hold strings and records may be binary.
type Keyring struct {
	service string
}

// NewKeyring returns a keychain store for service.
func NewKeyring(service string) *Keyring {
	if service == "" {
		service = DefaultKeyringService
	}

	return &Keyring{service: service}
}

func (k *Keyring) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from keychain: %w", key, err)
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from keychain: %w", key, err)
	}

	return data, nil
}

func (k *Keyring) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(k.service, key, base64.StdEncoding.EncodeToString(data)); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", key, err)
	}

	return nil
}

func (k *Keyring) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keychain: %w", key, err)
	}

	return nil
}
