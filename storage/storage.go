// Package storage holds the key-value stores the cart is persisted to.
//
// Every implementation stores one string value per key and behaves like a
// device-local storage: a missing key is not an error, a set overwrites the
// previous value and the last write wins.
package storage

import (
	"context"
	"errors"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrEmptyKey      = errors.New("storage key must not be empty")
)

type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Closer is implemented by storages that own a connection.
type Closer interface {
	Close(ctx context.Context) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
