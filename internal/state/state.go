// SPDX-License-Identifier: Apache-2.0

// Package state keeps small pieces of unit state that must survive
// restarts of the operator process.
package state

import (
	"context"
	"strconv"
)

// Store is a durable key/value record.
type Store interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
}

// GetBool reads a boolean value, returning def when the key is unset.
func GetBool(ctx context.Context, s Store, key string, def bool) (bool, error) {
	v, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return def, err
	}
	return strconv.ParseBool(v)
}

// SetBool stores a boolean value.
func SetBool(ctx context.Context, s Store, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

// MemStore is a Store held in memory.
type MemStore map[string]string

// Get returns the value stored under key.
func (m MemStore) Get(_ context.Context, key string) (string, bool, error) {
	v, found := m[key]
	return v, found, nil
}

// Set stores value under key.
func (m MemStore) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}
