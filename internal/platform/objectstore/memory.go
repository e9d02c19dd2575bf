// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryStore keeps blobs in memory.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string

	// FailKeys makes Delete report these keys as not deleted.
	FailKeys map[string]bool
	// Unavailable makes every call fail as if the backend were down.
	Unavailable bool
}

// ErrUnavailable is returned by a MemoryStore marked Unavailable.
var ErrUnavailable = errors.New("objectstore: backend unavailable")

// NewMemoryStore returns an empty store serving URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}, baseURL: baseURL, FailKeys: map[string]bool{}}
}

func (store *MemoryStore) Put(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Unavailable {
		return ErrUnavailable
	}
	store.objects[key] = data
	return nil
}

func (store *MemoryStore) Delete(_ context.Context, keys []string) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Unavailable {
		return keys, ErrUnavailable
	}

	var failed []string
	for _, key := range keys {
		if store.FailKeys[key] {
			failed = append(failed, key)
			continue
		}
		delete(store.objects, key)
	}
	return failed, nil
}

func (store *MemoryStore) URL(key string) string {
	return joinURL(store.baseURL, key)
}

func (store *MemoryStore) Ping(context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Unavailable {
		return ErrUnavailable
	}
	return nil
}

// Has reports whether key is stored.
func (store *MemoryStore) Has(key string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.objects[key]
	return ok
}

// Bytes returns the stored content of key.
func (store *MemoryStore) Bytes(key string) []byte {
	store.mu.Lock()
	defer store.mu.Unlock()
	return bytes.Clone(store.objects[key])
}

var _ Store = (*MemoryStore)(nil)
