// Package storage persists tracker collections as JSON documents in a
// key-value store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which the tracker keeps its collections.
const (
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
)

// KV is the persistence port. Values are opaque bytes.
type KV interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Close() error
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StorageError describes a failed load or save.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Load reads the JSON array stored under key. A missing key yields an empty
// slice and no error. Unreadable or corrupt data also yields an empty slice,
// together with a *StorageError the caller can log before carrying on.
func Load[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return []T{}, &StorageError{Op: "load", Key: key, Err: err}
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}, &StorageError{Op: "decode", Key: key, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Save writes records under key as a JSON array.
func Save[T any](ctx context.Context, kv KV, key string, records []T) error {
	raw, err := encode(records)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// Batch collects several collections to be written together by SaveAll.
type Batch map[string]any

// SaveAll encodes every entry of b and writes them atomically.
func SaveAll(ctx context.Context, kv KV, b Batch) error {
	entries := make(map[string][]byte, len(b))
	for key, records := range b {
		raw, err := encode(records)
		if err != nil {
			return &StorageError{Op: "encode", Key: key, Err: err}
		}
		entries[key] = raw
	}
	if err := kv.SetMany(ctx, entries); err != nil {
		return &StorageError{Op: "save", Key: batchKey(b), Err: err}
	}
	return nil
}

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func batchKey(b Batch) string {
	switch len(b) {
	case 0:
		return ""
	case 1:
		for k := range b {
			return k
		}
	}
	return "*"
}
