package storage

import (
	"context"
	"time"
)

// Store is a namespaced string key-value store. A namespace plays the role
// of one browser's local storage.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Ping(ctx context.Context) error
}

// Expirer drops namespaces that have not been written since cutoff.
type Expirer interface {
	Expire(ctx context.Context, cutoff time.Time) (int64, error)
}

// Bucket is a Store bound to a single namespace.
type Bucket struct {
	store     Store
	namespace string
}

func Scope(s Store, namespace string) Bucket {
	return Bucket{store: s, namespace: namespace}
}

func (b Bucket) Namespace() string { return b.namespace }

func (b Bucket) Get(ctx context.Context, key string) (string, bool, error) {
	return b.store.Get(ctx, b.namespace, key)
}

func (b Bucket) Set(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, b.namespace, key, value)
}

func (b Bucket) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, b.namespace, key)
}
