package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

type namespace struct {
	vals    map[string]string
	touched time.Time
}

type MemStore struct {
	mu  sync.RWMutex
	m   map[string]*namespace
	now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]*namespace{}, now: time.Now}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, ns, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.m[ns]
	if !ok {
		return "", false, nil
	}
	v, ok := n.vals[key]
	return v, ok, nil
}

func (s *MemStore) Set(ctx context.Context, ns, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[ns]
	if !ok {
		n = &namespace{vals: map[string]string{}}
		s.m[ns] = n
	}
	n.vals[key] = value
	n.touched = s.now()
	return nil
}

func (s *MemStore) Delete(ctx context.Context, ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[ns]
	if !ok {
		return nil
	}
	delete(n.vals, key)
	if len(n.vals) == 0 {
		delete(s.m, ns)
	}
	return nil
}

// Expire drops every namespace last written before cutoff and reports how
// many entries went with them.
func (s *MemStore) Expire(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped int64
	for id, n := range s.m {
		if n.touched.Before(cutoff) {
			dropped += int64(len(n.vals))
			delete(s.m, id)
		}
	}
	return dropped, nil
}

// Namespaces lists the namespaces that currently hold at least one key.
func (s *MemStore) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.m))
	for ns := range s.m {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}
