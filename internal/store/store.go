// Package store provides the key-value storage capability behind the state
// cells, with no-op, in-memory and SQLite implementations.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("key not found")

// KV is a flat string key-value store. Writes to a single key are atomic.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Entry is one stored key-value pair.
type Entry struct {
	Scope     string `json:"scope"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Noop is the storage of a host without a storage facility: reads find
// nothing and writes are dropped.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", ErrNotFound }
func (Noop) Set(context.Context, string, string) error   { return nil }

// Memory is an in-process KV, useful for session-lifetime state that should
// not outlive the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Clear drops every key.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
}

// Entries returns a sorted snapshot of the stored pairs.
func (m *Memory) Entries(scope string) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.data))
	for k, v := range m.data {
		out = append(out, Entry{Scope: scope, Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
