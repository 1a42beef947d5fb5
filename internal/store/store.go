// Package store provides the key-value persistence port and its adapters.
package store

import (
	"errors"
	"sync"
)

// Well-known keys.
const (
	HighScoreKey = "snake-high-score"
	StatsKey     = "snake-game-stats"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a string key-value store. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key. ok is false when the key is not set.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Update reads key and writes the value fn returns, atomically with respect to
	// other Set and Update calls. fn reports false to leave the key untouched.
	Update(key string, fn UpdateFunc) error
}

// UpdateFunc computes the next value of a key from its current one. ok is false
// when the key is not set.
type UpdateFunc func(old string, ok bool) (value string, write bool)

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Update implements Store.
func (m *Memory) Update(key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[key]
	if value, write := fn(old, ok); write {
		m.data[key] = value
	}
	return nil
}

// prefixed namespaces every key of an underlying store.
type prefixed struct {
	inner  Store
	prefix string
}

// WithPrefix returns a Store that stores key under prefix+":"+key in s.
// An empty prefix returns s itself.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{inner: s, prefix: prefix + ":"}
}

func (p *prefixed) Get(key string) (string, bool, error) {
	return p.inner.Get(p.prefix + key)
}

func (p *prefixed) Set(key, value string) error {
	return p.inner.Set(p.prefix+key, value)
}

func (p *prefixed) Update(key string, fn UpdateFunc) error {
	return p.inner.Update(p.prefix+key, fn)
}
