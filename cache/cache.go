// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache holds rendered view payloads keyed by request path.
// Read handlers serve from it; the poll service invalidates entries
// after successful mutations. It is the in-process stand-in for a
// front-side view cache.
package cache

import "sync"

type View struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func New() *View {
	return &View{entries: make(map[string][]byte)}
}

// Get returns the cached payload for a path, if any.
func (v *View) Get(path string) ([]byte, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	payload, ok := v.entries[path]
	return payload, ok
}

// Set stores a payload for a path.
func (v *View) Set(path string, payload []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[path] = payload
}

// Invalidate drops the cached payload for a path. Dropping a path that
// was never cached is a no-op.
func (v *View) Invalidate(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, path)
}
