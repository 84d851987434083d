/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/fixture/apis"
)

var (
	// ErrNilFactory is returned when a nil factory is provided.
	ErrNilFactory = errors.New("fixture(registry): nil factory provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("fixture(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to register a
	// different factory under an existing name.
	ErrConflictingRegistration = errors.New("fixture(registry): conflicting factory registration")
)

// New constructs a Registry. Only cfg.Logger is used here.
func New(cfg apis.Config) apis.Registry {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &registry{log: log}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// log receives registration diagnostics.
	log *zap.Logger
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps names to factories.
	m sync.Map // map[string]apis.Buildable
	// count tracks the number of registered entries.
	count int
}

// Register associates name with b.
// It is idempotent for the same (name, factory) pair.
func (r *registry) Register(name string, b apis.Buildable) error {
	// Validate inputs early.
	if name == "" {
		return ErrEmptyName
	}
	if b == nil {
		return ErrNilFactory
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(name); ok {
		if old.(apis.Buildable) == b {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(name); ok {
		if old.(apis.Buildable) == b {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(name, b)
	r.count++
	r.log.Debug("fixture registered", zap.String("factory", name))
	return nil
}

// Lookup returns the factory registered under name.
func (r *registry) Lookup(name string) (apis.Buildable, bool) {
	if name == "" {
		return nil, false
	}
	if v, ok := r.m.Load(name); ok {
		return v.(apis.Buildable), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs, sorted by name.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Name:    key.(string),
			Factory: value.(apis.Buildable),
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Range(func(key, _ any) bool {
		r.m.Delete(key)
		return true
	})
	r.count = 0
}
