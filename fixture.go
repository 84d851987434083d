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

package fixture

import (
	"sync"
	"sync/atomic"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/builder"
	"dirpx.dev/fixture/config"
	"dirpx.dev/fixture/registry"
)

// init initializes the global fixture state.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg)
	s.bld = b
	st.Store(s)
}

// Register adds b to the global registry under b.Name().
func Register(b apis.Buildable) error {
	if b == nil {
		return registry.ErrNilFactory
	}
	return st.Load().reg.Register(b.Name(), b)
}

// Lookup returns the factory registered under name in the global registry.
func Lookup(name string) (apis.Buildable, bool) {
	return st.Load().reg.Lookup(name)
}

// SetAll explicitly sets all global state components.
//
// A nil cfg or bld leaves that component unchanged. A nil reg or res is
// rebuilt by the builder and unpinned; a non-nil one is installed pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	next := &state{cfg: old.cfg, bld: old.bld}
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}

	next.reg, next.preg = reg, reg != nil
	if reg == nil {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	next.res, next.pres = res, res != nil
	if res == nil {
		next.res = next.bld.BuildResolver(next.cfg)
	}

	publish(next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds the unpinned
// registry and resolver. Registered factories carry over to the new
// registry. Factories already constructed keep the configuration they
// captured.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.cfg = cfg
	rebuild(&next, old)
	publish(&next)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg as the global registry and pins it.
// A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.reg = reg
	next.preg = true
	publish(&next)
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// Resolver returns the global key resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res as the global key resolver and pins it.
// A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.res = res
	next.pres = true
	publish(&next)
}

// IsResolverPinned reports whether the global key resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global key resolver from being rebuilt.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the global key resolver be rebuilt again.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the unpinned registry
// and resolver with it. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.bld = b
	rebuild(&next, old)
	publish(&next)
}

// Snapshot is an opaque copy of the global state taken by Save.
type Snapshot struct {
	s *state
}

// Save captures the global state.
func Save() Snapshot {
	return Snapshot{s: st.Load()}
}

// Restore republishes a state captured by Save. A zero Snapshot is ignored.
func Restore(snap Snapshot) {
	if snap.s == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(snap.s)
}

// rebuild replaces the unpinned layers of next using next.bld and next.cfg.
func rebuild(next, old *state) {
	if !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	if !next.pres {
		next.res = next.bld.BuildResolver(next.cfg)
	}
}

// setPins publishes a copy of the current state with its pins changed by fn.
func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)
	publish(&next)
}

// publish validates s and stores it. Callers hold buildMu.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(s)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global fixture state.
var st atomic.Pointer[state]

// state is the global fixture state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg maps names to factories.
	reg apis.Registry
	// res extracts keys from built entities.
	res apis.Resolver
	// bld constructs reg and res.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}
