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
	"runtime"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
)

// ---------------------- Helpers ----------------------

// resetWithBuilder installs a clean snapshot built by b and restores the
// previous snapshot when the test ends. Pins are reset because we pass nil
// reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config) {
	tb.Helper()
	snap := Save()
	tb.Cleanup(func() { Restore(snap) })
	SetAll(&cfg, nil, nil, b)
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[string]apis.Buildable
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[string]apis.Buildable)}
}

func (m *mockRegistry) Register(name string, b apis.Buildable) error {
	m.mu.Lock()
	m.data[name] = b
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(name string) (apis.Buildable, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[name]
	return b, ok
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]apis.Entry, 0, len(m.data))
	for n, b := range m.data {
		out = append(out, apis.Entry{Name: n, Factory: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() {
	m.mu.Lock()
	m.data = make(map[string]apis.Buildable)
	m.mu.Unlock()
}

type mockResolver struct {
	id string
}

func (r *mockResolver) Extract(_ any, key string, cfg apis.Config) (any, error) {
	return r.id + ":" + key + ":" + strconv.Itoa(cfg.MaxDepth), nil
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastPrevRegID  string
	regCounter     int
	resCounter     int
	returnNilReg   bool
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnNilReg {
		return nil
	}
	b.regCounter++
	next := newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = next.Register(e.Name, e.Factory)
		}
	}
	return next
}

func (b *mockBuilder) BuildResolver(cfg apis.Config) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

type stubFactory struct{ name string }

func (s *stubFactory) Name() string               { return s.name }
func (s *stubFactory) Defer(string) apis.Deferred { return nil }

// ---------------------- Tests ----------------------

func TestInit_DefaultState(t *testing.T) {
	s := st.Load()
	if s == nil || s.reg == nil || s.res == nil || s.bld == nil {
		t.Fatalf("init left incomplete state: %+v", s)
	}
	if Config().MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("default MaxDepth = %d, want %d", Config().MaxDepth, config.DefaultMaxDepth)
	}
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.NewConfig(config.WithMaxDepth(8)))

	s1Reg := Registry()
	s1Res := Resolver()

	SetConfig(config.NewConfig(config.WithMaxDepth(4)))

	if s1Reg == Registry() {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if s1Res == Resolver() {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg := b.lastCfg
	b.mu.Unlock()
	if gotCfg.MaxDepth != 4 {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
}

func TestSetConfig_MigratesRegisteredFactories(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	f := &stubFactory{name: "user"}
	if err := Register(f); err != nil {
		t.Fatalf("Register: %v", err)
	}
	SetConfig(config.NewConfig(config.WithMaxDepth(4)))

	if got, ok := Lookup("user"); !ok || got != f {
		t.Fatalf("factory lost across SetConfig: got (%v,%v)", got, ok)
	}
	b.mu.Lock()
	prevID := b.lastPrevRegID
	b.mu.Unlock()
	if prevID != "reg#1" {
		t.Fatalf("builder saw prev registry %q, want reg#1", prevID)
	}
}

func TestSetRegistry_PinsRegistry_and_LeavesResolverRebuildable(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatalf("SetRegistry must pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(config.NewConfig(config.WithMaxDepth(4)))

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if !IsResolverPinned() {
		t.Fatalf("SetResolver must pin the resolver")
	}

	regBefore := Registry()
	SetConfig(config.NewConfig(config.WithMaxDepth(4)))

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, config.DefaultConfig())

	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Builder() != b {
		t.Fatalf("SetBuilder did not install the builder")
	}
	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if r, s := b.counters(); r != 1 || s != 0 {
		t.Fatalf("new builder counters = (%d,%d), want (1,0)", r, s)
	}
}

func TestSetAll_NilArgumentsRebuildAndUnpin(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	SetRegistry(newMockRegistry("custom"))
	SetResolver(&mockResolver{id: "custom"})

	SetAll(nil, nil, nil, nil)

	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("SetAll with nil layers must unpin them")
	}
	if Builder() != b {
		t.Fatalf("SetAll with nil builder must keep the current one")
	}
	if r, s := b.counters(); r != 2 || s != 2 {
		t.Fatalf("builder counters = (%d,%d), want (2,2)", r, s)
	}
}

func TestPinUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	PinRegistry()
	PinResolver()

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(config.NewConfig(config.WithMaxDepth(4)))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	SetConfig(config.NewConfig(config.WithMaxDepth(6)))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestNilSetters_AreIgnored(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	reg, res := Registry(), Resolver()
	SetRegistry(nil)
	SetResolver(nil)
	SetBuilder(nil)

	if Registry() != reg || Resolver() != res || Builder() != b {
		t.Fatalf("nil setters must leave the state unchanged")
	}
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("nil setters must not pin")
	}
}

func TestBuilderReturningNil_Panics(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())
	before := st.Load()

	b.mu.Lock()
	b.returnNilReg = true
	b.mu.Unlock()

	defer func() {
		if r := recover(); r != ErrNilRegistry {
			t.Fatalf("recover() = %v, want ErrNilRegistry", r)
		}
		if st.Load() != before {
			t.Fatalf("a failed rebuild must not publish a new state")
		}
	}()
	SetConfig(config.DefaultConfig())
}

func TestNew_CapturesSnapshot(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.NewConfig(config.WithMaxDepth(3)))

	f := New(func(*NoParams) apis.Attrs { return nil }, apis.Attrs{}, mapAdapter{})
	SetConfig(config.NewConfig(config.WithMaxDepth(9)))

	if f.cfg.MaxDepth != 3 {
		t.Fatalf("factory cfg.MaxDepth = %d, want 3", f.cfg.MaxDepth)
	}
	got, err := f.AssociateField("k").Build()
	if err != nil || got != "res#1:k:3" {
		t.Fatalf("AssociateField used resolver %v (err %v), want res#1:k:3", got, err)
	}
}

func TestSaveRestore(t *testing.T) {
	snap := Save()
	defer Restore(snap)

	SetAll(nil, newMockRegistry("tmp"), nil, nil)
	if Registry() == snap.s.reg {
		t.Fatalf("SetAll did not replace the registry")
	}

	Restore(snap)
	if st.Load() != snap.s {
		t.Fatalf("Restore did not republish the saved state")
	}
	Restore(Snapshot{})
	if st.Load() != snap.s {
		t.Fatalf("zero Snapshot must be ignored")
	}
}

func TestLookup_Concurrent_With_SetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	f := &stubFactory{name: "user"}
	if err := Register(f); err != nil {
		t.Fatalf("Register: %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got, ok := Lookup("user"); !ok || got != f {
					t.Errorf("Lookup(user) = (%v,%v) during reconfiguration", got, ok)
					return
				}
				_ = Config()
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(config.WithMaxDepth(4 + i%5)))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

// mapAdapter returns attrs as the entity.
type mapAdapter struct{}

func (mapAdapter) Set(_ apis.Attrs, attrs apis.Attrs) (apis.Attrs, error) { return attrs, nil }
