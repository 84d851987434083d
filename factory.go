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
	"fmt"
	"maps"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
	"dirpx.dev/fixture/utils/merge"
	rx "dirpx.dev/fixture/utils/reflect"
)

// NoParams is the transient-params type of factories that take none.
type NoParams = struct{}

// DefaultsFunc generates the default attributes of one entity.
// params is nil when the caller supplied no transient params.
// Values may be apis.Deferred, at any depth of nested mappings or []any.
type DefaultsFunc[P any] func(params *P) apis.Attrs

// Option configures a Factory.
type Option func(*options)

type options struct {
	name string
	cfg  *apis.Config
	res  apis.Resolver
}

// WithName sets the factory name used by Register and in cycle reports.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithConfig overrides the process configuration captured by New.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithResolver overrides the process key resolver captured by New.
func WithResolver(res apis.Resolver) Option {
	return func(o *options) { o.res = res }
}

// Factory builds entities of type R from generated default attributes.
// It is immutable once constructed and safe for concurrent builds as long
// as its generator and adapter are.
type Factory[P, R any] struct {
	defaults DefaultsFunc[P]
	model    R
	adapter  apis.Adapter[R]
	name     string
	cfg      apis.Config
	res      apis.Resolver
}

// New constructs a Factory. The model is passed to the adapter on every
// build and is never modified by the factory itself. A nil defaults
// generator yields an empty bag. New panics with ErrNilAdapter if adapter
// is nil.
//
// Config and Resolver default to the process snapshot at the time of the
// call; the name defaults to R's nearest named type ("pkg.Type").
func New[P, R any](defaults DefaultsFunc[P], model R, adapter apis.Adapter[R], opts ...Option) *Factory[P, R] {
	if adapter == nil {
		panic(ErrNilAdapter)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := st.Load()
	cfg := s.cfg
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	res := o.res
	if res == nil {
		res = s.res
	}

	name := o.name
	if name == "" {
		t := reflect.TypeFor[R]()
		if name = rx.TypeName(t, cfg); name == "" {
			name = t.String()
		}
	}

	return &Factory[P, R]{
		defaults: defaults,
		model:    model,
		adapter:  adapter,
		name:     name,
		cfg:      cfg,
		res:      res,
	}
}

// Name returns the factory name.
func (f *Factory[P, R]) Name() string { return f.name }

// Build generates the defaults, resolves associations, merges override on
// top and hands the result to the adapter. Generator panics and adapter
// errors reach the caller unchanged.
func (f *Factory[P, R]) Build(override apis.Attrs) (R, error) {
	return f.build(apis.Scope{}, override, nil)
}

// BuildWith is Build with transient params passed to the generator.
func (f *Factory[P, R]) BuildWith(override apis.Attrs, params P) (R, error) {
	return f.build(apis.Scope{}, override, &params)
}

// BuildMany builds exactly count entities, sequentially and independently.
//
// partials selects the override of each element: an apis.Seq gives element i
// its i-th partial (none once exhausted), while an apis.Attrs, or nil,
// applies the same partial to every element. A negative count yields
// ErrInvalidArgument; the first failing element aborts the batch.
func (f *Factory[P, R]) BuildMany(count int, partials apis.Partials) ([]R, error) {
	return f.buildMany(count, partials, nil)
}

// BuildManyWith is BuildMany with transient params passed to every build.
func (f *Factory[P, R]) BuildManyWith(count int, partials apis.Partials, params P) ([]R, error) {
	return f.buildMany(count, partials, &params)
}

func (f *Factory[P, R]) buildMany(count int, partials apis.Partials, params *P) ([]R, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d is negative", ErrInvalidArgument, count)
	}
	out := make([]R, 0, count)
	for i := 0; i < count; i++ {
		var override apis.Attrs
		if partials != nil {
			override = partials.Partial(i)
		}
		r, err := f.build(apis.Scope{}, override, params)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Associate returns an Association to the whole build result.
func (f *Factory[P, R]) Associate() *Association[P, R] {
	return &Association[P, R]{factory: f}
}

// AssociateField returns an Association to a single key of the build
// result. An empty key selects the whole result.
func (f *Factory[P, R]) AssociateField(key string) *Association[P, R] {
	return &Association[P, R]{factory: f, key: key}
}

// Defer implements apis.Buildable.
func (f *Factory[P, R]) Defer(key string) apis.Deferred {
	return f.AssociateField(key)
}

// Register adds f to the process registry under its name.
func (f *Factory[P, R]) Register() error {
	return Register(f)
}

// build runs one build at scope.
func (f *Factory[P, R]) build(scope apis.Scope, override apis.Attrs, params *P) (R, error) {
	var zero R

	scope = scope.Enter(f.name)
	if scope.Depth > f.cfg.MaxDepth {
		return zero, &AssociationCycleError{Path: scope.Path, Limit: f.cfg.MaxDepth}
	}

	var attrs apis.Attrs
	if f.defaults != nil {
		attrs = f.defaults(params)
	}
	resolved, err := resolveAttrs(scope, attrs)
	if err != nil {
		return zero, err
	}

	merged := merge.Merge(resolved, override)
	f.cfg.Logger.Debug("fixture build",
		zap.String("factory", f.name),
		zap.Int("depth", scope.Depth),
		zap.Int("count", len(merged)),
	)
	return f.adapter.Set(f.model, merged)
}

// resolveAttrs returns a copy of attrs with every Deferred value replaced by
// its resolution. Keys are visited in sorted order.
func resolveAttrs(scope apis.Scope, attrs apis.Attrs) (apis.Attrs, error) {
	out := make(apis.Attrs, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		v, err := resolveValue(scope, attrs[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// resolveValue resolves v, descending into mappings and []any.
func resolveValue(scope apis.Scope, v any) (any, error) {
	switch t := v.(type) {
	case apis.Deferred:
		return t.Resolve(scope)
	case apis.Attrs:
		if t == nil {
			return t, nil
		}
		return resolveAttrs(scope, t)
	case map[string]any:
		if t == nil {
			return t, nil
		}
		m, err := resolveAttrs(scope, t)
		return map[string]any(m), err
	case []any:
		if t == nil {
			return t, nil
		}
		out := make([]any, len(t))
		for i, e := range t {
			r, err := resolveValue(scope, e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}
