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

// Package fixturetest wraps fixture builds for use inside tests: every
// helper fails the test instead of returning an error.
package fixturetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/fixture"
	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
)

// Build builds one entity or fails tb.
func Build[P, R any](tb testing.TB, f *fixture.Factory[P, R], override apis.Attrs) R {
	tb.Helper()
	r, err := f.Build(override)
	require.NoError(tb, err, "build %s", f.Name())
	return r
}

// BuildWith builds one entity with transient params or fails tb.
func BuildWith[P, R any](tb testing.TB, f *fixture.Factory[P, R], override apis.Attrs, params P) R {
	tb.Helper()
	r, err := f.BuildWith(override, params)
	require.NoError(tb, err, "build %s", f.Name())
	return r
}

// BuildMany builds count entities or fails tb.
func BuildMany[P, R any](tb testing.TB, f *fixture.Factory[P, R], count int, partials apis.Partials) []R {
	tb.Helper()
	rs, err := f.BuildMany(count, partials)
	require.NoError(tb, err, "build %d x %s", count, f.Name())
	return rs
}

// Resolve resolves d outside of any build or fails tb.
func Resolve(tb testing.TB, d apis.Deferred) any {
	tb.Helper()
	v, err := d.Resolve(apis.Scope{})
	require.NoError(tb, err)
	return v
}

// Isolate installs an empty global registry for the duration of tb and
// restores the previous global state on cleanup. Tests calling Isolate
// must not run in parallel with each other.
func Isolate(tb testing.TB) {
	tb.Helper()
	snap := fixture.Save()
	tb.Cleanup(func() { fixture.Restore(snap) })

	cfg := fixture.Config()
	fixture.SetAll(&cfg, fixture.Builder().BuildRegistry(cfg, nil), nil, nil)
	fixture.UnpinRegistry()
}

// Config returns a configuration that logs to tb through zaptest.
func Config(tb testing.TB, opts ...config.Option) apis.Config {
	opts = append([]config.Option{config.WithLogger(zaptest.NewLogger(tb))}, opts...)
	return config.NewConfig(opts...)
}

// Observe returns a configuration whose logger records entries at or above
// level, and the recorded entries.
func Observe(level zapcore.Level, opts ...config.Option) (apis.Config, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	opts = append([]config.Option{config.WithLogger(zap.New(core))}, opts...)
	return config.NewConfig(opts...), logs
}
