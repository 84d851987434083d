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

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/fixture/apis"
)

const (
	// DefaultMaxDepth represents the default for MaxDepth.
	// Real fixture graphs rarely nest more than a handful of associations.
	DefaultMaxDepth = 32
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultFieldTag represents the default for FieldTag.
	DefaultFieldTag = "json"
	// DefaultErrorUnused represents the default for ErrorUnused.
	DefaultErrorUnused = false
)

// nop is shared so that default configs compare equal.
var nop = zap.NewNop()

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth and MaxUnwrap are valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.Logger == nil {
		cfg.Logger = nop
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxDepth:    DefaultMaxDepth,
		MaxUnwrap:   DefaultMaxUnwrap,
		FieldTag:    DefaultFieldTag,
		ErrorUnused: DefaultErrorUnused,
		Logger:      nop,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithFieldTag sets the FieldTag option.
// An empty tag resets to the default.
func WithFieldTag(tag string) Option {
	return func(c *apis.Config) {
		if tag == "" {
			c.FieldTag = DefaultFieldTag
			return
		}
		c.FieldTag = tag
	}
}

// WithErrorUnused sets the ErrorUnused option.
func WithErrorUnused(strict bool) Option {
	return func(c *apis.Config) {
		c.ErrorUnused = strict
	}
}

// WithLogger sets the Logger option. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		if l == nil {
			l = nop
		}
		c.Logger = l
	}
}
