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
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"dirpx.dev/fixture/apis"
)

// DefaultEnvPrefix is the variable prefix used by FromEnv when none is given.
const DefaultEnvPrefix = "FIXTURE_"

// ErrInvalidEnv is returned when an environment variable cannot be parsed.
var ErrInvalidEnv = errors.New("fixture(config): invalid environment value")

// Environment keys, relative to the prefix and lower-cased.
const (
	envMaxDepth    = "max_depth"
	envMaxUnwrap   = "max_unwrap"
	envFieldTag    = "field_tag"
	envErrorUnused = "error_unused"
)

// FromEnv builds a Config from opts and then overlays the variables
// <prefix>MAX_DEPTH, <prefix>MAX_UNWRAP, <prefix>FIELD_TAG and
// <prefix>ERROR_UNUSED. Unset variables leave the option value in place.
func FromEnv(prefix string, opts ...Option) (apis.Config, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil)
	if err != nil {
		return apis.Config{}, err
	}

	var overlay []Option
	if k.Exists(envMaxDepth) {
		n, err := envInt(k, envMaxDepth, prefix)
		if err != nil {
			return apis.Config{}, err
		}
		overlay = append(overlay, WithMaxDepth(n))
	}
	if k.Exists(envMaxUnwrap) {
		n, err := envInt(k, envMaxUnwrap, prefix)
		if err != nil {
			return apis.Config{}, err
		}
		overlay = append(overlay, WithMaxUnwrap(n))
	}
	if k.Exists(envFieldTag) {
		overlay = append(overlay, WithFieldTag(strings.TrimSpace(k.String(envFieldTag))))
	}
	if k.Exists(envErrorUnused) {
		raw := k.String(envErrorUnused)
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return apis.Config{}, fmt.Errorf("%w: %s%s=%q", ErrInvalidEnv, prefix, strings.ToUpper(envErrorUnused), raw)
		}
		overlay = append(overlay, WithErrorUnused(b))
	}

	return NewConfig(slices.Concat(opts, overlay)...), nil
}

// envInt parses an integer variable, reporting it under its full name.
func envInt(k *koanf.Koanf, key, prefix string) (int, error) {
	raw := k.String(key)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s%s=%q", ErrInvalidEnv, prefix, strings.ToUpper(key), raw)
	}
	return n, nil
}
