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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// maxUnwrap returns the effective unwrap limit for cfg.
func maxUnwrap(cfg apis.Config) int {
	if cfg.MaxUnwrap <= 0 {
		return config.DefaultMaxUnwrap
	}
	return cfg.MaxUnwrap
}

// Normalize unwraps containers according to cfg.MaxUnwrap and returns the
// nearest named inner type, or an error if none is found.
//
// Unwrapping policy:
//   - ptr/slice/array/chan/map -> Elem()
//   - default: if t.Name() != "", return t; otherwise ErrReflectTypeNotNamed.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	limit := maxUnwrap(cfg)

	for i := 0; t != nil && i < limit; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan, reflect.Map:
			// Named containers (e.g. apis.Attrs) are names in their own right.
			if t.Name() != "" {
				return t, nil
			}
			t = t.Elem()

		default:
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		}
	}

	// After reaching max depth, ensure we ended on a named type.
	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// typeNameCache caches derived names by (type, unwrap limit).
var typeNameCache sync.Map // key: nameKey, val: string

type nameKey struct {
	t     reflect.Type
	limit int
}

// TypeName derives a stable "pkg.Type" name for t. Generic instantiation
// parameters are stripped and builtin types yield their bare name
// ("int", "string"). It returns "" when t has no nearest named type.
func TypeName(t reflect.Type, cfg apis.Config) string {
	if t == nil {
		return ""
	}
	key := nameKey{t: t, limit: maxUnwrap(cfg)}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	base, err := Normalize(t, cfg)
	if err != nil {
		typeNameCache.Store(key, "")
		return ""
	}

	name := stripTypeParams(base.Name())
	if p := base.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	}
	typeNameCache.Store(key, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// Indirect follows pointers and interfaces (at most cfg.MaxUnwrap hops) and
// returns the first value that is neither. It reports false for invalid or
// nil values, or when the limit is reached first.
func Indirect(v reflect.Value, cfg apis.Config) (reflect.Value, bool) {
	limit := maxUnwrap(cfg)
	for i := 0; ; i++ {
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		if v.Kind() != reflect.Ptr && v.Kind() != reflect.Interface {
			return v, true
		}
		if v.IsNil() || i >= limit {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
}
