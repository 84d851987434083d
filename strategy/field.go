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

package strategy

import (
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/fixture/apis"
	uref "dirpx.dev/fixture/utils/reflect"
)

// NewFieldStrategy creates an apis.Strategy that reads exported struct
// fields via reflection, with memoized field lookup.
func NewFieldStrategy() apis.Strategy {
	return fieldStrategy{}
}

// fieldStrategy is the universal fallback for struct entities. A key
// matches, in order of preference:
//  1. the exact Go field name;
//  2. the name in the cfg.FieldTag struct tag (before the first comma);
//  3. the Go field name, case-insensitively.
//
// Promoted fields of embedded structs are considered as well.
type fieldStrategy struct{}

// Ensure fieldStrategy implements apis.Strategy.
var _ apis.Strategy = (*fieldStrategy)(nil)

// cacheKey ensures memoization respects every input that affects lookup.
type cacheKey struct {
	t   reflect.Type
	key string
	tag string
}

// fieldIndexCache caches field index paths by (type, key, tag).
// A nil index records a miss.
var fieldIndexCache sync.Map // key: cacheKey, val: []int

// TryExtract reads key from v when v is (a pointer to) a struct.
func (fieldStrategy) TryExtract(v any, key string, cfg apis.Config) (any, bool) {
	if v == nil || key == "" {
		return nil, false
	}
	rv, ok := uref.Indirect(reflect.ValueOf(v), cfg)
	if !ok || rv.Kind() != reflect.Struct {
		return nil, false
	}

	idx := fieldIndex(rv.Type(), key, cfg.FieldTag)
	if idx == nil {
		return nil, false
	}
	fv, err := rv.FieldByIndexErr(idx)
	if err != nil {
		// Promoted through a nil embedded pointer.
		return nil, false
	}
	return fv.Interface(), true
}

// fieldIndex resolves key to a field index path on t with memoization.
func fieldIndex(t reflect.Type, key, tag string) []int {
	ck := cacheKey{t: t, key: key, tag: tag}
	if v, ok := fieldIndexCache.Load(ck); ok {
		return v.([]int)
	}

	var byName, byTag, byFold []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous && f.Type.Kind() == reflect.Struct && f.Name != key {
			continue
		}
		switch {
		case f.Name == key:
			byName = f.Index
		case byTag == nil && tag != "" && tagName(f, tag) == key:
			byTag = f.Index
		case byFold == nil && strings.EqualFold(f.Name, key):
			byFold = f.Index
		}
		if byName != nil {
			break
		}
	}

	idx := byName
	if idx == nil {
		idx = byTag
	}
	if idx == nil {
		idx = byFold
	}
	fieldIndexCache.Store(ck, idx)
	return idx
}

// tagName returns the name part of f's tag, or "" when absent or "-".
func tagName(f reflect.StructField, tag string) string {
	raw, ok := f.Tag.Lookup(tag)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(raw, ",")
	if name == "-" {
		return ""
	}
	return name
}
