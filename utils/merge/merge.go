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

// Package merge implements the deep merge and deep clone used to combine
// default attributes with caller overrides.
//
// Precedence rules:
//   - mapping onto mapping: merged key by key, recursively;
//   - mapping onto a struct, a non-nil pointer to a struct or a string-keyed
//     map of any other type: merged field by field, keeping the default's type;
//   - anything else: the override value replaces the default wholesale,
//     including nil and sequences (no concatenation);
//   - keys absent from the override keep their default values.
//
// A mapping is a non-nil map with string keys, most often an apis.Attrs or a
// map[string]any. Struct fields are named by their json tag, falling back to
// the field name. Results never share mutable mappings or []any sequences
// with either input.
package merge

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tiendc/go-deepcopy"

	"dirpx.dev/fixture/apis"
)

// Merge returns a fresh bag holding src deep-merged onto dst.
// Neither argument is modified.
func Merge(dst, src apis.Attrs) apis.Attrs {
	out := make(apis.Attrs, len(dst)+len(src))
	for k, v := range dst {
		out[k] = Clone(v)
	}
	mergeInto(out, src)
	return out
}

// mergeInto merges src onto dm in place. dm must be a private copy.
func mergeInto(dm, src map[string]any) {
	for k, v := range src {
		if cur, ok := dm[k]; ok {
			dm[k] = mergeValue(cur, v)
			continue
		}
		dm[k] = Clone(v)
	}
}

// mergeValue merges src onto an already cloned dst.
func mergeValue(dst, src any) any {
	sm, ok := asMap(src)
	if !ok {
		return Clone(src)
	}
	switch d := dst.(type) {
	case apis.Attrs:
		if d != nil {
			mergeInto(d, sm)
			return d
		}
	case map[string]any:
		if d != nil {
			mergeInto(d, sm)
			return d
		}
	default:
		if out, ok := mergeObject(dst, sm); ok {
			return out
		}
	}
	return Clone(src)
}

// asMap reports whether v is a non-nil mapping and returns its entries.
// Typed string-keyed maps are viewed through a fresh map[string]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case apis.Attrs:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// mergeObject merges sm onto a typed map or struct dst. It reports false
// when dst is neither, leaving the override to replace it.
func mergeObject(dst any, sm map[string]any) (any, bool) {
	rv := reflect.ValueOf(dst)
	switch rv.Kind() {
	case reflect.Map:
		if dm, ok := asMap(dst); ok {
			return mergeTypedMap(rv.Type(), dm, sm), true
		}
	case reflect.Struct:
		return mergeStruct(rv, sm)
	case reflect.Ptr:
		if !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
			return mergeStruct(rv, sm)
		}
	}
	return nil, false
}

// mergeTypedMap merges sm onto the entries dm of a map of type t. The result
// has type t unless a merged value does not fit its element type, in which
// case it is a map[string]any.
func mergeTypedMap(t reflect.Type, dm, sm map[string]any) any {
	for k, v := range dm {
		dm[k] = Clone(v)
	}
	mergeInto(dm, sm)

	out := reflect.MakeMapWithSize(t, len(dm))
	for k, v := range dm {
		ev, ok := assignable(v, t.Elem())
		if !ok {
			return dm
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
	}
	return out.Interface()
}

// assignable returns v as a value assignable to t.
func assignable(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return rv, true
}

// mergeStruct merges sm onto a copy of the struct, or pointer to struct, rv.
// Exported fields are exposed as a mapping, merged and decoded back with
// mapstructure onto a copy that keeps the unexported state. It reports false
// when the struct has no mergeable fields or the merged values do not decode.
func mergeStruct(rv reflect.Value, sm map[string]any) (any, bool) {
	sv := rv
	if rv.Kind() == reflect.Ptr {
		sv = rv.Elem()
	}
	t := sv.Type()

	dm := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := fieldKey(t.Field(i)); ok {
			dm[name] = Clone(sv.Field(i).Interface())
		}
	}
	if len(dm) == 0 {
		return nil, false
	}
	for k, v := range sm {
		k = canonicalKey(dm, k)
		if cur, ok := dm[k]; ok {
			dm[k] = mergeValue(cur, v)
			continue
		}
		dm[k] = Clone(v)
	}

	target := reflect.New(t)
	target.Elem().Set(copyValue(sv))
	for i := 0; i < t.NumField(); i++ {
		if _, ok := fieldKey(t.Field(i)); ok {
			f := target.Elem().Field(i)
			f.Set(reflect.Zero(f.Type()))
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		ZeroFields: true,
		Result:     target.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, false
	}
	if err := dec.Decode(dm); err != nil {
		return nil, false
	}
	if rv.Kind() == reflect.Ptr {
		return target.Interface(), true
	}
	return target.Elem().Interface(), true
}

// fieldKey returns the mapping key of f: its json tag name, else its name.
// Unexported, embedded and json:"-" fields have none.
func fieldKey(f reflect.StructField) (string, bool) {
	if !f.IsExported() || f.Anonymous {
		return "", false
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return "", false
	case "":
		return f.Name, true
	}
	return name, true
}

// canonicalKey maps k onto an existing key of dm that differs only in case.
func canonicalKey(dm map[string]any, k string) string {
	if _, ok := dm[k]; ok {
		return k
	}
	for name := range dm {
		if strings.EqualFold(name, k) {
			return name
		}
	}
	return k
}

// Clone returns a deep copy of v.
//
// Mappings and []any are copied recursively so that nested Deferred values
// survive untouched. Other reference-carrying values go through Copy.
// Scalars and Deferred values are returned unchanged.
func Clone(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case apis.Attrs:
		if t == nil {
			return t
		}
		out := make(apis.Attrs, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case apis.Deferred:
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return copyValue(rv).Interface()
	default:
		return v
	}
}

// Copy returns a copy of v that shares no reachable pointers, maps or
// slices with it.
//
// Types whose reachable structs all have exported fields only are
// deep-copied with go-deepcopy. Types carrying unexported state (time.Time,
// sync primitives, opaque handles) cannot be copied faithfully that way;
// for those, pointers get a fresh pointee holding a shallow copy and every
// other value is copied by assignment.
func Copy[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface {
		return v
	}
	return copyValue(rv).Interface().(T)
}

// copyValue implements Copy on a reflect.Value.
func copyValue(rv reflect.Value) reflect.Value {
	t := rv.Type()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return rv
		}
	}
	if deepCopyable(t) {
		src := reflect.New(t)
		src.Elem().Set(rv)
		dst := reflect.New(t)
		if err := deepcopy.Copy(dst.Interface(), src.Interface()); err == nil {
			return dst.Elem()
		}
	}
	if t.Kind() == reflect.Ptr {
		p := reflect.New(t.Elem())
		p.Elem().Set(rv.Elem())
		return p
	}
	return rv
}

// deepCopyableCache memoizes deepCopyable by type.
var deepCopyableCache sync.Map // key: reflect.Type, val: bool

// deepCopyable reports whether every struct reachable from t has only
// exported fields and t contains no channels, funcs or interfaces.
func deepCopyable(t reflect.Type) bool {
	if v, ok := deepCopyableCache.Load(t); ok {
		return v.(bool)
	}
	ok := walkCopyable(t, map[reflect.Type]bool{})
	deepCopyableCache.Store(t, ok)
	return ok
}

func walkCopyable(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return true
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return false
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return walkCopyable(t.Elem(), seen)
	case reflect.Map:
		return walkCopyable(t.Key(), seen) && walkCopyable(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || !walkCopyable(f.Type, seen) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
