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

	"dirpx.dev/fixture/apis"
	uref "dirpx.dev/fixture/utils/reflect"
)

// NewMapStrategy creates an apis.Strategy that reads keys from string-keyed maps.
func NewMapStrategy() apis.Strategy {
	return mapStrategy{}
}

// mapStrategy handles apis.Attrs, map[string]any and any other map whose
// key kind is string, after unwrapping pointers and interfaces.
type mapStrategy struct{}

// Ensure mapStrategy implements apis.Strategy.
var _ apis.Strategy = (*mapStrategy)(nil)

// TryExtract looks key up in v when v is a string-keyed map.
func (mapStrategy) TryExtract(v any, key string, cfg apis.Config) (any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case apis.Attrs:
		val, ok := m[key]
		return val, ok
	case map[string]any:
		val, ok := m[key]
		return val, ok
	}

	rv, ok := uref.Indirect(reflect.ValueOf(v), cfg)
	if !ok || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}
