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

// Package adapter provides the apis.Adapter implementations used to turn a
// merged attribute bag into an entity.
//
//   - Map: the entity is the bag itself, merged onto a template bag.
//   - Struct: the bag is decoded into a copy of a struct model.
//   - JSON: the bag is encoded and decoded into a copy of the model, which
//     honors custom json.Unmarshaler implementations.
//   - Func: any function with the adapter signature.
//
// No adapter modifies the model it is given.
package adapter

import (
	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/utils/merge"
)

// Map returns an adapter whose result is attrs deep-merged onto the model.
func Map() apis.Adapter[apis.Attrs] {
	return mapAdapter{}
}

type mapAdapter struct{}

// Set implements apis.Adapter.
func (mapAdapter) Set(model apis.Attrs, attrs apis.Attrs) (apis.Attrs, error) {
	return merge.Merge(model, attrs), nil
}

// Func adapts a function to apis.Adapter.
type Func[R any] func(model R, attrs apis.Attrs) (R, error)

// Set implements apis.Adapter.
func (fn Func[R]) Set(model R, attrs apis.Attrs) (R, error) {
	return fn(model, attrs)
}

var (
	_ apis.Adapter[apis.Attrs] = mapAdapter{}
	_ apis.Adapter[apis.Attrs] = Func[apis.Attrs](nil)
)
