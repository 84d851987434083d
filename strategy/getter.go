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
	"dirpx.dev/fixture/apis"
)

// NewGetterStrategy creates an apis.Strategy that uses apis.Getter.
func NewGetterStrategy() apis.Strategy {
	return &getterStrategy{}
}

// getterStrategy is a zero-cost fast path: if v implements apis.Getter,
// ask it directly and skip reflection.
type getterStrategy struct{}

// Ensure getterStrategy implements apis.Strategy.
var _ apis.Strategy = (*getterStrategy)(nil)

// TryExtract checks if v implements apis.Getter and returns v.Attr(key).
func (*getterStrategy) TryExtract(v any, key string, _ apis.Config) (any, bool) {
	if v == nil {
		return nil, false
	}
	if g, ok := v.(apis.Getter); ok {
		return g.Attr(key)
	}
	return nil, false
}
