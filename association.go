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
	"dirpx.dev/fixture/apis"
)

// Association is a deferred build of a factory, optionally narrowed to one
// key of the result. It holds no state besides the factory and the key:
// every resolution runs a fresh build.
type Association[P, R any] struct {
	factory *Factory[P, R]
	key     string
}

// Key returns the selected key, or "" for the whole result.
func (a *Association[P, R]) Key() string { return a.key }

// Build builds the factory with no override and no params and returns the
// result, or only the selected key of it.
func (a *Association[P, R]) Build() (any, error) {
	return a.Resolve(apis.Scope{})
}

// Resolve implements apis.Deferred.
func (a *Association[P, R]) Resolve(scope apis.Scope) (any, error) {
	r, err := a.factory.build(scope, nil, nil)
	if err != nil {
		return nil, err
	}
	if a.key == "" {
		return r, nil
	}
	return a.factory.res.Extract(r, a.key, a.factory.cfg)
}

var _ apis.Deferred = (*Association[NoParams, apis.Attrs])(nil)
