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
	"fmt"

	"dirpx.dev/fixture/apis"
)

// Reference is an association to a factory looked up by name in the process
// registry when it is resolved. It lets factories in different packages
// refer to each other without importing one another.
type Reference struct {
	name string
	key  string
}

// Ref returns a Reference to the whole result of the named factory.
func Ref(name string) *Reference {
	return &Reference{name: name}
}

// RefField returns a Reference to one key of the named factory's result.
func RefField(name, key string) *Reference {
	return &Reference{name: name, key: key}
}

// Build resolves r outside of any enclosing build.
func (r *Reference) Build() (any, error) {
	return r.Resolve(apis.Scope{})
}

// Resolve implements apis.Deferred. It returns ErrUnknownFactory when no
// factory is registered under the name.
func (r *Reference) Resolve(scope apis.Scope) (any, error) {
	b, ok := Lookup(r.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, r.name)
	}
	return b.Defer(r.key).Resolve(scope)
}

var _ apis.Deferred = (*Reference)(nil)
