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

package builder

import (
	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/registry"
	"dirpx.dev/fixture/resolver"
	"dirpx.dev/fixture/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Name, e.Factory)
		}
	}
	return nreg
}

// BuildResolver builds and returns the default key extraction chain:
// Getter, then string-keyed maps, then struct fields.
func (b *builder) BuildResolver(_ apis.Config) apis.Resolver {
	return resolver.New(
		strategy.NewGetterStrategy(),
		strategy.NewMapStrategy(),
		strategy.NewFieldStrategy(),
	)
}
