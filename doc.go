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

// Package fixture builds test fixtures from default-attribute recipes.
//
// A Factory pairs a generator of default attributes with a model and an
// adapter. Building runs the generator, resolves any associations the
// generator embedded, deep-merges the caller's override on top and lets the
// adapter turn the merged attributes into the final entity:
//
//	users := fixture.New(func(*fixture.NoParams) apis.Attrs {
//		return apis.Attrs{
//			"id":    seq.Sprintf("user-%d"),
//			"name":  "Ada",
//			"email": "ada@example.com",
//		}
//	}, User{}, adapter.Struct[User]())
//
//	u, err := users.Build(apis.Attrs{"name": "Grace"})
//
// # Overrides
//
// Overrides win at every leaf. Nested mappings merge key by key, so an
// override may name only the fields it cares about at any depth. This holds
// for resolved structs, pointers to structs and typed maps as well: a mapping
// override merges into them and keeps their type. Any other
// override value, including nil and slices, replaces the default outright.
// Neither the defaults nor the override are modified by a build.
//
// BuildMany takes an apis.Partials: an apis.Seq gives element i its own
// partial (no override once the sequence runs out) and a single apis.Attrs
// applies to every element.
//
// # Associations
//
// A generator may place an apis.Deferred anywhere in its bag, including
// inside nested mappings and []any values:
//
//	posts := fixture.New(func(*fixture.NoParams) apis.Attrs {
//		return apis.Attrs{
//			"title":    "Hello",
//			"author":   users.Associate(),
//			"authorID": users.AssociateField("id"),
//		}
//	}, apis.Attrs{}, adapter.Map())
//
// Every resolution runs a fresh build of the associated factory; nothing is
// memoized. AssociateField reads one key of the result through the
// configured apis.Resolver (Getter, then map key, then struct field by name
// or tag). Keys of a bag are resolved in sorted order.
//
// Factories that would import each other can instead Register themselves
// and use Ref or RefField, which look the factory up by name at build time.
//
// An association chain deeper than Config.MaxDepth fails with an
// *AssociationCycleError listing the factory path, which is how a cyclic
// graph between factories surfaces.
//
// # Errors
//
// Errors returned by an adapter and panics raised by a generator reach the
// caller unchanged. The package's own failures are ErrInvalidArgument,
// ErrAssociationCycle, ErrUnknownFactory and resolver.ErrFieldNotFound.
//
// # Global state
//
// The package holds a read-mostly snapshot of Config, Registry, Resolver and
// Builder behind an atomic pointer. Reads never lock. Writers (SetConfig,
// SetBuilder, SetRegistry, SetResolver, SetAll and the pin helpers) take a
// build mutex, derive a new snapshot and publish it. SetRegistry and
// SetResolver pin the layer they install so that later SetConfig or
// SetBuilder calls leave it alone until it is unpinned.
//
// New captures Config and Resolver from the snapshot at construction, so a
// factory keeps behaving the same after the global state changes. Save and
// Restore let tests isolate their changes to the snapshot.
package fixture
