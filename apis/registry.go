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

package apis

// Registry maps factory names to factories so that fixtures can reference
// each other by name without importing one another.
type Registry interface {
	// Register associates name with b.
	// Implementations should be idempotent; conflicting re-registrations return an error.
	Register(name string, b Buildable) error
	// Lookup returns the factory registered under name.
	Lookup(name string) (b Buildable, ok bool)
	// Entries returns a snapshot for diagnostics/docs, sorted by name.
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (name, factory) association in a Registry snapshot.
type Entry struct {
	// Name is the registered name.
	Name string
	// Factory is the registered factory.
	Factory Buildable
}
