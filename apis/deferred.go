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

// Deferred is an attribute value that is computed when the owning factory
// builds, typically another factory's build output.
//
// An attribute value is either a Deferred or a literal; factories tell the
// two apart with a type switch and resolve only the former.
type Deferred interface {
	// Resolve produces the value within the enclosing build scope.
	Resolve(s Scope) (any, error)
}

// Buildable is the type-erased view of a factory used by registries and
// late-bound references.
type Buildable interface {
	// Name returns the factory name used in logs, errors and registries.
	Name() string
	// Defer returns a Deferred that builds this factory when resolved.
	// An empty key yields the whole entity; otherwise only that key.
	Defer(key string) Deferred
}

// Scope carries association state through nested builds.
type Scope struct {
	// Depth is the number of enclosing factory builds.
	Depth int
	// Path lists the names of the enclosing factories, outermost first.
	Path []string
}

// Enter returns the scope for a build of the named factory nested in s.
// The returned Path never aliases s.Path.
func (s Scope) Enter(name string) Scope {
	path := make([]string, len(s.Path), len(s.Path)+1)
	copy(path, s.Path)
	return Scope{Depth: s.Depth + 1, Path: append(path, name)}
}

// Getter is implemented by entities that expose attributes by key without
// reflection. Key extraction prefers it over every other strategy.
type Getter interface {
	// Attr returns the value stored under key.
	Attr(key string) (any, bool)
}
