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

// Attrs is an attribute bag: attribute name to value.
//
// A value is either a literal (scalars, nested Attrs or map[string]any,
// slices, arbitrary Go values) or a Deferred that is resolved when the
// owning factory builds.
type Attrs map[string]any

// Partial returns the bag itself for every index, so a single Attrs passed
// where Partials are expected is applied to each element independently.
func (a Attrs) Partial(int) Attrs { return a }

// Seq is an ordered sequence of partial overrides. Element i of a
// many-build uses Seq[i]; indexes past the end use no override.
type Seq []Attrs

// Partial returns the i-th override, or nil when the sequence is shorter.
func (s Seq) Partial(i int) Attrs {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

// Partials selects the override for the i-th element of a many-build.
type Partials interface {
	Partial(i int) Attrs
}

// Ensure Attrs and Seq implement Partials.
var (
	_ Partials = Attrs(nil)
	_ Partials = Seq(nil)
)
