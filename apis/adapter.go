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

// Adapter materializes the final entity from a model handle and a fully
// resolved, merged attribute bag.
//
// The model is shared by every build of a factory. Implementations may
// derive a fresh value from it or return something unrelated, but they
// must not mutate it in place if concurrent builds are expected.
type Adapter[R any] interface {
	// Set returns the entity described by model and attrs.
	Set(model R, attrs Attrs) (R, error)
}
