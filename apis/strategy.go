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

// Strategy is a pluggable key extraction step. A Resolver can chain
// multiple strategies in order (e.g., Getter -> Map -> Field).
type Strategy interface {
	// TryExtract attempts to read key from v according to cfg.
	// It returns (value, true) if found; otherwise (nil, false) to fall through.
	TryExtract(v any, key string, cfg Config) (value any, found bool)
}
