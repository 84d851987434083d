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

import "go.uber.org/zap"

// Config carries read-only knobs that influence factories, adapters and
// key extraction. It is passed by value and should be treated as immutable
// by implementations.
type Config struct {
	// MaxDepth bounds association nesting within a single build.
	// Exceeding it is reported as an association cycle.
	MaxDepth int

	// MaxUnwrap limits pointer/interface unwrapping when reading a key
	// from a built entity or deriving a factory name.
	MaxUnwrap int

	// FieldTag is the struct tag consulted when matching attribute keys
	// to struct fields (hydration and key extraction).
	FieldTag string

	// ErrorUnused makes struct hydration fail when an attribute has no
	// matching field.
	ErrorUnused bool

	// Logger receives build diagnostics. Nil disables logging.
	Logger *zap.Logger
}
