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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned when a caller passes an out-of-range
	// argument, such as a negative count to BuildMany.
	ErrInvalidArgument = errors.New("fixture: invalid argument")
	// ErrAssociationCycle is matched by every *AssociationCycleError.
	ErrAssociationCycle = errors.New("fixture: association cycle")
	// ErrUnknownFactory is returned when a Reference names a factory that
	// is not registered.
	ErrUnknownFactory = errors.New("fixture: unknown factory")
	// ErrNilAdapter is the panic value of New when no adapter is given.
	ErrNilAdapter = errors.New("fixture: nil adapter")
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("fixture: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("fixture: builder returned nil resolver")
)

// AssociationCycleError reports a chain of associations nested deeper than
// the configured MaxDepth. Path lists factory names from the outermost build.
type AssociationCycleError struct {
	Path  []string
	Limit int
}

// Error implements error.
func (e *AssociationCycleError) Error() string {
	return fmt.Sprintf("%s: depth limit %d exceeded: %s",
		ErrAssociationCycle, e.Limit, strings.Join(e.Path, " -> "))
}

// Is reports whether target is ErrAssociationCycle.
func (e *AssociationCycleError) Is(target error) bool {
	return target == ErrAssociationCycle
}
