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

// Package sequence provides counters and identifiers for generators that
// need unique attribute values across builds.
package sequence

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequence is a monotonic counter safe for concurrent use.
// The zero value counts from 0.
type Sequence struct {
	start int64
	next  atomic.Int64
}

// New returns a Sequence whose first Next returns start.
func New(start int64) *Sequence {
	s := &Sequence{start: start}
	s.next.Store(start)
	return s
}

// Next returns the current value and advances the sequence.
func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}

// Peek returns the value the next call to Next will return.
func (s *Sequence) Peek() int64 {
	return s.next.Load()
}

// Sprintf formats the next value with format, e.g. "user-%d".
func (s *Sequence) Sprintf(format string) string {
	return fmt.Sprintf(format, s.Next())
}

// Reset rewinds the sequence to its start value.
func (s *Sequence) Reset() {
	s.next.Store(s.start)
}

// UUID returns a random (version 4) UUID in its canonical string form.
func UUID() string {
	return uuid.NewString()
}
