// Copyright 2026 Arcentra Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ringbuffer provides a fixed-capacity FIFO buffer. Appending past
// capacity evicts the oldest entry, so memory stays bounded no matter how
// many entries pass through.
package ringbuffer

// Ring is a bounded FIFO buffer. Not safe for concurrent use; callers hold
// their own lock.
type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

// New creates a ring holding at most capacity entries. Panics when capacity
// is not positive.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ringbuffer: capacity must be positive")
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Append adds v as the newest entry, evicting the oldest when full.
func (r *Ring[T]) Append(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of entries currently held.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Newest returns the most recently appended entry. The second return is
// false when the ring is empty.
func (r *Ring[T]) Newest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.start+r.size-1)%len(r.buf)], true
}

// Items returns the held entries oldest first, as a fresh slice.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}
