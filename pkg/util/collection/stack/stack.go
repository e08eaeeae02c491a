// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package stack

import "math"

// Stack represents a reusable LIFO stack which is implemented using an array.
// A stack may be bounded, in which case pushing beyond its limit fails rather
// than growing the stack.
type Stack[T any] struct {
	items []T
	limit uint
}

// NewStack returns an empty (unbounded) stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{nil, math.MaxUint}
}

// NewBoundedStack returns an empty stack which can hold at most limit items.
func NewBoundedStack[T any](limit uint) *Stack[T] {
	return &Stack[T]{nil, limit}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Limit returns the maximum number of items this stack can hold.
func (p *Stack[T]) Limit() uint {
	return p.limit
}

// Peek at nth item from top of stack.
func (p *Stack[T]) Peek(offset uint) T {
	var n = len(p.items) - int(offset) - 1
	//
	if n < 0 {
		panic("peek out-of-bounds")
	}
	// Get last item
	return p.items[n]
}

// Top returns a pointer to the item on top of the stack, allowing it to be
// updated in place.  The pointer is invalidated by the next push or pop.
func (p *Stack[T]) Top() *T {
	var n = len(p.items)
	//
	if n == 0 {
		panic("top of empty stack")
	}
	//
	return &p.items[n-1]
}

// Push a new item onto the stack, returning false (and leaving the stack
// unchanged) if the stack is already at its limit.
func (p *Stack[T]) Push(item T) bool {
	if uint(len(p.items)) >= p.limit {
		return false
	}
	//
	p.items = append(p.items, item)
	//
	return true
}

// Pop the last item off the stack
func (p *Stack[T]) Pop() T {
	var n = len(p.items)
	//
	if n == 0 {
		panic("cannot pop from empty stack")
	}
	// Get last item
	item := p.items[n-1]
	// Remove last item
	p.items = p.items[:n-1]
	// Done
	return item
}

// Clear removes all items from the stack, retaining its capacity.
func (p *Stack[T]) Clear() {
	p.items = p.items[:0]
}
