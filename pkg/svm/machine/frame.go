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
package machine

import (
	"fmt"

	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/register"
	"github.com/consensys/go-svm/pkg/util/collection/stack"
)

// Frame represents an executing function on the call stack.  The frame owns
// its register window for as long as it is on the stack.  The frame of the
// caller is the one immediately beneath it on the stack.
type Frame struct {
	// IP is the instruction pointer.  Whilst an instruction is executing, this
	// already identifies the instruction which follows it.
	IP uint
	// Entry is the index of the first instruction of this frame's function.
	// Absolute jump targets are relative to this.
	Entry uint
	// Window of registers owned by this frame.
	Window register.Window
	// Dest is the register in the caller's window where the first return value
	// is written.
	Dest uint
	// Returns is the number of values the caller expects to be returned.
	Returns uint
}

func (f Frame) String() string {
	return fmt.Sprintf("ip=%d entry=%d window=%s", f.IP, f.Entry, f.Window)
}

// CallStack is the sequence of active frames, bounded by a maximum depth.
type CallStack struct {
	frames *stack.Stack[Frame]
}

// NewCallStack constructs an empty call stack which can hold at most maxDepth
// frames.
func NewCallStack(maxDepth uint) *CallStack {
	return &CallStack{stack.NewBoundedStack[Frame](maxDepth)}
}

// Push a new frame onto the stack, failing with a stack overflow fault if this
// would exceed the maximum depth.
func (p *CallStack) Push(f Frame) error {
	if !p.frames.Push(f) {
		return fault.New(fault.StackOverflow, "call depth exceeds maximum of %d", p.frames.Limit())
	}
	//
	return nil
}

// Pop the topmost frame off the stack.
func (p *CallStack) Pop() Frame {
	return p.frames.Pop()
}

// Top returns the active (i.e. topmost) frame, which can be updated in place.
// The returned pointer is invalidated by the next push or pop.
func (p *CallStack) Top() *Frame {
	return p.frames.Top()
}

// Depth returns the number of frames on the stack.
func (p *CallStack) Depth() uint {
	return p.frames.Len()
}

// IsFull determines whether pushing another frame would exceed the maximum
// depth.
func (p *CallStack) IsFull() bool {
	return p.frames.Len() >= p.frames.Limit()
}

// Backtrace returns the frames on the stack, starting from the active frame.
func (p *CallStack) Backtrace() []Frame {
	var frames = make([]Frame, p.frames.Len())
	//
	for i := range frames {
		frames[i] = p.frames.Peek(uint(i))
	}
	//
	return frames
}
