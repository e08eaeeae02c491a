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
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/register"
)

// call invokes the function identified by a given constant, passing argc
// arguments taken from consecutive registers of the caller's window beginning
// at start.  The callee receives a fresh window (with every register Invalid)
// whose leading registers hold the arguments.  Return values are later written
// back to the caller's window beginning at start.
func (m *Machine) call(win register.Window, argc uint, start uint, index uint64) error {
	fn, err := m.pool.Function(index)
	if err != nil {
		return err
	}
	//
	var (
		window  = uint(fn.Window)
		returns = uint(fn.Returns)
		entry   = uint(fn.Entry)
	)
	//
	switch {
	case m.frames.IsFull():
		return fault.New(fault.StackOverflow, "call depth exceeds maximum of %d", m.frames.Depth())
	case argc > window:
		return fault.New(fault.Index, "%d arguments exceed callee window of %d", argc, window)
	case start+argc > win.Size:
		return fault.New(fault.Index, "arguments r%d..r%d outside window of %d", start, start+argc, win.Size)
	case start+returns > win.Size:
		return fault.New(fault.Index, "returns r%d..r%d outside window of %d", start, start+returns, win.Size)
	}
	//
	callee, err := m.registers.Allocate(window)
	if err != nil {
		return err
	}
	// Pass arguments
	for i := uint(0); i < argc; i++ {
		v, _ := m.registers.Read(win, start+i)
		_ = m.registers.Write(callee, i, v)
	}
	//
	if err := m.frames.Push(Frame{IP: entry, Entry: entry, Window: callee, Dest: start, Returns: returns}); err != nil {
		m.registers.Release(callee)
		return err
	}
	//
	if m.trace {
		m.log.Tracef("call @%d (depth %d, window %s)", entry, m.frames.Depth(), callee)
	}
	//
	return nil
}

// ret returns n values, held in consecutive registers of the active window
// beginning at start, to the caller.  Returning from the outermost frame halts
// the machine with those values.
func (m *Machine) ret(win register.Window, n uint, start uint) error {
	if start+n > win.Size {
		return fault.New(fault.Index, "returns r%d..r%d outside window of %d", start, start+n, win.Size)
	}
	//
	values := m.registers.Contents(register.Window{Base: win.Base + start, Size: n})
	//
	if m.frames.Depth() == 1 {
		m.halt(values)
		return nil
	}
	//
	frame := m.frames.Top()
	if n != frame.Returns {
		return fault.New(fault.Index, "returned %d values, expected %d", n, frame.Returns)
	}
	//
	callee := m.frames.Pop()
	m.registers.Release(callee.Window)
	// Deliver return values
	caller := m.frames.Top().Window
	//
	for i, v := range values {
		if err := m.registers.Write(caller, callee.Dest+uint(i), v); err != nil {
			return err
		}
	}
	//
	return nil
}
