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
package register

import (
	"fmt"

	"github.com/consensys/go-svm/pkg/svm/fault"
)

// Window identifies a contiguous range of registers within a register file,
// owned by exactly one active call frame.  Register indices used by
// instructions are relative to the base of the window.
type Window struct {
	Base uint
	Size uint
}

func (w Window) String() string {
	return fmt.Sprintf("[%d..%d)", w.Base, w.Base+w.Size)
}

// File is the register file of a machine: a single arena of registers from
// which windows are allocated in stack order.  Allocating and releasing a
// window are constant time operations (modulo clearing the registers of a newly
// allocated window).
type File struct {
	slots []Value
	// Index of first unallocated slot.
	top uint
}

// NewFile constructs a register file with a given total number of registers.
func NewFile(capacity uint) *File {
	return &File{make([]Value, capacity), 0}
}

// Capacity returns the total number of registers in this file.
func (p *File) Capacity() uint {
	return uint(len(p.slots))
}

// Allocated returns the number of registers currently allocated to windows.
func (p *File) Allocated() uint {
	return p.top
}

// Allocate a fresh window of a given size on top of all existing windows.  All
// registers in the window are reset to Invalid.  This fails with a stack
// overflow fault if the register file is exhausted.
func (p *File) Allocate(size uint) (Window, error) {
	var (
		base = p.top
		end  = base + size
	)
	//
	if end > uint(len(p.slots)) || end < base {
		return Window{}, fault.New(fault.StackOverflow, "register file exhausted (%d + %d > %d)",
			base, size, len(p.slots))
	}
	//
	clear(p.slots[base:end])
	p.top = end
	//
	return Window{base, size}, nil
}

// Release a window, which must be the most recently allocated one.  Its
// registers become available for reuse.
func (p *File) Release(w Window) {
	if w.Base+w.Size != p.top {
		panic(fmt.Sprintf("released window %s is not topmost (top %d)", w, p.top))
	}
	//
	p.top = w.Base
}

// Reset releases all windows.
func (p *File) Reset() {
	p.top = 0
}

// Read the ith register of a given window.
func (p *File) Read(w Window, i uint) (Value, error) {
	if i >= w.Size {
		return Value{}, fault.IndexOutOfBounds("register", uint64(i), uint64(w.Size))
	}
	//
	return p.slots[w.Base+i], nil
}

// Write the ith register of a given window.
func (p *File) Write(w Window, i uint, v Value) error {
	if i >= w.Size {
		return fault.IndexOutOfBounds("register", uint64(i), uint64(w.Size))
	}
	//
	p.slots[w.Base+i] = v
	//
	return nil
}

// ReadInt reads the ith register of a given window, which must hold an integer.
func (p *File) ReadInt(w Window, i uint) (int64, error) {
	v, err := p.readTagged(w, i, Int)
	//
	return v.Int(), err
}

// ReadFloat reads the ith register of a given window, which must hold a float.
func (p *File) ReadFloat(w Window, i uint) (float64, error) {
	v, err := p.readTagged(w, i, Float)
	//
	return v.Float(), err
}

// ReadBool reads the ith register of a given window, which must hold a boolean.
func (p *File) ReadBool(w Window, i uint) (bool, error) {
	v, err := p.readTagged(w, i, Bool)
	//
	return v.Bool(), err
}

// ReadVector reads the ith register of a given window, which must hold a
// vector.
func (p *File) ReadVector(w Window, i uint) (Vector, error) {
	v, err := p.readTagged(w, i, Vec)
	//
	return v.Vector(), err
}

// ReadAny reads the ith register of a given window, which may hold any value
// other than Invalid.
func (p *File) ReadAny(w Window, i uint) (Value, error) {
	v, err := p.Read(w, i)
	//
	if err == nil && v.tag == Invalid {
		return v, fault.New(fault.Type, "register r%d read before being written", i)
	}
	//
	return v, err
}

func (p *File) readTagged(w Window, i uint, tag Tag) (Value, error) {
	v, err := p.Read(w, i)
	//
	if err != nil {
		return v, err
	} else if v.tag != tag {
		return v, fault.TypeMismatch(fmt.Sprintf("register r%d", i), tag, v.tag)
	}
	//
	return v, nil
}

// Contents returns a copy of the registers in a given window.
func (p *File) Contents(w Window) []Value {
	var contents = make([]Value, w.Size)
	//
	copy(contents, p.slots[w.Base:w.Base+w.Size])
	//
	return contents
}
