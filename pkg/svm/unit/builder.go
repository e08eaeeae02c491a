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
package unit

import (
	"fmt"

	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/instruction"
)

// Builder provides a mechanical means of constructing a bytecode unit, for use
// by hosts and tests which generate code directly.  Errors are accumulated
// rather than returned from each call, and reported when the unit is built.
type Builder struct {
	code      []instruction.Word
	constants []constant.Constant
	entry     uint32
	window    uint32
	errors    []error
}

// NewBuilder constructs an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Emit appends an instruction, returning its index.
func (p *Builder) Emit(op instruction.Opcode, args ...uint64) uint64 {
	var pc = uint64(len(p.code))
	//
	w, err := instruction.Encode(op, args...)
	if err != nil {
		p.errors = append(p.errors, fmt.Errorf("[%d] %w", pc, err))
	}
	//
	p.code = append(p.code, w)
	//
	return pc
}

// Patch replaces the instruction at a given index.  This is typically used to
// resolve forward jumps once their target is known.
func (p *Builder) Patch(pc uint64, op instruction.Opcode, args ...uint64) {
	if pc >= uint64(len(p.code)) {
		p.errors = append(p.errors, fmt.Errorf("patch of unknown instruction [%d]", pc))
		return
	}
	//
	w, err := instruction.Encode(op, args...)
	if err != nil {
		p.errors = append(p.errors, fmt.Errorf("[%d] %w", pc, err))
	}
	//
	p.code[pc] = w
}

// Here returns the index of the next instruction to be emitted.
func (p *Builder) Here() uint64 {
	return uint64(len(p.code))
}

// Constant appends a constant to the table, returning its index.
func (p *Builder) Constant(c constant.Constant) uint64 {
	p.constants = append(p.constants, c)
	//
	return uint64(len(p.constants) - 1)
}

// Offset returns the raw argument for a relative jump, emitted at index from,
// which transfers control to index to.
func (p *Builder) Offset(from uint64, to uint64) uint64 {
	raw, ok := instruction.Offset56(int64(to) - int64(from) - 1)
	//
	if !ok {
		p.errors = append(p.errors, fmt.Errorf("[%d] offset to [%d] out of range", from, to))
	}
	//
	return raw
}

// Offset32 returns the raw argument for a conditional relative jump, emitted at
// index from, which transfers control to index to.
func (p *Builder) Offset32(from uint64, to uint64) uint64 {
	return uint64(uint32(int32(int64(to) - int64(from) - 1)))
}

// WithEntry sets the entry point of the unit.
func (p *Builder) WithEntry(entry uint32) *Builder {
	p.entry = entry
	return p
}

// WithWindow sets the number of registers for the outermost frame.
func (p *Builder) WithWindow(window uint32) *Builder {
	p.window = window
	return p
}

// Build returns the unit constructed thus far, or the errors encountered.
func (p *Builder) Build() (Unit, []error) {
	if len(p.errors) > 0 {
		return Unit{}, p.errors
	}
	//
	return Unit{p.code, p.constants, p.entry, p.window}, nil
}

// MustBuild returns the unit constructed thus far, panicking if any errors
// were encountered.
func (p *Builder) MustBuild() Unit {
	u, errs := p.Build()
	//
	if len(errs) > 0 {
		panic(errs[0].Error())
	}
	//
	return u
}
