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
	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/instruction"
)

// Unit is a bytecode unit, as produced by a compiler or assembler: a sequence
// of encoded instructions together with a table of constants.  A unit has not
// necessarily been checked and, hence, must be loaded before it can be
// executed.
type Unit struct {
	// Code is the sequence of encoded instructions.
	Code []instruction.Word
	// Constants is the constant table.
	Constants []constant.Constant
	// Entry is the instruction index at which execution begins.
	Entry uint32
	// Window is the number of registers for the outermost frame.  If this is
	// zero, the machine's configured default is used.
	Window uint32
}

// Program is a loaded (i.e. checked) bytecode unit.  A program is immutable
// and, hence, can be executed by any number of machines concurrently.
type Program struct {
	code   []instruction.Word
	pool   *constant.Pool
	entry  uint
	window uint
}

// Load checks a given unit is well-formed and, if so, returns the corresponding
// program.  Specifically: the code must be non-empty; every opcode must be
// recognised; every constant index referenced from the code must be within the
// constant table; and every function (and the entry point) must begin within
// the code.  If any check fails, a load fault is returned.
func Load(u Unit) (*Program, error) {
	var (
		ncode  = uint64(len(u.Code))
		nconst = uint64(len(u.Constants))
	)
	//
	if ncode == 0 {
		return nil, fault.New(fault.Load, "unit has no code")
	} else if uint64(u.Entry) >= ncode {
		return nil, fault.New(fault.Load, "entry point @%d outside code (length %d)", u.Entry, ncode)
	}
	//
	for pc, w := range u.Code {
		op, _, args := instruction.Decode(w)
		//
		if !op.IsValid() {
			return nil, fault.New(fault.Load, "[%d] unknown opcode %d", pc, uint8(op))
		} else if arg, ok := op.ReadsConstant(); ok && args[arg] >= nconst {
			return nil, fault.New(fault.Load, "[%d] %s references constant #%d outside table (size %d)",
				pc, w, args[arg], nconst)
		}
	}
	//
	for i, c := range u.Constants {
		if c.Kind() >= constant.NumKinds {
			return nil, fault.New(fault.Load, "constant #%d has unknown kind %d", i, c.Kind())
		} else if c.Kind() == constant.Function && uint64(c.Function().Entry) >= ncode {
			return nil, fault.New(fault.Load, "constant #%d: function entry @%d outside code (length %d)",
				i, c.Function().Entry, ncode)
		}
	}
	//
	code := make([]instruction.Word, ncode)
	copy(code, u.Code)
	//
	return &Program{code, constant.NewPool(u.Constants...), uint(u.Entry), uint(u.Window)}, nil
}

// MustLoad loads a unit, panicking if it is malformed.
func MustLoad(u Unit) *Program {
	p, err := Load(u)
	//
	if err != nil {
		panic(err.Error())
	}
	//
	return p
}

// Len returns the number of instructions in this program.
func (p *Program) Len() uint {
	return uint(len(p.code))
}

// At returns the instruction at a given index, which must be within bounds.
func (p *Program) At(pc uint) instruction.Word {
	return p.code[pc]
}

// Code returns a copy of the instructions in this program.
func (p *Program) Code() []instruction.Word {
	var code = make([]instruction.Word, len(p.code))
	//
	copy(code, p.code)
	//
	return code
}

// Pool returns the (shared, read-only) constant pool of this program.
func (p *Program) Pool() *constant.Pool {
	return p.pool
}

// Entry returns the instruction index at which execution begins.
func (p *Program) Entry() uint {
	return p.entry
}

// Window returns the number of registers requested for the outermost frame, or
// zero if no specific number was requested.
func (p *Program) Window() uint {
	return p.window
}

// Unit returns a bytecode unit equivalent to this program.
func (p *Program) Unit() Unit {
	return Unit{p.Code(), p.pool.Entries(), uint32(p.entry), uint32(p.window)}
}
