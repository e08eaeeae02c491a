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
	insn "github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/register"
)

// guard evaluates the guard register of a conditional jump, returning true if
// the jump should be taken.  The T forms jump when the guard is true, whilst
// the F forms jump when it is false.
func (m *Machine) guard(win register.Window, w insn.Word) (bool, error) {
	var reg = uint(w.Arg24())
	//
	v, err := m.registers.Read(win, reg)
	if err != nil {
		return false, err
	}
	//
	truth, ok := v.Truth()
	if !ok {
		return false, fault.New(fault.Type, "register r%d holds %s, expected a condition", reg, v.Tag())
	}
	//
	switch w.Opcode() {
	case insn.JmpT, insn.JmpTC, insn.RJmpT, insn.RJmpTC:
		return truth, nil
	default:
		return !truth, nil
	}
}

// jumpAbsolute transfers control to a given instruction index, measured from
// the entry point of the active frame's function.
func (m *Machine) jumpAbsolute(index uint64) error {
	var (
		frame = m.frames.Top()
		n     = uint64(m.program.Len())
		entry = uint64(frame.Entry)
	)
	//
	if index >= n-entry {
		return fault.New(fault.Index, "jump target @%d out of bounds (entry %d, size %d)", index, entry, n)
	}
	//
	frame.IP = uint(entry + index)
	//
	return nil
}

// jumpRelative transfers control to an instruction relative to the one which
// follows the jump.  Thus, an offset of zero falls through.
func (m *Machine) jumpRelative(offset int64) error {
	var (
		frame = m.frames.Top()
		next  = int64(frame.IP)
		n     = int64(m.program.Len())
	)
	//
	if offset < -next || offset >= n-next {
		return fault.New(fault.Index, "jump offset %+d from %d out of bounds (size %d)", offset, next, n)
	}
	//
	frame.IP = uint(next + offset)
	//
	return nil
}
