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
	"math"

	"github.com/consensys/go-svm/pkg/svm/fault"
	insn "github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/register"
)

// execute a single instruction within the active frame, whose instruction
// pointer has already been advanced past it.  Every opcode has its own case
// here, and the numeric kind of every operand is fixed by the opcode.  An
// instruction which faults never writes its target register.
//
// Integer Add, Sub, Mult and Neg wrap on overflow (two's complement).  Integer
// Div and Mod of the most negative integer by -1 also wrap, giving the most
// negative integer and zero respectively.
//
//nolint:gocyclo
func (m *Machine) execute(w insn.Word) error {
	var (
		regs = m.registers
		win  = m.frames.Top().Window
		// Shape C operands
		dst = uint(w.Arg16(0))
		lhs = uint(w.Arg16(1))
		rhs = uint(w.Arg16(2))
	)
	//
	switch w.Opcode() {
	// memory
	case insn.Load:
		v, err := m.pool.Value(uint64(w.Arg16(1)))
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, v)
	case insn.LoadC:
		v, err := m.pool.Value(uint64(w.Arg32()))
		if err != nil {
			return err
		}
		//
		return regs.Write(win, uint(w.Arg24()), v)
	// integer arithmetic
	case insn.Add:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x+y))
	case insn.Sub:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x-y))
	case insn.Mult:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x*y))
	case insn.Div:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		} else if y == 0 {
			return divisionByZero(rhs)
		}
		//
		return regs.Write(win, dst, register.IntValue(x/y))
	case insn.Mod:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		} else if y == 0 {
			return divisionByZero(rhs)
		}
		//
		return regs.Write(win, dst, register.IntValue(x%y))
	case insn.Neg:
		x, err := regs.ReadInt(win, lhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(-x))
	// float arithmetic
	case insn.FAdd:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.FloatValue(x+y))
	case insn.FSub:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.FloatValue(x-y))
	case insn.FMult:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.FloatValue(x*y))
	case insn.FDiv:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		} else if y == 0 {
			return divisionByZero(rhs)
		}
		//
		return regs.Write(win, dst, register.FloatValue(x/y))
	case insn.FNeg:
		x, err := regs.ReadFloat(win, lhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.FloatValue(-x))
	// vector arithmetic
	case insn.SimdAdd:
		x, y, err := m.vectors(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		for i := range x {
			x[i] += y[i]
		}
		//
		return regs.Write(win, dst, register.VectorValue(x))
	case insn.SimdSub:
		x, y, err := m.vectors(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		for i := range x {
			x[i] -= y[i]
		}
		//
		return regs.Write(win, dst, register.VectorValue(x))
	case insn.SimdMult:
		x, y, err := m.vectors(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		for i := range x {
			x[i] *= y[i]
		}
		//
		return regs.Write(win, dst, register.VectorValue(x))
	case insn.SimdDiv:
		x, y, err := m.vectors(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		for i := range y {
			if y[i] == 0 {
				return divisionByZero(rhs)
			}
		}
		//
		for i := range x {
			x[i] /= y[i]
		}
		//
		return regs.Write(win, dst, register.VectorValue(x))
	// conversions
	case insn.CastI:
		x, err := regs.ReadFloat(win, lhs)
		if err != nil {
			return err
		} else if math.IsNaN(x) || x >= math.MaxInt64 || x < math.MinInt64 {
			return fault.New(fault.Arithmetic, "float %g in r%d has no integer representation", x, lhs)
		}
		//
		return regs.Write(win, dst, register.IntValue(int64(x)))
	case insn.CastF:
		x, err := regs.ReadInt(win, lhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.FloatValue(float64(x)))
	// integer comparison
	case insn.Lt:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x < y))
	case insn.LtEq:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x <= y))
	case insn.Gt:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x > y))
	case insn.GtEq:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x >= y))
	case insn.Eq:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x == y))
	case insn.Neq:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x != y))
	// float comparison
	case insn.FLt:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x < y))
	case insn.FLtEq:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x <= y))
	case insn.FGt:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x > y))
	case insn.FGtEq:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x >= y))
	case insn.FEq:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x == y))
	case insn.FNeq:
		x, y, err := m.floats(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x != y))
	// logical
	case insn.Not:
		x, err := regs.ReadBool(win, lhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(!x))
	case insn.And:
		x, y, err := m.bools(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x && y))
	case insn.Or:
		x, y, err := m.bools(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x || y))
	case insn.Xor:
		x, y, err := m.bools(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.BoolValue(x != y))
	// bitwise
	case insn.BNot:
		x, err := regs.ReadInt(win, lhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(^x))
	case insn.BAnd:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x&y))
	case insn.BOr:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x|y))
	case insn.BXor:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x^y))
	case insn.Bsl:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		// Shift amounts are taken modulo the word width
		return regs.Write(win, dst, register.IntValue(x<<(uint64(y)&63)))
	case insn.Bsr:
		x, y, err := m.ints(win, lhs, rhs)
		if err != nil {
			return err
		}
		//
		return regs.Write(win, dst, register.IntValue(x>>(uint64(y)&63)))
	// conditional branching
	case insn.JmpT, insn.JmpF:
		if taken, err := m.guard(win, w); err != nil || !taken {
			return err
		}
		//
		return m.jumpAbsolute(uint64(w.Arg32()))
	case insn.JmpTC, insn.JmpFC:
		if taken, err := m.guard(win, w); err != nil || !taken {
			return err
		}
		//
		target, err := m.pool.Target(uint64(w.Arg32()))
		if err != nil {
			return err
		}
		//
		return m.jumpAbsolute(target)
	case insn.RJmpT, insn.RJmpF:
		if taken, err := m.guard(win, w); err != nil || !taken {
			return err
		}
		//
		return m.jumpRelative(w.SignedArg32())
	case insn.RJmpTC, insn.RJmpFC:
		if taken, err := m.guard(win, w); err != nil || !taken {
			return err
		}
		//
		offset, err := m.pool.Offset(uint64(w.Arg32()))
		if err != nil {
			return err
		}
		//
		return m.jumpRelative(offset)
	// branching
	case insn.Call:
		return m.call(win, uint(w.Arg16(0)), uint(w.Arg16(1)), uint64(w.Arg16(2)))
	case insn.Ret:
		return m.ret(win, uint(w.Arg16(0)), uint(w.Arg16(1)))
	case insn.Jmp:
		return m.jumpAbsolute(w.Arg56())
	case insn.RJmp:
		return m.jumpRelative(w.SignedArg56())
	case insn.JmpC:
		target, err := m.pool.Target(w.Arg56())
		if err != nil {
			return err
		}
		//
		return m.jumpAbsolute(target)
	case insn.RJmpC:
		offset, err := m.pool.Offset(w.Arg56())
		if err != nil {
			return err
		}
		//
		return m.jumpRelative(offset)
	// misc
	case insn.Nop:
		return nil
	case insn.Print:
		v, err := regs.ReadAny(win, dst)
		if err != nil {
			return err
		}
		//
		if err := m.output.Emit(v.String()); err != nil {
			m.log.Warnf("failed to echo emission: %s", err)
		}
		//
		return nil
	default:
		return fault.New(fault.Decode, "unknown opcode %d", uint8(w.Opcode()))
	}
}

func (m *Machine) ints(win register.Window, lhs, rhs uint) (int64, int64, error) {
	x, err := m.registers.ReadInt(win, lhs)
	if err != nil {
		return 0, 0, err
	}
	//
	y, err := m.registers.ReadInt(win, rhs)
	//
	return x, y, err
}

func (m *Machine) floats(win register.Window, lhs, rhs uint) (float64, float64, error) {
	x, err := m.registers.ReadFloat(win, lhs)
	if err != nil {
		return 0, 0, err
	}
	//
	y, err := m.registers.ReadFloat(win, rhs)
	//
	return x, y, err
}

func (m *Machine) bools(win register.Window, lhs, rhs uint) (bool, bool, error) {
	x, err := m.registers.ReadBool(win, lhs)
	if err != nil {
		return false, false, err
	}
	//
	y, err := m.registers.ReadBool(win, rhs)
	//
	return x, y, err
}

func (m *Machine) vectors(win register.Window, lhs, rhs uint) (register.Vector, register.Vector, error) {
	var zero register.Vector
	//
	x, err := m.registers.ReadVector(win, lhs)
	if err != nil {
		return zero, zero, err
	}
	//
	y, err := m.registers.ReadVector(win, rhs)
	//
	return x, y, err
}

func divisionByZero(reg uint) error {
	return fault.New(fault.Arithmetic, "division by zero (r%d)", reg)
}
