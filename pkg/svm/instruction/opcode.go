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
package instruction

import "fmt"

// Opcode identifies the operation performed by an instruction, and occupies the
// most significant byte of an instruction word.  The set of opcodes is closed:
// any byte value at or beyond NumOpcodes does not correspond to an operation.
type Opcode uint8

// NOTE: the numbering of opcodes is part of the binary format and, hence,
// existing values must not be reordered.
const (
	// Load writes constant arg2 into register arg1.
	Load Opcode = iota
	// LoadC is the wide form of Load, using a 24bit register and a 32bit
	// constant index.
	LoadC
	// Add performs wrapping integer addition.
	Add
	// Sub performs wrapping integer subtraction.
	Sub
	// Mult performs wrapping integer multiplication.
	Mult
	// Div performs integer division, faulting on a zero divisor.
	Div
	// Mod performs integer remainder, faulting on a zero divisor.
	Mod
	// Neg performs wrapping integer negation.
	Neg
	// FAdd performs floating point addition.
	FAdd
	// FSub performs floating point subtraction.
	FSub
	// FMult performs floating point multiplication.
	FMult
	// FDiv performs floating point division, faulting on a zero divisor.
	FDiv
	// FNeg performs floating point negation.
	FNeg
	// SimdAdd performs lane-wise vector addition.
	SimdAdd
	// SimdSub performs lane-wise vector subtraction.
	SimdSub
	// SimdMult performs lane-wise vector multiplication.
	SimdMult
	// SimdDiv performs lane-wise vector division, faulting if any lane of the
	// divisor is zero.
	SimdDiv
	// CastI converts a float into an integer (truncating towards zero).
	CastI
	// CastF converts an integer into a float.
	CastF
	// Lt is integer "less than".
	Lt
	// LtEq is integer "less than or equal".
	LtEq
	// Gt is integer "greater than".
	Gt
	// GtEq is integer "greater than or equal".
	GtEq
	// Eq is integer equality.
	Eq
	// Neq is integer disequality.
	Neq
	// FLt is float "less than".
	FLt
	// FLtEq is float "less than or equal".
	FLtEq
	// FGt is float "greater than".
	FGt
	// FGtEq is float "greater than or equal".
	FGtEq
	// FEq is float equality.
	FEq
	// FNeq is float disequality.
	FNeq
	// Not is logical negation.
	Not
	// And is logical conjunction.
	And
	// Or is logical disjunction.
	Or
	// Xor is logical exclusive-or.
	Xor
	// BNot is bitwise complement.
	BNot
	// BAnd is bitwise and.
	BAnd
	// BOr is bitwise or.
	BOr
	// BXor is bitwise exclusive-or.
	BXor
	// Bsl is bitwise shift left.
	Bsl
	// Bsr is (arithmetic) bitwise shift right.
	Bsr
	// JmpT branches to an absolute target when its guard is true.
	JmpT
	// JmpF branches to an absolute target when its guard is false.
	JmpF
	// JmpTC branches to a constant target when its guard is true.
	JmpTC
	// JmpFC branches to a constant target when its guard is false.
	JmpFC
	// RJmpT branches by a relative offset when its guard is true.
	RJmpT
	// RJmpF branches by a relative offset when its guard is false.
	RJmpF
	// RJmpTC branches by a constant offset when its guard is true.
	RJmpTC
	// RJmpFC branches by a constant offset when its guard is false.
	RJmpFC
	// Call invokes the function described by a constant.
	Call
	// Ret returns from the current function.
	Ret
	// Jmp branches unconditionally to an absolute target.
	Jmp
	// RJmp branches unconditionally by a relative offset.
	RJmp
	// JmpC branches unconditionally to a constant target.
	JmpC
	// RJmpC branches unconditionally by a constant offset.
	RJmpC
	// Nop does nothing.  Any arguments are ignored.
	Nop
	// Print emits the textual representation of a register.
	Print
	// NumOpcodes is the number of valid opcodes.
	NumOpcodes
)

// opcodeInfo captures the static properties of a given opcode.
type opcodeInfo struct {
	mnemonic string
	shape    Shape
	arity    uint
}

// The static opcode table.  Every valid opcode has exactly one entry, which is
// checked when this package is initialised.
var opcodes = [NumOpcodes]opcodeInfo{
	Load:     {"load", ShapeC, 2},
	LoadC:    {"loadc", ShapeB, 2},
	Add:      {"add", ShapeC, 3},
	Sub:      {"sub", ShapeC, 3},
	Mult:     {"mult", ShapeC, 3},
	Div:      {"div", ShapeC, 3},
	Mod:      {"mod", ShapeC, 3},
	Neg:      {"neg", ShapeC, 2},
	FAdd:     {"fadd", ShapeC, 3},
	FSub:     {"fsub", ShapeC, 3},
	FMult:    {"fmult", ShapeC, 3},
	FDiv:     {"fdiv", ShapeC, 3},
	FNeg:     {"fneg", ShapeC, 2},
	SimdAdd:  {"simdadd", ShapeC, 3},
	SimdSub:  {"simdsub", ShapeC, 3},
	SimdMult: {"simdmult", ShapeC, 3},
	SimdDiv:  {"simddiv", ShapeC, 3},
	CastI:    {"casti", ShapeC, 2},
	CastF:    {"castf", ShapeC, 2},
	Lt:       {"lt", ShapeC, 3},
	LtEq:     {"lteq", ShapeC, 3},
	Gt:       {"gt", ShapeC, 3},
	GtEq:     {"gteq", ShapeC, 3},
	Eq:       {"eq", ShapeC, 3},
	Neq:      {"neq", ShapeC, 3},
	FLt:      {"flt", ShapeC, 3},
	FLtEq:    {"flteq", ShapeC, 3},
	FGt:      {"fgt", ShapeC, 3},
	FGtEq:    {"fgteq", ShapeC, 3},
	FEq:      {"feq", ShapeC, 3},
	FNeq:     {"fneq", ShapeC, 3},
	Not:      {"not", ShapeC, 2},
	And:      {"and", ShapeC, 3},
	Or:       {"or", ShapeC, 3},
	Xor:      {"xor", ShapeC, 3},
	BNot:     {"bnot", ShapeC, 2},
	BAnd:     {"band", ShapeC, 3},
	BOr:      {"bor", ShapeC, 3},
	BXor:     {"bxor", ShapeC, 3},
	Bsl:      {"bsl", ShapeC, 3},
	Bsr:      {"bsr", ShapeC, 3},
	JmpT:     {"jmpt", ShapeB, 2},
	JmpF:     {"jmpf", ShapeB, 2},
	JmpTC:    {"jmptc", ShapeB, 2},
	JmpFC:    {"jmpfc", ShapeB, 2},
	RJmpT:    {"rjmpt", ShapeB, 2},
	RJmpF:    {"rjmpf", ShapeB, 2},
	RJmpTC:   {"rjmptc", ShapeB, 2},
	RJmpFC:   {"rjmpfc", ShapeB, 2},
	Call:     {"call", ShapeC, 3},
	Ret:      {"ret", ShapeC, 2},
	Jmp:      {"jmp", ShapeA, 1},
	RJmp:     {"rjmp", ShapeA, 1},
	JmpC:     {"jmpc", ShapeA, 1},
	RJmpC:    {"rjmpc", ShapeA, 1},
	Nop:      {"nop", ShapeA, 0},
	Print:    {"print", ShapeC, 1},
}

func init() {
	for op, info := range opcodes {
		if info.mnemonic == "" || info.arity > info.shape.NumFields() {
			panic(fmt.Sprintf("malformed opcode table entry %d", op))
		}
	}
}

// IsValid determines whether or not this opcode is a member of the instruction
// set.
func (op Opcode) IsValid() bool {
	return op < NumOpcodes
}

// Shape returns the argument shape of this opcode.  This is a pure function of
// the opcode and, for an invalid opcode, returns ShapeA (which makes no
// assumptions about the argument bits).
func (op Opcode) Shape() Shape {
	if op.IsValid() {
		return opcodes[op].shape
	}
	//
	return ShapeA
}

// Arity returns the number of meaningful arguments for this opcode.  This never
// exceeds the number of fields available in its shape.
func (op Opcode) Arity() uint {
	if op.IsValid() {
		return opcodes[op].arity
	}
	//
	return 0
}

func (op Opcode) String() string {
	if op.IsValid() {
		return opcodes[op].mnemonic
	}
	//
	return fmt.Sprintf("op%d", uint8(op))
}

// ParseOpcode returns the opcode with the given mnemonic, or false if no such
// opcode exists.
func ParseOpcode(mnemonic string) (Opcode, bool) {
	for op, info := range opcodes {
		if info.mnemonic == mnemonic {
			return Opcode(op), true
		}
	}
	//
	return NumOpcodes, false
}

// IsJump determines whether this opcode belongs to one of the jump families.
func (op Opcode) IsJump() bool {
	return (op >= JmpT && op <= RJmpFC) || (op >= Jmp && op <= RJmpC)
}

// ReadsConstant determines whether this opcode has an argument which indexes
// the constant pool and, if so, which argument (counted from zero) it is.
func (op Opcode) ReadsConstant() (uint, bool) {
	switch op {
	case Load, LoadC, JmpTC, JmpFC, RJmpTC, RJmpFC:
		return 1, true
	case Call:
		return 2, true
	case JmpC, RJmpC:
		return 0, true
	default:
		return 0, false
	}
}
