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
package constant

import (
	"fmt"
	"math"

	"github.com/consensys/go-svm/pkg/svm/register"
)

// Kind identifies the kind of a constant.
type Kind uint8

const (
	// Int is a signed 64bit integer literal.
	Int Kind = iota
	// Float is a 64bit floating point literal.
	Float
	// Bool is a boolean literal.
	Bool
	// Target is an absolute jump target, given as an instruction index relative
	// to the start of the enclosing function's code.
	Target
	// Offset is a signed relative jump offset.
	Offset
	// Function describes a callable function.
	Function
	// Vector is a vector literal.
	Vector
	// NumKinds is the number of constant kinds.
	NumKinds
)

var kindNames = [NumKinds]string{"int", "float", "bool", "target", "offset", "function", "vector"}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind%d", uint8(k))
}

// Func describes the calling information of a function, as needed by the call
// instruction.
type Func struct {
	// Entry is the instruction index of the first instruction of the function.
	Entry uint32
	// Window is the number of registers required by the function, including
	// its parameters.
	Window uint32
	// Returns is the number of values the function returns.
	Returns uint16
}

// Constant is an immutable literal held in a constant pool.
type Constant struct {
	kind Kind
	bits uint64
	fn   Func
	vec  register.Vector
}

// NewInt constructs an integer constant.
func NewInt(v int64) Constant {
	return Constant{kind: Int, bits: uint64(v)}
}

// NewFloat constructs a float constant.
func NewFloat(v float64) Constant {
	return Constant{kind: Float, bits: math.Float64bits(v)}
}

// NewBool constructs a boolean constant.
func NewBool(v bool) Constant {
	if v {
		return Constant{kind: Bool, bits: 1}
	}
	//
	return Constant{kind: Bool}
}

// NewTarget constructs an absolute jump target constant.
func NewTarget(index uint64) Constant {
	return Constant{kind: Target, bits: index}
}

// NewOffset constructs a relative jump offset constant.
func NewOffset(offset int64) Constant {
	return Constant{kind: Offset, bits: uint64(offset)}
}

// NewFunction constructs a function constant.
func NewFunction(entry uint32, window uint32, returns uint16) Constant {
	return Constant{kind: Function, fn: Func{entry, window, returns}}
}

// NewVector constructs a vector constant.
func NewVector(v register.Vector) Constant {
	return Constant{kind: Vector, vec: v}
}

// Kind returns the kind of this constant.
func (c Constant) Kind() Kind {
	return c.kind
}

// Int returns the payload of an integer constant.
func (c Constant) Int() int64 {
	return int64(c.bits)
}

// Float returns the payload of a float constant.
func (c Constant) Float() float64 {
	return math.Float64frombits(c.bits)
}

// Bool returns the payload of a boolean constant.
func (c Constant) Bool() bool {
	return c.bits != 0
}

// Target returns the payload of a target constant.
func (c Constant) Target() uint64 {
	return c.bits
}

// Offset returns the payload of an offset constant.
func (c Constant) Offset() int64 {
	return int64(c.bits)
}

// Function returns the payload of a function constant.
func (c Constant) Function() Func {
	return c.fn
}

// Vector returns the payload of a vector constant.
func (c Constant) Vector() register.Vector {
	return c.vec
}

// Value converts this constant into a register value, as performed by the load
// instructions.  Jump targets and offsets load as integers.  Functions have no
// register representation.
func (c Constant) Value() (register.Value, bool) {
	switch c.kind {
	case Int, Offset:
		return register.IntValue(c.Int()), true
	case Target:
		return register.IntValue(int64(c.bits)), true
	case Float:
		return register.FloatValue(c.Float()), true
	case Bool:
		return register.BoolValue(c.Bool()), true
	case Vector:
		return register.VectorValue(c.vec), true
	default:
		return register.Value{}, false
	}
}

func (c Constant) String() string {
	switch c.kind {
	case Target:
		return fmt.Sprintf("target @%d", c.bits)
	case Offset:
		return fmt.Sprintf("offset %+d", c.Offset())
	case Function:
		return fmt.Sprintf("function @%d (window %d, returns %d)", c.fn.Entry, c.fn.Window, c.fn.Returns)
	}
	//
	v, _ := c.Value()
	//
	return fmt.Sprintf("%s %s", c.kind, v)
}
