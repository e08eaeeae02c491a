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
	"math"
	"strconv"
	"strings"
)

// Lanes is the number of lanes in a vector value.
const Lanes = 4

// Vector is the payload of a vector value, as operated on by the SIMD family of
// instructions.
type Vector [Lanes]float64

// Tag identifies the kind of value held in a register.  The tag is determined
// by the instruction which wrote the register, and is checked by any
// instruction which reads it.
type Tag uint8

const (
	// Invalid is the tag of a register which has not been written since its
	// window was allocated.
	Invalid Tag = iota
	// Int tags a signed 64bit integer.
	Int
	// Float tags a 64bit floating point number.
	Float
	// Bool tags a boolean.
	Bool
	// Vec tags a vector of floats.
	Vec
)

func (t Tag) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Vec:
		return "vector"
	default:
		return "invalid"
	}
}

// Value is the contents of a single register.  Scalars are held as raw bits,
// whilst vectors have their own payload.
type Value struct {
	tag  Tag
	bits uint64
	vec  Vector
}

// IntValue constructs an integer value.
func IntValue(v int64) Value {
	return Value{tag: Int, bits: uint64(v)}
}

// FloatValue constructs a float value.
func FloatValue(v float64) Value {
	return Value{tag: Float, bits: math.Float64bits(v)}
}

// BoolValue constructs a boolean value.
func BoolValue(v bool) Value {
	if v {
		return Value{tag: Bool, bits: 1}
	}
	//
	return Value{tag: Bool}
}

// VectorValue constructs a vector value.
func VectorValue(v Vector) Value {
	return Value{tag: Vec, vec: v}
}

// Tag returns the tag of this value.
func (v Value) Tag() Tag {
	return v.tag
}

// Int returns the payload of an integer value.  The result is meaningless for
// values with any other tag.
func (v Value) Int() int64 {
	return int64(v.bits)
}

// Float returns the payload of a float value.
func (v Value) Float() float64 {
	return math.Float64frombits(v.bits)
}

// Bool returns the payload of a boolean value.
func (v Value) Bool() bool {
	return v.bits != 0
}

// Vector returns the payload of a vector value.
func (v Value) Vector() Vector {
	return v.vec
}

// Truth returns the boolean interpretation of this value, as used by
// conditional jumps.  Integers and floats are true when non-zero.  Invalid
// values and vectors have no boolean interpretation.
func (v Value) Truth() (bool, bool) {
	switch v.tag {
	case Bool:
		return v.bits != 0, true
	case Int:
		return v.bits != 0, true
	case Float:
		return v.Float() != 0, true
	default:
		return false, false
	}
}

func (v Value) String() string {
	switch v.tag {
	case Int:
		return strconv.FormatInt(v.Int(), 10)
	case Float:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Bool())
	case Vec:
		var builder strings.Builder
		//
		builder.WriteString("<")
		//
		for i, lane := range v.vec {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(strconv.FormatFloat(lane, 'g', -1, 64))
		}
		//
		builder.WriteString(">")
		//
		return builder.String()
	default:
		return "<invalid>"
	}
}
