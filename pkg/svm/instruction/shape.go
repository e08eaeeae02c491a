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

// Shape identifies one of the three layouts for the 56 argument bits which
// follow the opcode in an instruction word.
type Shape uint8

const (
	// ShapeA has a single 56bit argument.
	ShapeA Shape = iota
	// ShapeB has a 24bit argument followed by a 32bit argument.
	ShapeB
	// ShapeC has three 16bit arguments.
	ShapeC
)

// Field widths (in bits) for each shape.
var shapeWidths = [3][]uint{
	ShapeA: {56},
	ShapeB: {24, 32},
	ShapeC: {16, 16, 16},
}

// NumFields returns the number of argument fields in this shape.
func (s Shape) NumFields() uint {
	return uint(len(shapeWidths[s]))
}

// Width returns the bitwidth of the ith field of this shape.
func (s Shape) Width(i uint) uint {
	return shapeWidths[s][i]
}

// MaxValue returns the largest value which fits the ith field of this shape.
func (s Shape) MaxValue(i uint) uint64 {
	return (uint64(1) << s.Width(i)) - 1
}

func (s Shape) String() string {
	switch s {
	case ShapeA:
		return "A"
	case ShapeB:
		return "B"
	default:
		return "C"
	}
}
