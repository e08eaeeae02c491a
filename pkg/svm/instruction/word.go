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

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the number of bytes in a serialised instruction word.
const WordSize = 8

const (
	mask16 = uint64(0xFFFF)
	mask24 = uint64(0xFF_FFFF)
	mask32 = uint64(0xFFFF_FFFF)
	mask56 = uint64(0xFF_FFFF_FFFF_FFFF)
)

// Word is an encoded instruction.  The most significant byte holds the opcode,
// whilst the remaining 56 bits hold the arguments laid out according to the
// opcode's shape:
//
//	A: [op:8][arg1:56]
//	B: [op:8][arg1:24][arg2:32]
//	C: [op:8][zero:8][arg1:16][arg2:16][arg3:16]
//
// Thus, the big-endian serialisation of a word carries the opcode at byte 0.
type Word uint64

// Encode an instruction from an opcode and its arguments.  The number of
// arguments must match the opcode's arity, and each argument must fit within
// the corresponding field of the opcode's shape.  Missing trailing arguments
// are not permitted, though fields beyond the opcode's arity (if any) are
// encoded as zero.
func Encode(op Opcode, args ...uint64) (Word, error) {
	if !op.IsValid() {
		return 0, fmt.Errorf("unknown opcode %d", uint8(op))
	} else if uint(len(args)) != op.Arity() {
		return 0, fmt.Errorf("%s expects %d argument(s), got %d", op, op.Arity(), len(args))
	}
	//
	var (
		shape  = op.Shape()
		fields [3]uint64
	)
	//
	for i, arg := range args {
		if arg > shape.MaxValue(uint(i)) {
			return 0, fmt.Errorf("%s argument %d (%d) exceeds %d bits", op, i+1, arg, shape.Width(uint(i)))
		}
		//
		fields[i] = arg
	}
	//
	return pack(op, shape, fields), nil
}

// MustEncode encodes an instruction, panicking if this fails.  This is intended
// for constructing instructions whose arguments are known to be well-formed.
func MustEncode(op Opcode, args ...uint64) Word {
	w, err := Encode(op, args...)
	//
	if err != nil {
		panic(err.Error())
	}
	//
	return w
}

// EncodeA encodes a shape A instruction.
func EncodeA(op Opcode, arg uint64) (Word, error) {
	if err := checkShape(op, ShapeA); err != nil {
		return 0, err
	} else if arg > mask56 {
		return 0, fmt.Errorf("%s argument (%d) exceeds 56 bits", op, arg)
	}
	//
	return pack(op, ShapeA, [3]uint64{arg}), nil
}

// EncodeB encodes a shape B instruction.
func EncodeB(op Opcode, arg1 uint32, arg2 uint32) (Word, error) {
	if err := checkShape(op, ShapeB); err != nil {
		return 0, err
	} else if uint64(arg1) > mask24 {
		return 0, fmt.Errorf("%s argument (%d) exceeds 24 bits", op, arg1)
	}
	//
	return pack(op, ShapeB, [3]uint64{uint64(arg1), uint64(arg2)}), nil
}

// EncodeC encodes a shape C instruction.
func EncodeC(op Opcode, arg1, arg2, arg3 uint16) (Word, error) {
	if err := checkShape(op, ShapeC); err != nil {
		return 0, err
	}
	//
	return pack(op, ShapeC, [3]uint64{uint64(arg1), uint64(arg2), uint64(arg3)}), nil
}

func checkShape(op Opcode, shape Shape) error {
	if !op.IsValid() {
		return fmt.Errorf("unknown opcode %d", uint8(op))
	} else if op.Shape() != shape {
		return fmt.Errorf("%s has shape %s, not %s", op, op.Shape(), shape)
	}
	//
	return nil
}

func pack(op Opcode, shape Shape, fields [3]uint64) Word {
	var word = uint64(op) << 56
	//
	switch shape {
	case ShapeA:
		word |= fields[0] & mask56
	case ShapeB:
		word |= (fields[0]&mask24)<<32 | fields[1]&mask32
	case ShapeC:
		word |= (fields[0]&mask16)<<32 | (fields[1]&mask16)<<16 | fields[2]&mask16
	}
	//
	return Word(word)
}

// Decode a word into its opcode, shape and raw argument fields.  This never
// fails: any word decodes to some opcode and shape, though the opcode may not be
// valid.  Fields not present in the shape are returned as zero.
func Decode(w Word) (Opcode, Shape, [3]uint64) {
	var (
		op    = w.Opcode()
		shape = op.Shape()
	)
	//
	switch shape {
	case ShapeA:
		return op, shape, [3]uint64{w.Arg56()}
	case ShapeB:
		return op, shape, [3]uint64{uint64(w.Arg24()), uint64(w.Arg32())}
	default:
		return op, shape, [3]uint64{uint64(w.Arg16(0)), uint64(w.Arg16(1)), uint64(w.Arg16(2))}
	}
}

// Opcode returns the opcode of this word.
func (w Word) Opcode() Opcode {
	return Opcode(uint64(w) >> 56)
}

// Arg56 returns the single argument of a shape A word.
func (w Word) Arg56() uint64 {
	return uint64(w) & mask56
}

// Arg24 returns the first argument of a shape B word.
func (w Word) Arg24() uint32 {
	return uint32((uint64(w) >> 32) & mask24)
}

// Arg32 returns the second argument of a shape B word.
func (w Word) Arg32() uint32 {
	return uint32(uint64(w) & mask32)
}

// Arg16 returns the ith argument (counting from zero) of a shape C word.
func (w Word) Arg16(i uint) uint16 {
	return uint16(uint64(w) >> (32 - 16*i))
}

// SignedArg56 interprets the argument of a shape A word as a two's complement
// signed offset.
func (w Word) SignedArg56() int64 {
	return SignExtend(w.Arg56(), 56)
}

// SignedArg32 interprets the second argument of a shape B word as a two's
// complement signed offset.
func (w Word) SignedArg32() int64 {
	return int64(int32(w.Arg32()))
}

// SignExtend interprets the low n bits of value as a two's complement integer.
func SignExtend(value uint64, n uint) int64 {
	var shift = 64 - n
	//
	return int64(value<<shift) >> shift
}

// Offset56 converts a signed offset into the raw argument of a shape A word,
// returning false if it does not fit.
func Offset56(offset int64) (uint64, bool) {
	if offset < -(1<<55) || offset >= (1<<55) {
		return 0, false
	}
	//
	return uint64(offset) & mask56, true
}

// Bytes returns the big-endian serialisation of this word.
func (w Word) Bytes() [WordSize]byte {
	var bytes [WordSize]byte
	//
	binary.BigEndian.PutUint64(bytes[:], uint64(w))
	//
	return bytes
}

// FromBytes decodes a sequence of big-endian words.  The number of bytes must
// be a multiple of the word size.
func FromBytes(bytes []byte) ([]Word, error) {
	if len(bytes)%WordSize != 0 {
		return nil, fmt.Errorf("code length %d is not a multiple of %d", len(bytes), WordSize)
	}
	//
	words := make([]Word, len(bytes)/WordSize)
	//
	for i := range words {
		words[i] = Word(binary.BigEndian.Uint64(bytes[i*WordSize:]))
	}
	//
	return words, nil
}

// ToBytes serialises a sequence of words in big-endian form.
func ToBytes(words []Word) []byte {
	var bytes = make([]byte, 0, len(words)*WordSize)
	//
	for _, w := range words {
		bytes = binary.BigEndian.AppendUint64(bytes, uint64(w))
	}
	//
	return bytes
}
