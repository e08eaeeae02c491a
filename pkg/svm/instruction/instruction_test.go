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
	"math/rand/v2"
	"testing"
)

func Test_Codec_01(t *testing.T) {
	// Boundary values for every opcode.
	for op := Load; op < NumOpcodes; op++ {
		checkRoundTrip(t, op, func(shape Shape, i uint) uint64 { return 0 })
		checkRoundTrip(t, op, func(shape Shape, i uint) uint64 { return 1 })
		checkRoundTrip(t, op, func(shape Shape, i uint) uint64 { return shape.MaxValue(i) })
	}
}

func Test_Codec_02(t *testing.T) {
	var rng = rand.New(rand.NewPCG(1, 2))
	// Really hammer it.
	for n := 0; n < 10000; n++ {
		op := Opcode(rng.UintN(uint(NumOpcodes)))
		checkRoundTrip(t, op, func(shape Shape, i uint) uint64 { return rng.Uint64() & shape.MaxValue(i) })
	}
}

func Test_Codec_03(t *testing.T) {
	// Every opcode has one shape, and never more arguments than its fields.
	for op := Load; op < NumOpcodes; op++ {
		shape := op.Shape()
		//
		if shape != ShapeA && shape != ShapeB && shape != ShapeC {
			t.Errorf("opcode %s has unknown shape %d", op, shape)
		} else if op.Arity() > shape.NumFields() {
			t.Errorf("opcode %s has arity %d exceeding shape %s", op, op.Arity(), shape)
		}
	}
}

func Test_Codec_04(t *testing.T) {
	// Arguments too wide for their field are rejected.
	checkEncodeFails(t, Add, 1<<16, 0, 0)
	checkEncodeFails(t, Add, 0, 0, 1<<16)
	checkEncodeFails(t, JmpT, 1<<24, 0)
	checkEncodeFails(t, JmpT, 0, 1<<32)
	checkEncodeFails(t, Jmp, 1<<56)
	// Wrong number of arguments.
	checkEncodeFails(t, Add, 1, 2)
	checkEncodeFails(t, Nop, 1)
	// Invalid opcode
	checkEncodeFails(t, NumOpcodes)
	// Shape specific encoders reject other shapes.
	if _, err := EncodeA(Add, 0); err == nil {
		t.Errorf("EncodeA accepted shape C opcode")
	}
	//
	if _, err := EncodeB(Jmp, 0, 0); err == nil {
		t.Errorf("EncodeB accepted shape A opcode")
	}
	//
	if _, err := EncodeC(JmpT, 0, 0, 0); err == nil {
		t.Errorf("EncodeC accepted shape B opcode")
	}
}

func Test_Codec_05(t *testing.T) {
	w, err := EncodeC(Add, 1, 2, 3)
	//
	if err != nil {
		t.Fatal(err)
	} else if w != Word(uint64(Add)<<56|1<<32|2<<16|3) {
		t.Errorf("unexpected encoding 0x%016x", uint64(w))
	}
	// Opcode must be at byte 0
	if bytes := w.Bytes(); bytes[0] != byte(Add) {
		t.Errorf("opcode not at byte 0: %v", bytes)
	}
	//
	if w, _ := EncodeB(JmpF, 0xABCDEF, 0x12345678); w.Arg24() != 0xABCDEF || w.Arg32() != 0x12345678 {
		t.Errorf("unexpected shape B fields %x, %x", w.Arg24(), w.Arg32())
	}
}

func Test_Codec_06(t *testing.T) {
	// Any word decodes to something, even if the opcode is invalid.
	for i := uint64(0); i < 256; i++ {
		op, shape, _ := Decode(Word(i<<56 | 0xFFFF))
		//
		if uint64(op) != i {
			t.Errorf("decoded opcode %d, expected %d", op, i)
		} else if op.IsValid() != (i < uint64(NumOpcodes)) {
			t.Errorf("unexpected validity for opcode %d", i)
		} else if !op.IsValid() && shape != ShapeA {
			t.Errorf("invalid opcode should decode as shape A")
		}
	}
}

func Test_Codec_07(t *testing.T) {
	checkSignedOffset56(t, 0)
	checkSignedOffset56(t, 1)
	checkSignedOffset56(t, -1)
	checkSignedOffset56(t, (1<<55)-1)
	checkSignedOffset56(t, -(1 << 55))
	//
	if _, ok := Offset56(1 << 55); ok {
		t.Errorf("offset 2^55 should not fit")
	}
	//
	w, _ := EncodeB(RJmpF, 0, uint32(0xFFFFFFFE))
	if w.SignedArg32() != -2 {
		t.Errorf("expected -2, got %d", w.SignedArg32())
	}
}

func Test_Codec_08(t *testing.T) {
	var code = []Word{
		MustEncode(Load, 3, 10),
		MustEncode(Add, 1, 2, 3),
		MustEncode(JmpF, 0, 2),
		MustEncode(RJmp, 0xFF_FFFF_FFFF_FFFE),
		MustEncode(Call, 2, 4, 1),
		MustEncode(Nop),
		MustEncode(Print, 7),
	}
	//
	words, err := FromBytes(ToBytes(code))
	if err != nil {
		t.Fatal(err)
	}
	//
	for i := range code {
		if words[i] != code[i] {
			t.Errorf("word %d differs after serialisation", i)
		}
	}
	//
	if _, err := FromBytes(make([]byte, 9)); err == nil {
		t.Errorf("expected error for truncated code")
	}
	//
	checkString(t, code[0], "load r3, #10")
	checkString(t, code[1], "add r1, r2, r3")
	checkString(t, code[2], "jmpf r0, @2")
	checkString(t, code[3], "rjmp -2")
	checkString(t, code[4], "call 2, r4, #1")
	checkString(t, code[5], "nop")
	checkString(t, code[6], "print r7")
}

func Test_Codec_09(t *testing.T) {
	for op := Load; op < NumOpcodes; op++ {
		if parsed, ok := ParseOpcode(op.String()); !ok || parsed != op {
			t.Errorf("mnemonic %s does not parse back", op)
		}
	}
	//
	if _, ok := ParseOpcode("frobnicate"); ok {
		t.Errorf("unknown mnemonic parsed")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkRoundTrip(t *testing.T, op Opcode, gen func(Shape, uint) uint64) {
	var (
		shape = op.Shape()
		args  = make([]uint64, op.Arity())
	)
	//
	for i := range args {
		args[i] = gen(shape, uint(i))
	}
	//
	w, err := Encode(op, args...)
	if err != nil {
		t.Fatalf("encoding %s%v failed: %s", op, args, err)
	}
	//
	dop, dshape, fields := Decode(w)
	//
	if dop != op || dshape != shape {
		t.Errorf("decoded %s/%s, expected %s/%s", dop, dshape, op, shape)
	}
	//
	for i, arg := range args {
		if fields[i] != arg {
			t.Errorf("%s argument %d decoded as %d, expected %d", op, i, fields[i], arg)
		}
	}
	// Unused fields remain zero
	for i := len(args); i < 3; i++ {
		if fields[i] != 0 {
			t.Errorf("%s unused field %d is %d", op, i, fields[i])
		}
	}
}

func checkEncodeFails(t *testing.T, op Opcode, args ...uint64) {
	if _, err := Encode(op, args...); err == nil {
		t.Errorf("encoding %s%v should have failed", op, args)
	}
}

func checkSignedOffset56(t *testing.T, offset int64) {
	raw, ok := Offset56(offset)
	if !ok {
		t.Fatalf("offset %d should fit", offset)
	}
	//
	w := MustEncode(RJmp, raw)
	//
	if w.SignedArg56() != offset {
		t.Errorf("offset %d decoded as %d", offset, w.SignedArg56())
	}
}

func checkString(t *testing.T, w Word, expected string) {
	if w.String() != expected {
		t.Errorf("expected \"%s\", got \"%s\"", expected, w.String())
	}
}
