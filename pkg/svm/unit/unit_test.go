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
	"errors"
	"path/filepath"
	"testing"

	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/register"
)

func Test_Load_01(t *testing.T) {
	var b = NewBuilder()
	//
	b.Emit(instruction.Load, 0, b.Constant(constant.NewInt(42)))
	b.Emit(instruction.Print, 0)
	//
	p, err := Load(b.MustBuild())
	if err != nil {
		t.Fatal(err)
	}
	//
	if p.Len() != 2 || p.Pool().Len() != 1 || p.Entry() != 0 {
		t.Errorf("unexpected program shape")
	}
}

func Test_Load_02(t *testing.T) {
	// Empty code
	checkLoadFault(t, Unit{})
	// Unknown opcode
	checkLoadFault(t, Unit{Code: []instruction.Word{instruction.Word(uint64(instruction.NumOpcodes) << 56)}})
	// Entry point outside code
	checkLoadFault(t, Unit{Code: []instruction.Word{instruction.MustEncode(instruction.Nop)}, Entry: 1})
}

func Test_Load_03(t *testing.T) {
	// Constant references outside the table, for each kind of reference.
	checkLoadFault(t, single(instruction.Load, 0, 0))
	checkLoadFault(t, single(instruction.LoadC, 0, 1))
	checkLoadFault(t, single(instruction.JmpTC, 0, 0))
	checkLoadFault(t, single(instruction.RJmpFC, 0, 0))
	checkLoadFault(t, single(instruction.JmpC, 0))
	checkLoadFault(t, single(instruction.RJmpC, 3))
	checkLoadFault(t, single(instruction.Call, 0, 0, 0))
}

func Test_Load_04(t *testing.T) {
	// Function entry outside code
	var u = single(instruction.Call, 0, 0, 0)
	//
	u.Constants = []constant.Constant{constant.NewFunction(1, 0, 0)}
	checkLoadFault(t, u)
	//
	u.Constants = []constant.Constant{constant.NewFunction(0, 0, 0)}
	if _, err := Load(u); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func Test_Load_05(t *testing.T) {
	var (
		b = NewBuilder()
		u Unit
	)
	// Loaded programs are isolated from their unit.
	b.Emit(instruction.Nop)
	u = b.MustBuild()
	p := MustLoad(u)
	u.Code[0] = instruction.MustEncode(instruction.Print, 0)
	//
	if p.At(0).Opcode() != instruction.Nop {
		t.Errorf("program shares code with its unit")
	}
}

func Test_Builder_01(t *testing.T) {
	var b = NewBuilder()
	//
	b.Emit(instruction.Add, 1<<16, 0, 0)
	b.Patch(7, instruction.Nop)
	//
	if _, errs := b.Build(); len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
}

func Test_Builder_02(t *testing.T) {
	var b = NewBuilder()
	//
	jmp := b.Emit(instruction.Nop)
	b.Emit(instruction.Nop)
	b.Emit(instruction.Nop)
	b.Patch(jmp, instruction.RJmp, b.Offset(jmp, b.Here()))
	//
	u := b.MustBuild()
	if off := u.Code[jmp].SignedArg56(); off != 2 {
		t.Errorf("expected offset 2, got %d", off)
	}
	//
	if off := instruction.SignExtend(b.Offset32(5, 2), 32); off != -4 {
		t.Errorf("expected offset -4, got %d", off)
	}
}

func Test_Codec_01(t *testing.T) {
	var b = NewBuilder().WithEntry(1).WithWindow(8)
	//
	b.Constant(constant.NewInt(-7))
	b.Constant(constant.NewFloat(3.25))
	b.Constant(constant.NewBool(true))
	b.Constant(constant.NewTarget(1))
	b.Constant(constant.NewOffset(-1))
	b.Constant(constant.NewFunction(1, 4, 2))
	b.Constant(constant.NewVector(register.Vector{1, 0, -2.5, 4}))
	b.Emit(instruction.Load, 0, 0)
	b.Emit(instruction.Ret, 0, 0)
	//
	u := b.MustBuild()
	//
	bytes, err := Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	//
	v, err := Unmarshal(bytes)
	if err != nil {
		t.Fatal(err)
	}
	//
	checkSameUnit(t, u, v)
	// Canonical encoding is deterministic
	if again, _ := Marshal(v); string(again) != string(bytes) {
		t.Errorf("re-encoding produced different bytes")
	}
}

func Test_Codec_02(t *testing.T) {
	var (
		b    = NewBuilder()
		file = filepath.Join(t.TempDir(), "test.svm")
	)
	//
	b.Emit(instruction.Nop)
	u := b.MustBuild()
	//
	if err := WriteFile(file, u); err != nil {
		t.Fatal(err)
	}
	//
	v, err := ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	//
	checkSameUnit(t, u, v)
}

func Test_Codec_03(t *testing.T) {
	// Garbage
	_, err := Unmarshal([]byte{0xff, 0x00, 0x13})
	checkFault(t, err, fault.ErrLoad)
	// Wrong magic
	bytes, _ := encMode.Marshal(&binaryUnit{Magic: "ELF!", Version: Version})
	_, err = Unmarshal(bytes)
	checkFault(t, err, fault.ErrLoad)
	// Truncated code
	bytes, _ = encMode.Marshal(&binaryUnit{Magic: Magic, Version: Version, Code: []byte{1, 2, 3}})
	_, err = Unmarshal(bytes)
	checkFault(t, err, fault.ErrLoad)
	// Unknown constant kind
	bytes, _ = encMode.Marshal(&binaryUnit{Magic: Magic, Version: Version, Constants: []binaryConstant{{Kind: 99}}})
	_, err = Unmarshal(bytes)
	checkFault(t, err, fault.ErrLoad)
}

// ===================================================================
// Test Helpers
// ===================================================================

func single(op instruction.Opcode, args ...uint64) Unit {
	return Unit{Code: []instruction.Word{instruction.MustEncode(op, args...)}}
}

func checkLoadFault(t *testing.T, u Unit) {
	_, err := Load(u)
	checkFault(t, err, fault.ErrLoad)
}

func checkFault(t *testing.T, err error, expected error) {
	if !errors.Is(err, expected) {
		t.Errorf("expected %s, got %v", expected, err)
	}
}

func checkSameUnit(t *testing.T, expected Unit, actual Unit) {
	if expected.Entry != actual.Entry || expected.Window != actual.Window {
		t.Errorf("entry/window differ: %d/%d vs %d/%d", expected.Entry, expected.Window, actual.Entry, actual.Window)
	}
	//
	if len(expected.Code) != len(actual.Code) || len(expected.Constants) != len(actual.Constants) {
		t.Fatalf("unit sizes differ")
	}
	//
	for i := range expected.Code {
		if expected.Code[i] != actual.Code[i] {
			t.Errorf("instruction %d differs: %s vs %s", i, expected.Code[i], actual.Code[i])
		}
	}
	//
	for i := range expected.Constants {
		if expected.Constants[i] != actual.Constants[i] {
			t.Errorf("constant %d differs: %s vs %s", i, expected.Constants[i], actual.Constants[i])
		}
	}
}
