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
package asm

import (
	"context"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/consensys/go-svm/pkg/svm/config"
	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/machine"
	"github.com/consensys/go-svm/pkg/svm/register"
	"github.com/consensys/go-svm/pkg/svm/unit"
)

const factorial = `
; computes 5!
.entry 0
.window 2
.const int 5                          ; #0
.const function @4 (window 4, returns 1)
.const int 1
load r0, #0
call 1, r0, #1
print r0
ret 1, r0
; factorial(n) in r0
load r1, #2
lteq r2, r0, r1
jmpf r2, @4
ret 1, r1
sub r3, r0, r1
call 1, r3, #1
mult r0, r0, r3
ret 1, r0
`

func Test_Asm_01(t *testing.T) {
	u := checkParse(t, factorial)
	//
	if u.Entry != 0 || u.Window != 2 || len(u.Constants) != 3 || len(u.Code) != 12 {
		t.Fatalf("unexpected unit %+v", u)
	}
	//
	program, err := unit.Load(u)
	if err != nil {
		t.Fatal(err)
	}
	//
	m, err := machine.New(program, config.Default().Machine)
	if err != nil {
		t.Fatal(err)
	}
	//
	result := m.Run(context.Background())
	//
	if result.Fault != nil {
		t.Fatal(result.Fault)
	} else if !slices.Equal(result.Emissions, []string{"120"}) {
		t.Errorf("unexpected emissions %q", result.Emissions)
	} else if !slices.Equal(result.Returns, []register.Value{register.IntValue(120)}) {
		t.Errorf("unexpected returns %v", result.Returns)
	}
}

func Test_Asm_02(t *testing.T) {
	// Format then parse is the identity
	checkFormat(t, checkParse(t, factorial))
	checkFormat(t, unit.Unit{
		Code: []instruction.Word{
			instruction.MustEncode(instruction.RJmp, rawOffset(t, -1)),
			instruction.MustEncode(instruction.RJmpT, 1, uint64(uint32(math.MaxUint32))),
			instruction.MustEncode(instruction.SimdAdd, 0, 1, 2),
			instruction.MustEncode(instruction.Nop),
		},
		Constants: []constant.Constant{
			constant.NewFloat(-1.5),
			constant.NewFloat(math.Inf(-1)),
			constant.NewBool(false),
			constant.NewTarget(7),
			constant.NewOffset(-3),
			constant.NewVector(register.Vector{0.5, -1, 1e21, 0}),
		},
		Entry:  1,
		Window: 0,
	})
}

func Test_Asm_03(t *testing.T) {
	checkInstruction(t, "rjmp -2", instruction.MustEncode(instruction.RJmp, rawOffset(t, -2)))
	checkInstruction(t, "rjmpt r0, -3", instruction.MustEncode(instruction.RJmpT, 0, uint64(uint32(0xfffffffd))))
	checkInstruction(t, "jmpf 0, 3", instruction.MustEncode(instruction.JmpF, 0, 3))
	checkInstruction(t, "loadc r70000, #1", instruction.MustEncode(instruction.LoadC, 70000, 1))
	checkInstruction(t, "nop", instruction.MustEncode(instruction.Nop))
}

func Test_Asm_04(t *testing.T) {
	checkErrors(t, "frob r0\n", 1)
	checkErrors(t, "nop\nadd r0, r1\n", 2)
	checkErrors(t, "load r70000, #1\n", 1)
	checkErrors(t, "rjmp -36028797018963969\n", 1)
	checkErrors(t, "jmp x\n", 1)
	checkErrors(t, "\n.const vector <1, 2, 3>\n", 2)
	checkErrors(t, ".const vector 1, 2, 3, 4\n", 1)
	checkErrors(t, ".const function 3\n", 1)
	checkErrors(t, ".const string hello\n", 1)
	checkErrors(t, ".entry -1\n", 1)
	checkErrors(t, "nop\n.window x\nnop\n.const bool maybe\n", 2, 4)
}

func checkParse(t *testing.T, text string) unit.Unit {
	t.Helper()
	//
	u, errs := Parse(text)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	//
	return u
}

func checkFormat(t *testing.T, u unit.Unit) {
	t.Helper()
	//
	for _, words := range []bool{false, true} {
		text := Format(u, words)
		//
		if actual := checkParse(t, text); !reflect.DeepEqual(u, actual) {
			t.Errorf("format not reversible:\n%s", text)
		}
	}
}

func checkInstruction(t *testing.T, text string, expected instruction.Word) {
	t.Helper()
	//
	w, err := ParseInstruction(text)
	if err != nil {
		t.Errorf("%s: %s", text, err)
	} else if w != expected {
		t.Errorf("%s: expected %s, got %s", text, expected, w)
	}
}

func checkErrors(t *testing.T, text string, lines ...int) {
	t.Helper()
	//
	_, errs := Parse(text)
	//
	var actual []int
	for _, err := range errs {
		actual = append(actual, err.Line)
	}
	//
	if !slices.Equal(actual, lines) {
		t.Errorf("expected errors on lines %v, got %v", lines, errs)
	}
}

func rawOffset(t *testing.T, offset int64) uint64 {
	raw, ok := instruction.Offset56(offset)
	if !ok {
		t.Fatalf("offset %d out of range", offset)
	}
	//
	return raw
}
