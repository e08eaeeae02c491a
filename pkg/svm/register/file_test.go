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
	"errors"
	"math"
	"testing"

	"github.com/consensys/go-svm/pkg/svm/fault"
)

func Test_File_01(t *testing.T) {
	var file = NewFile(16)
	//
	w, err := file.Allocate(4)
	if err != nil {
		t.Fatal(err)
	}
	// Fresh registers are invalid
	for i := uint(0); i < 4; i++ {
		if v, _ := file.Read(w, i); v.Tag() != Invalid {
			t.Errorf("fresh register r%d holds %s", i, v)
		}
	}
	//
	checkNoError(t, file.Write(w, 3, IntValue(42)))
	//
	if v, err := file.ReadInt(w, 3); err != nil || v != 42 {
		t.Errorf("expected 42, got %d (%v)", v, err)
	}
}

func Test_File_02(t *testing.T) {
	var file = NewFile(16)
	//
	w, _ := file.Allocate(4)
	// Bounds are relative to the window, not the file.
	_, err := file.Read(w, 4)
	checkFault(t, err, fault.ErrIndex)
	checkFault(t, file.Write(w, 4, IntValue(0)), fault.ErrIndex)
}

func Test_File_03(t *testing.T) {
	var file = NewFile(16)
	//
	w, _ := file.Allocate(4)
	checkNoError(t, file.Write(w, 0, FloatValue(1.5)))
	// Integer read of a float register
	_, err := file.ReadInt(w, 0)
	checkFault(t, err, fault.ErrType)
	// Read of an unwritten register
	_, err = file.ReadAny(w, 1)
	checkFault(t, err, fault.ErrType)
	//
	if v, err := file.ReadFloat(w, 0); err != nil || v != 1.5 {
		t.Errorf("expected 1.5, got %v (%v)", v, err)
	}
}

func Test_File_04(t *testing.T) {
	var file = NewFile(8)
	//
	outer, _ := file.Allocate(4)
	inner, _ := file.Allocate(4)
	//
	if inner.Base != 4 {
		t.Errorf("inner window should follow outer, got %s", inner)
	}
	// No more room
	_, err := file.Allocate(1)
	checkFault(t, err, fault.ErrStackOverflow)
	// Reused windows are reset
	checkNoError(t, file.Write(inner, 0, BoolValue(true)))
	file.Release(inner)
	//
	inner, _ = file.Allocate(2)
	if v, _ := file.Read(inner, 0); v.Tag() != Invalid {
		t.Errorf("reused register not reset: %s", v)
	}
	//
	file.Release(inner)
	file.Release(outer)
	//
	if file.Allocated() != 0 {
		t.Errorf("expected empty file, got %d allocated", file.Allocated())
	}
}

func Test_Value_01(t *testing.T) {
	checkValueString(t, IntValue(-12), "-12")
	checkValueString(t, FloatValue(2.5), "2.5")
	checkValueString(t, BoolValue(false), "false")
	checkValueString(t, VectorValue(Vector{1, 2, 3, 4}), "<1, 2, 3, 4>")
	checkValueString(t, Value{}, "<invalid>")
}

func Test_Value_02(t *testing.T) {
	checkTruth(t, BoolValue(true), true, true)
	checkTruth(t, BoolValue(false), false, true)
	checkTruth(t, IntValue(0), false, true)
	checkTruth(t, IntValue(math.MinInt64), true, true)
	checkTruth(t, FloatValue(0.5), true, true)
	checkTruth(t, Value{}, false, false)
	checkTruth(t, VectorValue(Vector{}), false, false)
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkNoError(t *testing.T, err error) {
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func checkFault(t *testing.T, err error, expected error) {
	if !errors.Is(err, expected) {
		t.Errorf("expected %s, got %v", expected, err)
	}
}

func checkValueString(t *testing.T, v Value, expected string) {
	if v.String() != expected {
		t.Errorf("expected \"%s\", got \"%s\"", expected, v.String())
	}
}

func checkTruth(t *testing.T, v Value, expected bool, ok bool) {
	if b, k := v.Truth(); b != expected || k != ok {
		t.Errorf("truth of %s is (%t,%t), expected (%t,%t)", v, b, k, expected, ok)
	}
}
