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
package fault

import (
	"errors"
	"fmt"
	"testing"
)

func Test_Fault_01(t *testing.T) {
	var f = IndexOutOfBounds("register", 5, 4)
	//
	if !errors.Is(f, ErrIndex) || errors.Is(f, ErrType) {
		t.Errorf("index fault does not match its sentinel")
	}
	//
	if f.Error() != "IndexFault: register index 5 out of bounds (size 4)" {
		t.Errorf("unexpected message: %s", f.Error())
	}
}

func Test_Fault_02(t *testing.T) {
	var (
		f = New(Arithmetic, "division by zero")
		g = f.At(7, 2)
	)
	// Locating does not modify the original
	if f.Located || !g.Located || g.IP != 7 || g.Depth != 2 {
		t.Errorf("unexpected location %v / %v", f, g)
	}
	//
	if g.Error() != "ArithmeticFault at ip=7 (depth 2): division by zero" {
		t.Errorf("unexpected message: %s", g.Error())
	}
}

func Test_Fault_03(t *testing.T) {
	var (
		cause = errors.New("boom")
		err   = fmt.Errorf("loading: %w", Wrap(Load, cause, "bad unit"))
	)
	//
	if f := As(err); f == nil || f.Kind != Load {
		t.Fatalf("could not extract fault from %v", err)
	}
	//
	if !errors.Is(err, ErrLoad) || !errors.Is(err, cause) {
		t.Errorf("wrapped fault lost its identity")
	}
	//
	if As(cause) != nil {
		t.Errorf("plain error reported as fault")
	}
}

func Test_Fault_04(t *testing.T) {
	for k := Load; k <= Cancelled; k++ {
		if !errors.Is(New(k, "x"), sentinels[k]) || k.String() != sentinels[k].Error() {
			t.Errorf("kind %s does not match sentinel", k)
		}
	}
}
