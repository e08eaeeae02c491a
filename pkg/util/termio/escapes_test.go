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
package termio

import (
	"os"
	"testing"
)

func Test_Escape_01(t *testing.T) {
	checkEscape(t, ResetAnsiEscape(), "\033[0m")
	checkEscape(t, NewAnsiEscape().FgColour(RED), "\033[31m")
	checkEscape(t, NewAnsiEscape().Bold().FgColour(YELLOW).BgColour(BLUE), "\033[1;33;44m")
}

func Test_Escape_02(t *testing.T) {
	var (
		base = NewAnsiEscape().Bold()
		red  = base.FgColour(RED)
		blue = base.FgColour(BLUE)
	)
	// Derived escapes are independent
	checkEscape(t, red, "\033[1;31m")
	checkEscape(t, blue, "\033[1;34m")
	//
	if text := red.Paint("x"); text != "\033[1;31mx\033[0m" {
		t.Errorf("unexpected painted text %q", text)
	}
}

func Test_Escape_03(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	//
	defer f.Close()
	// Files are not terminals
	if text := NewPainter(f).Paint(NewAnsiEscape().FgColour(RED), "x"); text != "x" {
		t.Errorf("unexpected painted text %q", text)
	}
}

func checkEscape(t *testing.T, escape AnsiEscape, expected string) {
	t.Helper()
	//
	if actual := escape.Build(); actual != expected {
		t.Errorf("expected %q, got %q", expected, actual)
	}
}
