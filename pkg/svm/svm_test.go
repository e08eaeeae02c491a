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
package svm

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/consensys/go-svm/pkg/svm/config"
	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/fault"
	insn "github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/unit"
)

func Test_Run_01(t *testing.T) {
	var (
		out bytes.Buffer
		cfg = config.Default()
	)
	//
	result, err := Run(context.Background(), countdown(), cfg, &out)
	if err != nil {
		t.Fatal(err)
	} else if result.Fault != nil {
		t.Fatal(result.Fault)
	}
	//
	checkCountdown(t, result.Emissions)
	//
	if out.String() != "3\n2\n1\n" {
		t.Errorf("unexpected echo %q", out.String())
	}
	// Echo disabled
	out.Reset()
	cfg.Output.Echo = false
	//
	if _, err := Run(context.Background(), countdown(), cfg, &out); err != nil {
		t.Fatal(err)
	} else if out.Len() != 0 {
		t.Errorf("unexpected echo %q", out.String())
	}
}

func Test_Run_02(t *testing.T) {
	var cfg = config.Default()
	//
	cfg.Machine.RegisterFileSize = 1
	//
	if _, err := Run(context.Background(), countdown(), cfg, nil); err == nil {
		t.Errorf("expected boot failure")
	}
}

func Test_Run_03(t *testing.T) {
	var program = countdown()
	//
	results, err := RunConcurrent(context.Background(), program, small(), 16)
	if err != nil {
		t.Fatal(err)
	} else if len(results) != 16 {
		t.Fatalf("expected 16 results, got %d", len(results))
	}
	//
	for _, r := range results {
		if r.Fault != nil {
			t.Fatal(r.Fault)
		}
		//
		checkCountdown(t, r.Emissions)
	}
}

func Test_Run_04(t *testing.T) {
	var b = unit.NewBuilder().WithWindow(1)
	// Infinite loop
	b.Emit(insn.Jmp, 0)
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	results, err := RunConcurrent(ctx, unit.MustLoad(b.MustBuild()), small(), 4)
	if err != nil {
		t.Fatal(err)
	}
	//
	for _, r := range results {
		if r.Fault == nil || r.Fault.Kind != fault.Cancelled {
			t.Errorf("expected cancellation, got %v", r.Fault)
		}
	}
}

func small() config.Config {
	var cfg = config.Default()
	//
	cfg.Machine.RegisterFileSize = 64
	cfg.Machine.MaxCallDepth = 4
	//
	return cfg
}

func countdown() *unit.Program {
	var b = unit.NewBuilder().WithWindow(2)
	//
	b.Constant(constant.NewInt(3))
	b.Constant(constant.NewInt(1))
	b.Emit(insn.Load, 0, 0)
	b.Emit(insn.Load, 1, 1)
	loop := b.Emit(insn.Print, 0)
	b.Emit(insn.Sub, 0, 0, 1)
	b.Emit(insn.RJmpT, 0, b.Offset32(b.Here(), loop))
	//
	return unit.MustLoad(b.MustBuild())
}

func checkCountdown(t *testing.T, emissions []string) {
	t.Helper()
	//
	if expected := []string{"3", "2", "1"}; !slices.Equal(emissions, expected) {
		t.Errorf("expected emissions %q, got %q", expected, emissions)
	}
}
