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
	"fmt"
	"strings"
)

// String returns a human readable (assembly-like) form of this word.  In this
// form, registers are written "rN", constant indices "#N", absolute targets "@N"
// and relative offsets with an explicit sign.
func (w Word) String() string {
	var (
		op      = w.Opcode()
		builder strings.Builder
	)
	//
	if !op.IsValid() {
		return fmt.Sprintf("%s 0x%014x", op, w.Arg56())
	}
	//
	builder.WriteString(op.String())
	//
	for i, operand := range w.operands() {
		if i == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(operand)
	}
	//
	return builder.String()
}

func (w Word) operands() []string {
	var op = w.Opcode()
	//
	switch op {
	case Load:
		return []string{reg(w.Arg16(0)), cst(uint64(w.Arg16(1)))}
	case LoadC:
		return []string{reg(w.Arg24()), cst(uint64(w.Arg32()))}
	case JmpT, JmpF:
		return []string{reg(w.Arg24()), fmt.Sprintf("@%d", w.Arg32())}
	case JmpTC, JmpFC, RJmpTC, RJmpFC:
		return []string{reg(w.Arg24()), cst(uint64(w.Arg32()))}
	case RJmpT, RJmpF:
		return []string{reg(w.Arg24()), fmt.Sprintf("%+d", w.SignedArg32())}
	case Call:
		return []string{fmt.Sprintf("%d", w.Arg16(0)), reg(w.Arg16(1)), cst(uint64(w.Arg16(2)))}
	case Ret:
		return []string{fmt.Sprintf("%d", w.Arg16(0)), reg(w.Arg16(1))}
	case Jmp:
		return []string{fmt.Sprintf("@%d", w.Arg56())}
	case RJmp:
		return []string{fmt.Sprintf("%+d", w.SignedArg56())}
	case JmpC, RJmpC:
		return []string{cst(w.Arg56())}
	case Nop:
		return nil
	}
	// Everything else is a plain register operation.
	var operands = make([]string, op.Arity())
	//
	for i := range operands {
		operands[i] = reg(w.Arg16(uint(i)))
	}
	//
	return operands
}

func reg[T uint16 | uint32](index T) string {
	return fmt.Sprintf("r%d", index)
}

func cst(index uint64) string {
	return fmt.Sprintf("#%d", index)
}

// Disassemble returns a listing of the given code, one instruction per line,
// prefixed by its instruction index.
func Disassemble(code []Word) string {
	var builder strings.Builder
	//
	for pc, w := range code {
		builder.WriteString(fmt.Sprintf("[%d]\t%s\n", pc, w.String()))
	}
	//
	return builder.String()
}
