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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/register"
	"github.com/consensys/go-svm/pkg/svm/unit"
)

// COMMENT starts a comment which extends to the end of the line.
const COMMENT = ";"

// SyntaxError identifies a malformed line of assembly.
type SyntaxError struct {
	// Line number (starting from 1)
	Line int
	// Message describing the problem.
	Message string
}

func (p SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", p.Line, p.Message)
}

// Parse assembles the text form of a bytecode unit, as produced by Format.
// Each line holds at most one directive or instruction.  The directives are:
//
//	.entry N             sets the entry point
//	.window N            sets the outermost window size
//	.const KIND VALUE    appends a constant, where KIND VALUE is the text
//	                     form of the constant (e.g. "int -5", "target @3")
//
// Instructions are written in their text form (e.g. "add r1, r2, r3"), where
// operand prefixes ("r", "#" and "@") are optional.  Negative operands are
// encoded in two's complement form within their field.
func Parse(text string) (unit.Unit, []SyntaxError) {
	var (
		builder = unit.NewBuilder()
		errors  []SyntaxError
	)
	//
	for i, line := range strings.Split(text, "\n") {
		if index := strings.Index(line, COMMENT); index >= 0 {
			line = line[:index]
		}
		//
		line = strings.TrimSpace(line)
		//
		if line == "" {
			continue
		} else if err := parseLine(builder, line); err != nil {
			errors = append(errors, SyntaxError{i + 1, err.Error()})
		}
	}
	//
	if len(errors) > 0 {
		return unit.Unit{}, errors
	}
	// Sanity check (should be unreachable, since every word was encoded)
	u, errs := builder.Build()
	for _, err := range errs {
		errors = append(errors, SyntaxError{0, err.Error()})
	}
	//
	return u, errors
}

func parseLine(builder *unit.Builder, line string) error {
	var head, rest = cutSpace(line)
	//
	switch head {
	case ".entry":
		n, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid entry point \"%s\"", rest)
		}
		//
		builder.WithEntry(uint32(n))
	case ".window":
		n, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid window \"%s\"", rest)
		}
		//
		builder.WithWindow(uint32(n))
	case ".const":
		c, err := ParseConstant(rest)
		if err != nil {
			return err
		}
		//
		builder.Constant(c)
	default:
		w, err := ParseInstruction(line)
		if err != nil {
			return err
		}
		//
		op, _, args := instruction.Decode(w)
		builder.Emit(op, args[:op.Arity()]...)
	}
	//
	return nil
}

// ParseInstruction parses the text form of a single instruction.
func ParseInstruction(text string) (instruction.Word, error) {
	var (
		mnemonic, rest = cutSpace(text)
		operands       []string
	)
	//
	op, ok := instruction.ParseOpcode(mnemonic)
	if !ok {
		return 0, fmt.Errorf("unknown instruction \"%s\"", mnemonic)
	}
	//
	if rest != "" {
		operands = strings.Split(rest, ",")
	}
	//
	if uint(len(operands)) != op.Arity() {
		return 0, fmt.Errorf("%s expects %d operand(s), found %d", op, op.Arity(), len(operands))
	}
	//
	var args = make([]uint64, len(operands))
	//
	for i, operand := range operands {
		arg, err := parseOperand(strings.TrimSpace(operand), op.Shape(), uint(i))
		if err != nil {
			return 0, fmt.Errorf("%s operand %d: %w", op, i+1, err)
		}
		//
		args[i] = arg
	}
	//
	return instruction.Encode(op, args...)
}

func parseOperand(text string, shape instruction.Shape, field uint) (uint64, error) {
	var (
		width = shape.Width(field)
		limit = shape.MaxValue(field)
	)
	//
	for _, prefix := range []string{"r", "#", "@"} {
		if trimmed, ok := strings.CutPrefix(text, prefix); ok {
			text = trimmed
			break
		}
	}
	//
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number \"%s\"", text)
	} else if value < 0 && value < -(int64(1)<<(width-1)) {
		return 0, fmt.Errorf("%d does not fit in %d bits", value, width)
	} else if value >= 0 && uint64(value) > limit {
		return 0, fmt.Errorf("%d does not fit in %d bits", value, width)
	}
	//
	return uint64(value) & limit, nil
}

// ParseConstant parses the text form of a constant, such as "int -5",
// "function @1 (window 2, returns 3)" or "vector <1, 2, 3, 4>".
func ParseConstant(text string) (constant.Constant, error) {
	var kind, rest = cutSpace(text)
	//
	switch kind {
	case "int":
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid integer \"%s\"", rest)
		}
		//
		return constant.NewInt(v), nil
	case "float":
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid float \"%s\"", rest)
		}
		//
		return constant.NewFloat(v), nil
	case "bool":
		v, err := strconv.ParseBool(rest)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid boolean \"%s\"", rest)
		}
		//
		return constant.NewBool(v), nil
	case "target":
		v, err := strconv.ParseUint(strings.TrimPrefix(rest, "@"), 10, 64)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid target \"%s\"", rest)
		}
		//
		return constant.NewTarget(v), nil
	case "offset":
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid offset \"%s\"", rest)
		}
		//
		return constant.NewOffset(v), nil
	case "function":
		var fn constant.Func
		//
		if _, err := fmt.Sscanf(rest, "@%d (window %d, returns %d)", &fn.Entry, &fn.Window, &fn.Returns); err != nil {
			return constant.Constant{}, fmt.Errorf("invalid function \"%s\"", rest)
		}
		//
		return constant.NewFunction(fn.Entry, fn.Window, fn.Returns), nil
	case "vector":
		return parseVector(rest)
	default:
		return constant.Constant{}, fmt.Errorf("unknown constant kind \"%s\"", kind)
	}
}

// cutSpace splits some text around its first run of whitespace.
func cutSpace(text string) (string, string) {
	text = strings.TrimSpace(text)
	//
	if index := strings.IndexAny(text, " \t"); index >= 0 {
		return text[:index], strings.TrimSpace(text[index:])
	}
	//
	return text, ""
}

func parseVector(text string) (constant.Constant, error) {
	var vec register.Vector
	//
	inner, prefixed := strings.CutPrefix(text, "<")
	inner, suffixed := strings.CutSuffix(inner, ">")
	//
	if !prefixed || !suffixed {
		return constant.Constant{}, fmt.Errorf("invalid vector \"%s\"", text)
	}
	//
	lanes := strings.Split(inner, ",")
	if len(lanes) != register.Lanes {
		return constant.Constant{}, fmt.Errorf("vector requires %d lanes, found %d", register.Lanes, len(lanes))
	}
	//
	for i, lane := range lanes {
		v, err := strconv.ParseFloat(strings.TrimSpace(lane), 64)
		if err != nil {
			return constant.Constant{}, fmt.Errorf("invalid vector lane \"%s\"", lane)
		}
		//
		vec[i] = v
	}
	//
	return constant.NewVector(vec), nil
}

// Format returns the text form of a bytecode unit, which can be assembled
// again using Parse.  Constants and instructions are annotated with their
// indices, and instructions optionally with their encoded words.
func Format(u unit.Unit, words bool) string {
	var builder strings.Builder
	//
	fmt.Fprintf(&builder, ".entry %d\n", u.Entry)
	//
	if u.Window != 0 {
		fmt.Fprintf(&builder, ".window %d\n", u.Window)
	}
	//
	for i, c := range u.Constants {
		fmt.Fprintf(&builder, ".const %-40s %s #%d\n", c, COMMENT, i)
	}
	//
	for pc, w := range u.Code {
		if words {
			fmt.Fprintf(&builder, "%-30s %s [%d] %016x\n", w, COMMENT, pc, uint64(w))
		} else {
			fmt.Fprintf(&builder, "%-30s %s [%d]\n", w, COMMENT, pc)
		}
	}
	//
	return builder.String()
}
