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
)

// Kind classifies a fault.  All faults are fatal for the machine instance on
// which they arise.
type Kind uint8

const (
	// Load indicates a malformed bytecode unit, detected before execution.
	Load Kind = iota
	// Decode indicates an instruction word whose opcode is not recognised.
	Decode
	// Index indicates a register, constant or jump target index out of bounds.
	Index
	// Type indicates a value whose tag does not match that required.
	Type
	// Arithmetic indicates division (or modulus) by zero, or a conversion which
	// has no result.
	Arithmetic
	// StackOverflow indicates that a resource limit on the call stack (or the
	// register file backing it) was exceeded.
	StackOverflow
	// Cancelled indicates that the host cancelled execution between
	// instructions.
	Cancelled
)

var kindNames = []string{"LoadFault", "DecodeFault", "IndexFault", "TypeFault", "ArithmeticFault",
	"StackOverflowFault", "Cancelled"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("Fault(%d)", uint8(k))
}

// Sentinel errors, one per kind, such that errors.Is(err, ErrIndex) holds for
// any index fault.
var (
	ErrLoad          = errors.New("LoadFault")
	ErrDecode        = errors.New("DecodeFault")
	ErrIndex         = errors.New("IndexFault")
	ErrType          = errors.New("TypeFault")
	ErrArithmetic    = errors.New("ArithmeticFault")
	ErrStackOverflow = errors.New("StackOverflowFault")
	ErrCancelled     = errors.New("Cancelled")
)

var sentinels = []error{ErrLoad, ErrDecode, ErrIndex, ErrType, ErrArithmetic, ErrStackOverflow, ErrCancelled}

// Fault describes an unrecoverable condition arising whilst loading or
// executing a bytecode unit.  The location of a fault (instruction pointer and
// frame depth) is attached by the dispatcher, since the components which detect
// faults (e.g. the register file) have no knowledge of it.
type Fault struct {
	// Kind of fault.
	Kind Kind
	// Message describing what went wrong.
	Message string
	// Instruction pointer of the failing instruction.
	IP uint
	// Depth of the call stack when the fault arose, where the outermost frame
	// has depth 1.  This is zero for faults which arise outside of execution
	// (e.g. when loading).
	Depth uint
	// Located indicates whether or not IP and Depth are meaningful.
	Located bool
	// Instruction is the text form of the failing instruction, if known.
	Instruction string
	// Cause is an (optional) underlying error.
	Cause error
}

// New constructs a new (unlocated) fault of a given kind.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a new (unlocated) fault of a given kind, caused by some other
// error.
func Wrap(kind Kind, cause error, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// At returns a copy of this fault located at the given instruction pointer and
// call depth.
func (p *Fault) At(ip uint, depth uint) *Fault {
	var f = *p
	//
	f.IP, f.Depth, f.Located = ip, depth, true
	//
	return &f
}

func (p *Fault) Error() string {
	var msg = p.Message
	//
	if p.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, p.Cause)
	}
	//
	if p.Located {
		return fmt.Sprintf("%s at ip=%d (depth %d): %s", p.Kind, p.IP, p.Depth, msg)
	}
	//
	return fmt.Sprintf("%s: %s", p.Kind, msg)
}

// Is supports errors.Is() matching against the sentinel errors.
func (p *Fault) Is(target error) bool {
	return int(p.Kind) < len(sentinels) && sentinels[p.Kind] == target
}

// Unwrap returns the underlying cause (if any).
func (p *Fault) Unwrap() error {
	return p.Cause
}

// As extracts a fault from an error chain, returning nil if there is none.
func As(err error) *Fault {
	var f *Fault
	//
	if errors.As(err, &f) {
		return f
	}
	//
	return nil
}

// IndexOutOfBounds constructs an index fault for a given container.
func IndexOutOfBounds(container string, index uint64, size uint64) *Fault {
	return New(Index, "%s index %d out of bounds (size %d)", container, index, size)
}

// TypeMismatch constructs a type fault for a value of the wrong kind.
func TypeMismatch(what string, expected fmt.Stringer, actual fmt.Stringer) *Fault {
	return New(Type, "%s holds %s, expected %s", what, actual, expected)
}
