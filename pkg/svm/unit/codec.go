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
	"fmt"
	"os"

	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/register"
	"github.com/fxamacker/cbor/v2"
)

// Magic identifies a serialised bytecode unit.
const Magic = "SVMU"

// Version is the current version of the binary format.
const Version = 1

// Canonical CBOR encoding ensures a given unit always serialises to the same
// bytes.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("unit: failed to create CBOR enc mode: %v", err))
	}
	//
	encMode = em
}

// binaryUnit is the on-disk layout of a unit.  Code is held as a byte string of
// big-endian instruction words.
type binaryUnit struct {
	Magic     string           `cbor:"1,keyasint"`
	Version   uint             `cbor:"2,keyasint"`
	Entry     uint32           `cbor:"3,keyasint"`
	Window    uint32           `cbor:"4,keyasint,omitempty"`
	Code      []byte           `cbor:"5,keyasint"`
	Constants []binaryConstant `cbor:"6,keyasint"`
}

// binaryConstant is the on-disk layout of a constant.  Integer-like payloads
// (int, bool, target, offset) share the Int field.
type binaryConstant struct {
	Kind    uint8     `cbor:"1,keyasint"`
	Int     int64     `cbor:"2,keyasint,omitempty"`
	Float   float64   `cbor:"3,keyasint,omitempty"`
	Entry   uint32    `cbor:"4,keyasint,omitempty"`
	Window  uint32    `cbor:"5,keyasint,omitempty"`
	Returns uint16    `cbor:"6,keyasint,omitempty"`
	Lanes   []float64 `cbor:"7,keyasint,omitempty"`
}

// Marshal serialises a unit into its binary form.
func Marshal(u Unit) ([]byte, error) {
	var bin = binaryUnit{
		Magic:     Magic,
		Version:   Version,
		Entry:     u.Entry,
		Window:    u.Window,
		Code:      instruction.ToBytes(u.Code),
		Constants: make([]binaryConstant, len(u.Constants)),
	}
	//
	for i, c := range u.Constants {
		bin.Constants[i] = toBinaryConstant(c)
	}
	//
	return encMode.Marshal(&bin)
}

// Unmarshal deserialises a unit from its binary form.  Any malformation of the
// binary form is reported as a load fault.  Observe that the resulting unit
// has not been checked and must still be loaded.
func Unmarshal(data []byte) (Unit, error) {
	var bin binaryUnit
	//
	if err := cbor.Unmarshal(data, &bin); err != nil {
		return Unit{}, fault.Wrap(fault.Load, err, "malformed unit")
	} else if bin.Magic != Magic {
		return Unit{}, fault.New(fault.Load, "invalid magic \"%s\", expected \"%s\"", bin.Magic, Magic)
	} else if bin.Version != Version {
		return Unit{}, fault.New(fault.Load, "unsupported version %d", bin.Version)
	}
	//
	code, err := instruction.FromBytes(bin.Code)
	if err != nil {
		return Unit{}, fault.Wrap(fault.Load, err, "malformed code")
	}
	//
	constants := make([]constant.Constant, len(bin.Constants))
	//
	for i, c := range bin.Constants {
		if constants[i], err = fromBinaryConstant(c); err != nil {
			return Unit{}, fault.Wrap(fault.Load, err, "constant #%d", i)
		}
	}
	//
	return Unit{code, constants, bin.Entry, bin.Window}, nil
}

// ReadFile reads and deserialises a unit from a given file.
func ReadFile(filename string) (Unit, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return Unit{}, err
	}
	//
	return Unmarshal(bytes)
}

// WriteFile serialises a unit into a given file.
func WriteFile(filename string, u Unit) error {
	bytes, err := Marshal(u)
	//
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, bytes, 0o644)
}

func toBinaryConstant(c constant.Constant) binaryConstant {
	var bin = binaryConstant{Kind: uint8(c.Kind())}
	//
	switch c.Kind() {
	case constant.Int:
		bin.Int = c.Int()
	case constant.Bool:
		if c.Bool() {
			bin.Int = 1
		}
	case constant.Target:
		bin.Int = int64(c.Target())
	case constant.Offset:
		bin.Int = c.Offset()
	case constant.Float:
		bin.Float = c.Float()
	case constant.Function:
		fn := c.Function()
		bin.Entry, bin.Window, bin.Returns = fn.Entry, fn.Window, fn.Returns
	case constant.Vector:
		vec := c.Vector()
		bin.Lanes = vec[:]
	}
	//
	return bin
}

func fromBinaryConstant(bin binaryConstant) (constant.Constant, error) {
	switch constant.Kind(bin.Kind) {
	case constant.Int:
		return constant.NewInt(bin.Int), nil
	case constant.Bool:
		return constant.NewBool(bin.Int != 0), nil
	case constant.Target:
		return constant.NewTarget(uint64(bin.Int)), nil
	case constant.Offset:
		return constant.NewOffset(bin.Int), nil
	case constant.Float:
		return constant.NewFloat(bin.Float), nil
	case constant.Function:
		return constant.NewFunction(bin.Entry, bin.Window, bin.Returns), nil
	case constant.Vector:
		var vec register.Vector
		//
		if len(bin.Lanes) != register.Lanes {
			return constant.Constant{}, fmt.Errorf("vector has %d lanes, expected %d", len(bin.Lanes), register.Lanes)
		}
		//
		copy(vec[:], bin.Lanes)
		//
		return constant.NewVector(vec), nil
	default:
		return constant.Constant{}, fmt.Errorf("unknown kind %d", bin.Kind)
	}
}
