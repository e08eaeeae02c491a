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
package constant

import (
	"fmt"

	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/register"
)

// Pool is an immutable, indexed table of constants.  A pool is populated once
// when a bytecode unit is loaded and never modified thereafter.  As such, a
// single pool can be shared (without synchronisation) between any number of
// concurrently executing machines.
type Pool struct {
	entries []Constant
}

// NewPool constructs a pool holding (a copy of) the given constants.
func NewPool(constants ...Constant) *Pool {
	var entries = make([]Constant, len(constants))
	//
	copy(entries, constants)
	//
	return &Pool{entries}
}

// Len returns the number of constants in this pool.
func (p *Pool) Len() uint64 {
	return uint64(len(p.entries))
}

// Get returns the constant at a given index, or an index fault if there is no
// such constant.
func (p *Pool) Get(index uint64) (Constant, error) {
	if index >= uint64(len(p.entries)) {
		return Constant{}, fault.IndexOutOfBounds("constant", index, uint64(len(p.entries)))
	}
	//
	return p.entries[index], nil
}

// Entries returns a copy of the constants in this pool.
func (p *Pool) Entries() []Constant {
	var entries = make([]Constant, len(p.entries))
	//
	copy(entries, p.entries)
	//
	return entries
}

// Value returns the register value of the constant at a given index.
func (p *Pool) Value(index uint64) (register.Value, error) {
	c, err := p.Get(index)
	//
	if err != nil {
		return register.Value{}, err
	} else if v, ok := c.Value(); ok {
		return v, nil
	}
	//
	return register.Value{}, fault.New(fault.Type, "constant #%d (%s) cannot be loaded into a register", index, c.kind)
}

// Target returns the jump target held by the constant at a given index.
func (p *Pool) Target(index uint64) (uint64, error) {
	c, err := p.typed(index, Target)
	//
	return c.Target(), err
}

// Offset returns the jump offset held by the constant at a given index.
func (p *Pool) Offset(index uint64) (int64, error) {
	c, err := p.typed(index, Offset)
	//
	return c.Offset(), err
}

// Function returns the function held by the constant at a given index.
func (p *Pool) Function(index uint64) (Func, error) {
	c, err := p.typed(index, Function)
	//
	return c.Function(), err
}

func (p *Pool) typed(index uint64, kind Kind) (Constant, error) {
	c, err := p.Get(index)
	//
	if err != nil {
		return c, err
	} else if c.kind != kind {
		return c, fault.TypeMismatch(fmt.Sprintf("constant #%d", index), kind, c.kind)
	}
	//
	return c, nil
}
