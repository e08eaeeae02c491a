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
package machine

import (
	"fmt"
	"io"
)

// Output is a write-once stream of emissions produced by print instructions.
// Emissions are recorded in order and can never be modified once written.
// Optionally, emissions are also echoed to a writer as they occur.
type Output struct {
	lines []string
	echo  io.Writer
}

// NewOutput constructs an empty output stream, echoing to a given writer (or
// not echoing at all if this is nil).
func NewOutput(echo io.Writer) *Output {
	return &Output{nil, echo}
}

// Emit appends an emission to the stream.  Failing to echo an emission does not
// prevent it from being recorded.
func (p *Output) Emit(text string) error {
	p.lines = append(p.lines, text)
	//
	if p.echo != nil {
		if _, err := fmt.Fprintln(p.echo, text); err != nil {
			return err
		}
	}
	//
	return nil
}

// Contents returns the emissions written so far.
func (p *Output) Contents() []string {
	return p.lines
}
