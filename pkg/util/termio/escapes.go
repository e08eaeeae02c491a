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
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Colour identifies one of the eight basic ANSI colours.
type Colour uint

const (
	// BLACK represents black
	BLACK Colour = iota
	// RED represents red
	RED
	// GREEN represents green
	GREEN
	// YELLOW represents yellow
	YELLOW
	// BLUE represents blue
	BLUE
	// MAGENTA represents magenta
	MAGENTA
	// CYAN represents cyan
	CYAN
	// WHITE represents white
	WHITE
)

// AnsiEscape represents an ANSI escape code used for formatting text in a
// terminal, built up from a sequence of parameters.
type AnsiEscape struct {
	params []string
}

// NewAnsiEscape construct an empty escape.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// ResetAnsiEscape constructs a reset term.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]string{"0"}}
}

// Bold makes the text bold.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with("1")
}

// FgColour sets the foreground colour.
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(fmt.Sprintf("%d", 30+col))
}

// BgColour sets the background colour.
func (p AnsiEscape) BgColour(col Colour) AnsiEscape {
	return p.with(fmt.Sprintf("%d", 40+col))
}

// Build constructs the final escape.
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("\033[%sm", strings.Join(p.params, ";"))
}

// Paint wraps some text in this escape, resetting the terminal afterwards.
func (p AnsiEscape) Paint(text string) string {
	return p.Build() + text + ResetAnsiEscape().Build()
}

func (p AnsiEscape) with(param string) AnsiEscape {
	var params = make([]string, len(p.params), len(p.params)+1)
	//
	copy(params, p.params)
	//
	return AnsiEscape{append(params, param)}
}

// Painter applies escapes only when writing to a terminal.
type Painter struct {
	enabled bool
}

// NewPainter constructs a painter for a given output file, which is enabled
// only if that file is a terminal.
func NewPainter(file *os.File) Painter {
	return Painter{term.IsTerminal(int(file.Fd()))}
}

// Paint some text with a given escape, or leave it unchanged if this painter
// is disabled.
func (p Painter) Paint(escape AnsiEscape, text string) string {
	if !p.enabled {
		return text
	}
	//
	return escape.Paint(text)
}
