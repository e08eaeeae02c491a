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
	"context"
	"io"

	"github.com/consensys/go-svm/pkg/svm/config"
	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/register"
	"github.com/consensys/go-svm/pkg/svm/unit"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// State of a machine.
type State uint8

const (
	// Running indicates the machine can execute further instructions.
	Running State = iota
	// Halted indicates the machine has terminated, either normally or because
	// of a fault.  This state is terminal.
	Halted
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	//
	return "halted"
}

// Result is the outcome of executing a machine to completion.
type Result struct {
	// Returns holds the values returned from the outermost frame (if it
	// returned explicitly).
	Returns []register.Value
	// Fault describes why the machine halted abnormally, or is nil if it
	// halted normally.
	Fault *fault.Fault
	// Emissions holds the text emitted by print instructions, in order.
	Emissions []string
	// Steps is the number of instructions executed.
	Steps uint64
}

// Err returns the fault of this result as an error, or nil if there was none.
func (r Result) Err() error {
	if r.Fault == nil {
		return nil
	}
	//
	return r.Fault
}

// Machine is a single instance of the virtual machine executing a given
// program.  A machine owns its register file and call stack, whilst the
// program (including its constant pool) may be shared with other machines.  A
// machine is not safe for concurrent use.
type Machine struct {
	id        uuid.UUID
	log       *log.Entry
	program   *unit.Program
	pool      *constant.Pool
	registers *register.File
	frames    *CallStack
	output    *Output
	state     State
	result    Result
	maxSteps  uint64
	trace     bool
}

// New constructs a machine for a given program, booted and ready to execute
// from the program's entry point.  This fails if the outermost window cannot
// be allocated within the configured register file.
func New(program *unit.Program, cfg config.Machine) (*Machine, error) {
	var (
		id     = uuid.New()
		window = program.Window()
	)
	//
	if window == 0 {
		window = cfg.MainWindow
	}
	//
	m := &Machine{
		id:        id,
		log:       log.WithField("vm", id.String()),
		program:   program,
		pool:      program.Pool(),
		registers: register.NewFile(cfg.RegisterFileSize),
		frames:    NewCallStack(cfg.MaxCallDepth),
		output:    NewOutput(nil),
		state:     Running,
		maxSteps:  cfg.MaxSteps,
		trace:     log.IsLevelEnabled(log.TraceLevel),
	}
	// Boot the outermost frame
	w, err := m.registers.Allocate(window)
	if err != nil {
		return nil, err
	}
	//
	if err := m.frames.Push(Frame{IP: program.Entry(), Entry: program.Entry(), Window: w}); err != nil {
		return nil, err
	}
	//
	return m, nil
}

// WithEcho causes emissions to be written to a given writer as they occur (in
// addition to being recorded).
func (m *Machine) WithEcho(w io.Writer) *Machine {
	m.output.echo = w
	return m
}

// ID returns the unique identifier of this machine instance.
func (m *Machine) ID() uuid.UUID {
	return m.id
}

// State returns the current state of this machine.
func (m *Machine) State() State {
	return m.state
}

// Depth returns the current depth of the call stack.
func (m *Machine) Depth() uint {
	return m.frames.Depth()
}

// IP returns the instruction pointer of the active frame.
func (m *Machine) IP() uint {
	return m.frames.Top().IP
}

// Window returns a copy of the registers in the active frame's window.
func (m *Machine) Window() []register.Value {
	return m.registers.Contents(m.frames.Top().Window)
}

// Backtrace returns the frames on the call stack, starting from the active
// frame.
func (m *Machine) Backtrace() []Frame {
	return m.frames.Backtrace()
}

// Result returns the result of this machine thus far.
func (m *Machine) Result() Result {
	var r = m.result
	//
	r.Emissions = m.output.Contents()
	//
	return r
}

// Run executes this machine until it halts, returning the result.  The context
// is checked before each instruction is fetched, and cancellation (or an
// expired deadline) halts the machine with a cancellation fault.  This is the
// only point at which execution can be interrupted.
func (m *Machine) Run(ctx context.Context) Result {
	for m.state == Running {
		if err := ctx.Err(); err != nil {
			m.fail(fault.Wrap(fault.Cancelled, err, "execution cancelled"), m.IP())
			break
		}
		//
		m.Step()
	}
	//
	return m.Result()
}

// Step executes a single instruction, returning true if the machine is still
// running afterwards.
func (m *Machine) Step() bool {
	if m.state != Running {
		return false
	}
	//
	var (
		frame = m.frames.Top()
		ip    = frame.IP
	)
	// Check for exhausted instruction stream
	if ip >= m.program.Len() {
		m.halt(nil)
		return false
	} else if m.maxSteps != 0 && m.result.Steps >= m.maxSteps {
		m.fail(fault.New(fault.Cancelled, "step limit of %d exceeded", m.maxSteps), ip)
		return false
	}
	// Fetch
	word := m.program.At(ip)
	frame.IP = ip + 1
	//
	if m.trace {
		m.log.Tracef("[%d] %s", ip, word)
	}
	// Execute
	if err := m.execute(word); err != nil {
		m.fail(err, ip)
	}
	//
	m.result.Steps++
	//
	return m.state == Running
}

// halt this machine normally.
func (m *Machine) halt(returns []register.Value) {
	m.state = Halted
	m.result.Returns = returns
	m.log.Debugf("halted after %d steps", m.result.Steps)
}

// fail halts this machine abnormally, locating the fault at a given
// instruction.
func (m *Machine) fail(err error, ip uint) {
	var f = fault.As(err)
	// Errors which are not faults indicate an environmental failure.
	if f == nil {
		f = fault.Wrap(fault.Cancelled, err, "host failure")
	}
	//
	f = f.At(ip, m.frames.Depth())
	//
	if ip < m.program.Len() {
		f.Instruction = m.program.At(ip).String()
	}
	//
	m.state = Halted
	m.result.Fault = f
	m.log.Debugf("halted: %s", m.result.Fault)
}
