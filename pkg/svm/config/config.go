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

// Package config handles the configuration of machine resource limits, as read
// from a TOML file such as:
//
//	[machine]
//	max-call-depth = 256
//	register-file-size = 65536
//	main-window = 64
//	max-steps = 0
//
//	[output]
//	echo = true
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the host-imposed limits and behaviour of a machine.
type Config struct {
	Machine Machine `toml:"machine"`
	Output  Output  `toml:"output"`
}

// Machine configures resource limits.
type Machine struct {
	// MaxCallDepth is the maximum number of frames on the call stack
	// (including the outermost frame).
	MaxCallDepth uint `toml:"max-call-depth"`
	// RegisterFileSize is the total number of registers available to all
	// windows.
	RegisterFileSize uint `toml:"register-file-size"`
	// MainWindow is the number of registers given to the outermost frame when
	// the unit does not specify this.
	MainWindow uint `toml:"main-window"`
	// MaxSteps bounds the number of instructions executed, or zero for no
	// bound.  Exceeding this cancels the machine.
	MaxSteps uint64 `toml:"max-steps"`
}

// Output configures the handling of print emissions.
type Output struct {
	// Echo determines whether emissions are written to the host's output as
	// they occur (in addition to being recorded).
	Echo bool `toml:"echo"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Machine: Machine{
			MaxCallDepth:     1024,
			RegisterFileSize: 1 << 16,
			MainWindow:       256,
			MaxSteps:         0,
		},
		Output: Output{Echo: true},
	}
}

// Parse a configuration from TOML text.  Any settings not present in the text
// retain their default values.
func Parse(text string) (Config, error) {
	var cfg = Default()
	//
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error: %w", err)
	} else if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown setting \"%s\"", undecoded[0])
	}
	//
	return cfg, cfg.Validate()
}

// Load a configuration from a given TOML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("cannot read %s: %w", path, err)
	}
	//
	cfg, err := Parse(string(data))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	//
	return cfg, nil
}

// Validate checks that this configuration is usable.
func (p Config) Validate() error {
	var m = p.Machine
	//
	switch {
	case m.MaxCallDepth == 0:
		return errors.New("max-call-depth must be positive")
	case m.RegisterFileSize == 0:
		return errors.New("register-file-size must be positive")
	case m.MainWindow > m.RegisterFileSize:
		return fmt.Errorf("main-window (%d) exceeds register-file-size (%d)", m.MainWindow, m.RegisterFileSize)
	}
	//
	return nil
}
