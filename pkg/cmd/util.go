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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/consensys/go-svm/pkg/svm/asm"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/unit"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	// EXIT_INPUT indicates a missing or unreadable input file.
	EXIT_INPUT = 2
	// EXIT_LOAD indicates a malformed unit (or assembly file).
	EXIT_LOAD = 3
	// EXIT_FAULT indicates execution halted with a fault.
	EXIT_FAULT = 4
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}

	return r
}

// GetUint gets an expected unsigned integer, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}

	return r
}

// GetUint64 gets an expected 64bit unsigned integer, or exits if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}

	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}

	return r
}

// GetDuration gets an expected duration, or exits if an error arises.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}

	return r
}

// configureLogging sets the log level according to the verbosity flags.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "trace") {
		log.SetLevel(log.TraceLevel)
	} else if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// readUnitFile reads a bytecode unit from a given file.  Files with the ".sasm"
// extension are assembled, whilst all others are decoded from their binary
// form.
func readUnitFile(filename string) unit.Unit {
	if strings.HasSuffix(filename, ".sasm") {
		return readAssemblyFile(filename)
	}
	//
	u, err := unit.ReadFile(filename)
	//
	if errors.Is(err, fault.ErrLoad) {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(EXIT_LOAD)
	} else if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}
	//
	return u
}

func readAssemblyFile(filename string) unit.Unit {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}
	//
	text := string(bytes)
	u, errs := asm.Parse(text)
	//
	if len(errs) > 0 {
		lines := strings.Split(text, "\n")
		//
		for _, err := range errs {
			printSyntaxError(filename, err, lines)
		}
		//
		os.Exit(EXIT_LOAD)
	}
	//
	return u
}

// loadUnit checks a unit is well-formed before it is executed.
func loadUnit(filename string, u unit.Unit) *unit.Program {
	program, err := unit.Load(u)
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(EXIT_LOAD)
	}
	//
	return program
}

func printSyntaxError(filename string, err asm.SyntaxError, lines []string) {
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", filename, err.Line, err.Message)
	// Print line
	if err.Line > 0 && err.Line <= len(lines) {
		fmt.Println(lines[err.Line-1])
	}
}
