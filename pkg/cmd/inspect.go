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
	"fmt"
	"os"

	"github.com/consensys/go-svm/pkg/svm/constant"
	"github.com/consensys/go-svm/pkg/svm/instruction"
	"github.com/consensys/go-svm/pkg/svm/unit"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] unit_file",
	Short: "summarise the contents of a bytecode unit.",
	Long: `Summarise the contents of a given bytecode unit, such as its size, its
	functions and the mix of instructions it contains.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		u := readUnitFile(args[0])
		//
		printUnitSummary(u)
		//
		if GetFlag(cmd, "opcodes") {
			printOpcodeCounts(u)
		}
	},
}

func printUnitSummary(u unit.Unit) {
	var (
		kinds [constant.NumKinds]uint
		size  = uint64(len(u.Code)) * instruction.WordSize
	)
	//
	fmt.Printf("entry: @%d\n", u.Entry)
	fmt.Printf("window: %d\n", u.Window)
	fmt.Printf("code: %s instructions (%s)\n", humanize.Comma(int64(len(u.Code))), humanize.IBytes(size))
	fmt.Printf("constants: %s\n", humanize.Comma(int64(len(u.Constants))))
	//
	for _, c := range u.Constants {
		if c.Kind() < constant.NumKinds {
			kinds[c.Kind()]++
		}
	}
	//
	for k, n := range kinds {
		if n > 0 {
			fmt.Printf("\t%s: %d\n", constant.Kind(k), n)
		}
	}
	// Functions
	for i, c := range u.Constants {
		if c.Kind() == constant.Function {
			fn := c.Function()
			fmt.Printf("function #%d: entry @%d, window %d, returns %d\n", i, fn.Entry, fn.Window, fn.Returns)
		}
	}
}

func printOpcodeCounts(u unit.Unit) {
	var counts [instruction.NumOpcodes]uint
	//
	for _, w := range u.Code {
		if op := w.Opcode(); op.IsValid() {
			counts[op]++
		}
	}
	//
	fmt.Println("opcodes:")
	//
	for op, n := range counts {
		if n > 0 {
			fmt.Printf("\t%-8s %d\n", instruction.Opcode(op), n)
		}
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("opcodes", false, "show the number of uses of each opcode")
}
