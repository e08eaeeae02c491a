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

	"github.com/consensys/go-svm/pkg/svm/asm"
	"github.com/consensys/go-svm/pkg/svm/unit"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] unit_file",
	Short: "print the text form of a bytecode unit.",
	Long: `Print the text form of a given bytecode unit, which can be subsequently
	assembled again.`,
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
		fmt.Print(asm.Format(u, GetFlag(cmd, "words")))
	},
}

var asmCmd = &cobra.Command{
	Use:   "asm [flags] assembly_file",
	Short: "assemble a bytecode unit into its binary form.",
	Long: `Assemble a given bytecode unit (in text form) into a binary unit file, which
	can be subsequently executed without requiring an assembly step.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		var (
			output = GetString(cmd, "output")
			u      = readAssemblyFile(args[0])
		)
		// Check unit before writing it
		loadUnit(args[0], u)
		//
		if err := unit.WriteFile(output, u); err != nil {
			fmt.Printf("error writing unit: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(asmCmd)
	disasmCmd.Flags().Bool("words", false, "show encoded instruction words")
	asmCmd.Flags().StringP("output", "o", "a.svm", "specify output file.")
}
