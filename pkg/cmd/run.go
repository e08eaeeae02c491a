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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-svm/pkg/svm"
	"github.com/consensys/go-svm/pkg/svm/config"
	"github.com/consensys/go-svm/pkg/svm/fault"
	"github.com/consensys/go-svm/pkg/svm/machine"
	"github.com/consensys/go-svm/pkg/util"
	"github.com/consensys/go-svm/pkg/util/termio"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] unit_file",
	Short: "execute a bytecode unit.",
	Long: `Execute a given bytecode unit (either binary or assembly) until it halts,
	reporting any emissions, return values and faults.  Multiple independent
	instances of the unit can be executed concurrently.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		cfg := readConfig(cmd)
		instances := GetUint(cmd, "instances")
		timeout := GetDuration(cmd, "timeout")
		program := loadUnit(args[0], readUnitFile(args[0]))
		// Configure context
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
		//
		var (
			stats   = util.NewPerfStats()
			results []machine.Result
			err     error
		)
		//
		if instances <= 1 {
			var result machine.Result
			result, err = svm.Run(ctx, program, cfg, os.Stdout)
			results = []machine.Result{result}
		} else {
			results, err = svm.RunConcurrent(ctx, program, cfg, instances)
		}
		//
		cancel()
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(EXIT_LOAD)
		}
		//
		if code := reportResults(results, cfg, instances > 1, stats, GetFlag(cmd, "stats")); code != 0 {
			os.Exit(code)
		}
	},
}

// readConfig reads the configuration file (if given) and applies any overrides
// from the command line.
func readConfig(cmd *cobra.Command) config.Config {
	var (
		cfg      = config.Default()
		filename = GetString(cmd, "config")
		err      error
	)
	//
	if filename != "" {
		if cfg, err = config.Load(filename); err != nil {
			fmt.Println(err)
			os.Exit(EXIT_INPUT)
		}
	}
	//
	if depth := GetUint(cmd, "max-depth"); depth != 0 {
		cfg.Machine.MaxCallDepth = depth
	}
	//
	if steps := GetUint64(cmd, "max-steps"); steps != 0 {
		cfg.Machine.MaxSteps = steps
	}
	//
	if GetFlag(cmd, "quiet") {
		cfg.Output.Echo = false
	}
	//
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(EXIT_INPUT)
	}
	//
	return cfg
}

// reportResults prints the outcome of each machine, returning a non-zero exit
// code if any machine faulted.
func reportResults(results []machine.Result, cfg config.Config, many bool, stats *util.PerfStats,
	showStats bool) int {
	var (
		painter = termio.NewPainter(os.Stdout)
		red     = termio.NewAnsiEscape().Bold().FgColour(termio.RED)
		yellow  = termio.NewAnsiEscape().FgColour(termio.YELLOW)
		code    = 0
		steps   uint64
	)
	//
	for i, r := range results {
		var prefix string
		//
		steps += r.Steps
		//
		if many {
			prefix = fmt.Sprintf("[%d] ", i)
			// Emissions were not echoed
			if cfg.Output.Echo {
				for _, line := range r.Emissions {
					fmt.Printf("%s%s\n", prefix, line)
				}
			}
		}
		//
		if len(r.Returns) > 0 {
			values := make([]string, len(r.Returns))
			//
			for j, v := range r.Returns {
				values[j] = v.String()
			}
			//
			fmt.Printf("%sreturned %s\n", prefix, strings.Join(values, ", "))
		}
		//
		if r.Fault != nil {
			fmt.Printf("%s%s\n", prefix, painter.Paint(red, r.Fault.Error()))
			//
			if r.Fault.Instruction != "" {
				fmt.Printf("%s    %s\n", prefix, painter.Paint(yellow, r.Fault.Instruction))
			}
			//
			code = faultCode(r.Fault)
		}
	}
	//
	stats.Log("run", steps)
	//
	if showStats {
		fmt.Println(stats.Summary(steps))
	}
	//
	return code
}

func faultCode(f *fault.Fault) int {
	if f.Kind == fault.Load {
		return EXIT_LOAD
	}
	//
	return EXIT_FAULT
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("config", "c", "", "read machine configuration from a TOML file")
	runCmd.Flags().UintP("instances", "n", 1, "number of instances to execute concurrently")
	runCmd.Flags().Duration("timeout", 0, "cancel execution after a given duration")
	runCmd.Flags().Uint("max-depth", 0, "override the maximum call depth")
	runCmd.Flags().Uint64("max-steps", 0, "override the maximum number of instructions executed")
	runCmd.Flags().BoolP("quiet", "q", false, "do not echo emissions")
	runCmd.Flags().Bool("stats", false, "report execution statistics")
}
