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
package svm

import (
	"context"
	"io"

	"github.com/consensys/go-svm/pkg/svm/config"
	"github.com/consensys/go-svm/pkg/svm/machine"
	"github.com/consensys/go-svm/pkg/svm/unit"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run boots a single machine for a given program and executes it to
// completion.  Emissions are echoed to the given writer when echoing is
// enabled in the configuration.  An error is returned only if the machine
// could not be booted; faults raised during execution are reported in the
// result.
func Run(ctx context.Context, program *unit.Program, cfg config.Config, echo io.Writer) (machine.Result, error) {
	m, err := machine.New(program, cfg.Machine)
	if err != nil {
		return machine.Result{}, err
	}
	//
	if cfg.Output.Echo && echo != nil {
		m.WithEcho(echo)
	}
	//
	log.Debugf("executing machine %s", m.ID())
	//
	return m.Run(ctx), nil
}

// RunConcurrent executes n independent machines over the same program, each
// on its own goroutine.  Machines share nothing except the (immutable)
// program.  Emissions are recorded in each result but never echoed, since
// their interleaving would be arbitrary.  A fault in one machine does not
// affect the others, but failing to boot any machine cancels them all.
func RunConcurrent(ctx context.Context, program *unit.Program, cfg config.Config, n uint) ([]machine.Result, error) {
	var (
		results  = make([]machine.Result, n)
		g, gctx  = errgroup.WithContext(ctx)
		machines = make([]*machine.Machine, n)
	)
	// Boot all machines first, so register files are only allocated once
	// they are known to fit.
	for i := range machines {
		m, err := machine.New(program, cfg.Machine)
		if err != nil {
			return nil, err
		}
		//
		machines[i] = m
	}
	//
	for i, m := range machines {
		g.Go(func() error {
			results[i] = m.Run(gctx)
			log.Debugf("machine %s halted after %d steps", m.ID(), results[i].Steps)
			//
			return nil
		})
	}
	//
	return results, g.Wait()
}
