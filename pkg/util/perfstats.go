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
package util

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of time and memory allocation at a given point,
// against which the cost of executing one or more machines is measured.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Summary describes the difference between the state now and as it was when
// the PerfStats object was created, given the number of instructions executed
// in the meantime.
func (p *PerfStats) Summary(steps uint64) string {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)
	alloc := m.TotalAlloc - p.startMem
	gcs := m.NumGC - p.startGc
	elapsed := time.Since(p.startTime)
	rate := float64(steps)

	if secs := elapsed.Seconds(); secs > 0 {
		rate = rate / secs
	}

	return fmt.Sprintf("%s instructions in %s (%s/s) using %s (%d GC events)",
		humanize.Comma(int64(steps)), elapsed.Round(time.Microsecond), humanize.SIWithDigits(rate, 1, ""),
		humanize.Bytes(alloc), gcs)
}

// Log logs the summary at debug level.
func (p *PerfStats) Log(prefix string, steps uint64) {
	log.Debugf("%s executed %s", prefix, p.Summary(steps))
}
