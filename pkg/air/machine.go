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
package air

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"golang.org/x/sync/errgroup"
)

// ErrMissingEvents signals a record which was not generated in trace mode.
var ErrMissingEvents = errors.New("missing events")

// SHARD_SIZE is the minimum number of events processed by a single goroutine
// when generating dependencies.
const SHARD_SIZE = 1024

// Machine is the fixed set of chips for a given program.
type Machine[F field.Element[F]] struct {
	program *riscv.Program
	chips   []Chip[F]
}

// NewMachine constructs the machine for a given program.
func NewMachine[F field.Element[F]](program *riscv.Program) *Machine[F] {
	chips := []Chip[F]{
		NewProgramChip[F](program),
		NewCpuChip[F](),
		NewAluChip[F](),
		NewMemoryLocalChip[F](),
		NewMemoryInitializeChip[F](),
		NewMemoryFinalizeChip[F](),
		NewSyscallChip[F](),
	}
	//
	for _, code := range syscall.PRECOMPILES {
		chips = append(chips, NewPrecompileChip[F](code))
	}
	// Must come last, since it depends on everything else.
	chips = append(chips, NewByteChip[F]())
	//
	return &Machine[F]{program, chips}
}

// Program returns the program being proven by this machine.
func (m *Machine[F]) Program() *riscv.Program {
	return m.program
}

// Chips returns the chips of this machine.
func (m *Machine[F]) Chips() []Chip[F] {
	return m.chips
}

// Chip returns the chip with a given name, or nil if none exists.
func (m *Machine[F]) Chip(name string) Chip[F] {
	for _, c := range m.chips {
		if c.Name() == name {
			return c
		}
	}
	//
	return nil
}

// GenerateDependencies computes the events which arise from trace generation
// for a given record.  Chips are processed in parallel, and their results are
// concatenated in chip order.
func (m *Machine[F]) GenerateDependencies(r *record.Record) *Dependencies {
	var (
		group  errgroup.Group
		shards = make([][]record.ByteLookupEvent, len(m.chips))
		deps   Dependencies
	)
	//
	for i, chip := range m.chips {
		group.Go(func() error {
			shards[i] = chip.Dependencies(r)
			return nil
		})
	}
	// Errors are impossible here.
	_ = group.Wait()
	//
	for _, shard := range shards {
		deps.ByteLookups = append(deps.ByteLookups, shard...)
	}
	//
	return &deps
}

// GenerateTraces generates the traces of all chips for a given record, in
// parallel.  Entries for chips which are not included in the record are nil.
func (m *Machine[F]) GenerateTraces(r *record.Record, deps *Dependencies) ([]*Trace[F], error) {
	var (
		group  errgroup.Group
		traces = make([]*Trace[F], len(m.chips))
	)
	//
	if n := countAlu(r); n != len(r.AluEvents) {
		return nil, fmt.Errorf("%w: chunk %d has %d arithmetic instructions, but %d events", ErrMissingEvents,
			r.Chunk(), n, len(r.AluEvents))
	}
	//
	for i, chip := range m.chips {
		if !chip.Included(r) {
			continue
		}
		//
		group.Go(func() error {
			trace, err := chip.GenerateTrace(r, deps)
			if err != nil {
				return fmt.Errorf("chip %s: %w", chip.Name(), err)
			}
			//
			traces[i] = trace
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	return traces, nil
}

// Eval collects the interactions of all given traces, where the ith trace
// belongs to the ith chip.
func (m *Machine[F]) Eval(traces []*Trace[F]) *lookup.Collector[F] {
	var (
		group      errgroup.Group
		collectors = make([]*lookup.Collector[F], len(m.chips))
		result     = lookup.NewCollector[F]()
	)
	//
	for i, chip := range m.chips {
		if traces[i] == nil {
			continue
		}
		//
		group.Go(func() error {
			collectors[i] = lookup.NewCollector[F]()
			chip.Eval(traces[i], collectors[i])
			//
			return nil
		})
	}
	//
	_ = group.Wait()
	//
	for _, c := range collectors {
		if c != nil {
			result.Append(c)
		}
	}
	//
	return result
}

// Interactions is a convenience which generates the traces of a record and
// evaluates them.
func (m *Machine[F]) Interactions(r *record.Record) (*lookup.Collector[F], error) {
	traces, err := m.GenerateTraces(r, m.GenerateDependencies(r))
	if err != nil {
		return nil, err
	}
	//
	return m.Eval(traces), nil
}

func countAlu(r *record.Record) int {
	var count int
	//
	for i := range r.CpuEvents {
		if r.CpuEvents[i].Instruction.Opcode.IsAlu() {
			count++
		}
	}
	//
	return count
}

// Shard applies a function to consecutive shards of a slice in parallel,
// concatenating the results in order.
func Shard[E any, T any](items []E, fn func([]E) []T) []T {
	var (
		n     = max(SHARD_SIZE, (len(items)+runtime.NumCPU()-1)/runtime.NumCPU())
		count = (len(items) + n - 1) / n
	)
	//
	if count <= 1 {
		return fn(items)
	}
	//
	var (
		group   errgroup.Group
		results = make([][]T, count)
		output  []T
	)
	//
	for i := range count {
		shard := items[i*n : min(len(items), (i+1)*n)]
		//
		group.Go(func() error {
			results[i] = fn(shard)
			return nil
		})
	}
	//
	_ = group.Wait()
	//
	for _, r := range results {
		output = append(output, r...)
	}
	//
	return output
}
