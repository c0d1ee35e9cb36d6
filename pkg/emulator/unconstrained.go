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
package emulator

import (
	"maps"
	"slices"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/syscall"
)

// unconstrainedState is a snapshot of the machine taken on entry to
// unconstrained mode, along with the original value of every address modified
// since.  Exiting restores the snapshot, such that nothing executed whilst
// unconstrained is observable in the constrained trace.
type unconstrainedState struct {
	// machine state on entry (memory excluded)
	state   MachineState
	record  *record.Record
	pending pendingAccesses
	mode    Mode
	// original records of modified addresses (absent if untouched)
	memory map[uint32]savedRecord
	// addresses initialised through HINT_READ
	hinted []uint32
}

type savedRecord struct {
	record.MemoryRecord
	present bool
}

// save the original record of an address, unless already saved.
func (s *unconstrainedState) save(addr uint32, prev record.MemoryRecord, present bool) {
	if _, ok := s.memory[addr]; !ok {
		s.memory[addr] = savedRecord{prev, present}
	}
}

// enterUnconstrained switches to unconstrained mode, returning 1 to the
// unconstrained branch.  The constrained branch observes 0 once the
// corresponding exit is reached.
func enterUnconstrained(ctx *SyscallContext, _ syscall.Code, _, _ uint32) (uint32, bool, error) {
	var e = ctx.executor
	//
	if e.unconstrained != nil {
		panic("already in unconstrained mode")
	}
	//
	snapshot := *e.state
	snapshot.Memory = nil
	snapshot.InputStream = slices.Clone(e.state.InputStream)
	snapshot.Output = slices.Clone(e.state.Output)
	snapshot.SyscallCounts = maps.Clone(e.state.SyscallCounts)
	//
	e.unconstrained = &unconstrainedState{
		state:   snapshot,
		record:  e.record,
		pending: e.pending,
		mode:    e.mode,
		memory:  make(map[uint32]savedRecord),
	}
	// Events produced whilst unconstrained are discarded.
	e.record = record.New(e.state.Chunk, e.state.PC)
	e.mode = SimpleMode
	//
	return 1, true, nil
}

// exitUnconstrained restores the state as it was on entry to unconstrained
// mode, and resumes after the entering ECALL.
func exitUnconstrained(ctx *SyscallContext, _ syscall.Code, _, _ uint32) (uint32, bool, error) {
	var (
		e = ctx.executor
		s = e.unconstrained
	)
	// Exiting without having entered is a no-op.
	if s == nil {
		return 0, false, nil
	}
	//
	memory := e.state.Memory
	//
	for addr, saved := range s.memory {
		if saved.present {
			memory[addr] = saved.MemoryRecord
		} else {
			delete(memory, addr)
		}
	}
	// Hinted words never reached the constrained memory image.
	for _, addr := range s.hinted {
		delete(e.initial, addr)
	}
	//
	*e.state = s.state
	e.state.Memory = memory
	e.record = s.record
	e.pending = s.pending
	e.mode = s.mode
	e.unconstrained = nil
	//
	ctx.clk = s.state.Clk
	ctx.nextPC = s.state.PC + 4
	//
	return 0, true, nil
}
