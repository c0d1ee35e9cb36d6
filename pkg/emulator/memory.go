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
	"fmt"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
)

// Positions of the accesses made by a single instruction.  The timestamp of an
// access is the clock of its instruction plus its position, and accesses are
// always performed in increasing position order.
const (
	posMemory uint32 = iota
	posC
	posB
	posA
)

// pendingAccesses holds the accesses of the instruction being executed.
type pendingAccesses struct {
	a, b, c, memory *record.MemoryAccessRecord
}

// initialValue of a given address, before it is first accessed.
func (e *Executor) initialValue(addr uint32) uint32 {
	if addr < riscv.NUM_REGISTERS {
		return 0
	} else if v, ok := e.initial[addr]; ok {
		return v
	}
	//
	return e.program.InitialValue(addr)
}

// peek returns the current value of a word, without accessing it.
func (e *Executor) peek(addr uint32) uint32 {
	if r, ok := e.state.Memory[addr]; ok {
		return r.Value
	}
	//
	return e.initialValue(addr)
}

// access is the single point through which all memory (and register) accesses
// flow.  It produces the access record, updates memory, and tracks the access
// in the live record.
func (e *Executor) access(addr uint32, value uint32, write bool, timestamp uint32) record.MemoryAccessRecord {
	prev, ok := e.state.Memory[addr]
	//
	if !ok {
		prev = record.MemoryRecord{Value: e.initialValue(addr)}
	}
	//
	if e.unconstrained != nil {
		e.unconstrained.save(addr, prev, ok)
	}
	//
	next := record.MemoryRecord{Value: prev.Value, Chunk: e.state.Chunk, Timestamp: timestamp}
	if write {
		next.Value = value
	}
	//
	if !prev.Before(next) {
		panic(fmt.Sprintf("access of 0x%08x at (%d,%d) does not follow (%d,%d)", addr, next.Chunk, next.Timestamp,
			prev.Chunk, prev.Timestamp))
	}
	//
	e.state.Memory[addr] = next
	access := record.NewAccess(addr, prev, next)
	e.record.TrackAccess(access)
	//
	return access
}

// rr reads a register at a given position.
func (e *Executor) rr(r riscv.Register, position uint32) uint32 {
	access := e.access(uint32(r), 0, false, e.state.Clk+position)
	e.pend(position, &access)
	//
	return access.Value
}

// rw writes a register at position A.  Writes to x0 are recorded, but always
// write zero.
func (e *Executor) rw(r riscv.Register, value uint32) {
	if r == riscv.X0 {
		value = 0
	}
	//
	access := e.access(uint32(r), value, true, e.state.Clk+posA)
	e.pend(posA, &access)
}

// mr reads a word of memory.
func (e *Executor) mr(addr uint32) uint32 {
	access := e.access(addr, 0, false, e.state.Clk+posMemory)
	e.pend(posMemory, &access)
	//
	return access.Value
}

// mw writes a word of memory.
func (e *Executor) mw(addr uint32, value uint32) {
	access := e.access(addr, value, true, e.state.Clk+posMemory)
	e.pend(posMemory, &access)
}

func (e *Executor) pend(position uint32, access *record.MemoryAccessRecord) {
	switch position {
	case posA:
		e.pending.a = access
	case posB:
		e.pending.b = access
	case posC:
		e.pending.c = access
	default:
		e.pending.memory = access
	}
}

// isValidAddress checks whether a word of memory (as opposed to a register)
// can be accessed at a given address.
func isValidAddress(addr uint32, alignment uint32) bool {
	return addr >= riscv.NUM_REGISTERS && addr%alignment == 0
}
