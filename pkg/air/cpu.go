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
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// CpuChip holds one row for every instruction executed in a chunk.  Each row
// looks up its instruction in the program chip, its arithmetic in the ALU chip
// and (for ECALL) its system call in the syscall chip.
type CpuChip[F field.Element[F]] struct {
	layout  *Layout
	chunk   Column
	clk     Column
	pc      Limbs
	nextPC  Limbs
	decoded Decoded
	a, b, c Limbs
	isReal  Column
	isAlu   Column
	isEcall Column
	// memory accesses in chronological order
	memory, opC, opB, opA Access
}

// NewCpuChip constructs a new CPU chip.
func NewCpuChip[F field.Element[F]]() *CpuChip[F] {
	layout := NewLayout("Cpu")
	//
	return &CpuChip[F]{
		layout:  layout,
		chunk:   layout.Add("chunk"),
		clk:     layout.Add("clk"),
		pc:      newLimbs(layout, "pc"),
		nextPC:  newLimbs(layout, "next_pc"),
		decoded: newDecoded(layout),
		a:       newLimbs(layout, "a"),
		b:       newLimbs(layout, "b"),
		c:       newLimbs(layout, "c"),
		isReal:  layout.Add("is_real"),
		isAlu:   layout.Add("is_alu"),
		isEcall: layout.Add("is_ecall"),
		memory:  newAccess(layout, "mem"),
		opC:     newAccess(layout, "c"),
		opB:     newAccess(layout, "b"),
		opA:     newAccess(layout, "a"),
	}
}

// Name implementation for Chip interface.
func (c *CpuChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *CpuChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *CpuChip[F]) Included(r *record.Record) bool {
	return len(r.CpuEvents) > 0
}

// Dependencies implementation for Chip interface.
func (c *CpuChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *CpuChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	trace := NewTrace[F](c.layout, uint(len(r.CpuEvents)))
	//
	for i := range r.CpuEvents {
		var (
			e   = &r.CpuEvents[i]
			row = trace.Row(uint(i))
		)
		//
		row.SetUint64(c.chunk, uint64(e.Chunk))
		row.SetUint64(c.clk, uint64(e.Clk))
		setLimbs(row, c.pc, e.PC)
		setLimbs(row, c.nextPC, e.NextPC)
		fillDecoded(row, c.decoded, e.Instruction)
		setLimbs(row, c.a, e.A)
		setLimbs(row, c.b, e.B)
		setLimbs(row, c.c, e.C)
		row.SetBool(c.isReal, true)
		row.SetBool(c.isAlu, e.Instruction.Opcode.IsAlu())
		row.SetBool(c.isEcall, e.Instruction.Opcode == riscv.ECALL)
		fillAccess(row, c.memory, e.MemoryRecord)
		fillAccess(row, c.opC, e.CRecord)
		fillAccess(row, c.opB, e.BRecord)
		fillAccess(row, c.opA, e.ARecord)
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *CpuChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		row := trace.Row(i)
		//
		builder.Looking(lookup.Program, lookup.REGIONAL, row.Get(c.isReal), programTuple(row, c.pc, c.decoded)...)
		//
		builder.Looking(lookup.Alu, lookup.REGIONAL, row.Get(c.isAlu),
			row.Values(c.decoded.Opcode, c.a[0], c.a[1], c.b[0], c.b[1], c.c[0], c.c[1])...)
		// the syscall code is the value of t0 prior to being overwritten.
		codeLo, codeHi := wordToLimbs(row, c.opA.PrevValue)
		builder.Looking(lookup.Syscall, lookup.REGIONAL, row.Get(c.isEcall),
			row.Get(c.chunk), row.Get(c.clk), codeLo, codeHi, row.Get(c.b[0]), row.Get(c.b[1]), row.Get(c.c[0]),
			row.Get(c.c[1]))
		//
		for _, access := range []Access{c.memory, c.opC, c.opB, c.opA} {
			evalAccess(row, access, builder)
		}
	}
}
