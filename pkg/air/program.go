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

// Decoded columns holding a decoded instruction.
type Decoded struct {
	Opcode Column
	OpA    Column
	OpB    Limbs
	OpC    Limbs
	ImmB   Column
	ImmC   Column
}

func newDecoded(layout *Layout) Decoded {
	return Decoded{
		Opcode: layout.Add("opcode"),
		OpA:    layout.Add("op_a"),
		OpB:    newLimbs(layout, "op_b"),
		OpC:    newLimbs(layout, "op_c"),
		ImmB:   layout.Add("imm_b"),
		ImmC:   layout.Add("imm_c"),
	}
}

func fillDecoded[F field.Element[F]](row Row[F], cols Decoded, insn riscv.Instruction) {
	row.SetUint64(cols.Opcode, uint64(insn.Opcode))
	row.SetUint64(cols.OpA, uint64(insn.OpA))
	setLimbs(row, cols.OpB, insn.OpB)
	setLimbs(row, cols.OpC, insn.OpC)
	row.SetBool(cols.ImmB, insn.ImmB)
	row.SetBool(cols.ImmC, insn.ImmC)
}

// programTuple returns the values (pc_lo, pc_hi, opcode, op_a, op_b_lo, op_b_hi,
// op_c_lo, op_c_hi, imm_b, imm_c) identifying an instruction at a given pc.
func programTuple[F field.Element[F]](row Row[F], pc Limbs, cols Decoded) []F {
	return row.Values(pc[0], pc[1], cols.Opcode, cols.OpA, cols.OpB[0], cols.OpB[1], cols.OpC[0], cols.OpC[1],
		cols.ImmB, cols.ImmC)
}

// ProgramChip holds one row for every instruction of the program, along with
// the number of times it was executed in the chunk.
type ProgramChip[F field.Element[F]] struct {
	program      *riscv.Program
	layout       *Layout
	pc           Limbs
	decoded      Decoded
	multiplicity Column
}

// NewProgramChip constructs the program chip for a given program.
func NewProgramChip[F field.Element[F]](program *riscv.Program) *ProgramChip[F] {
	layout := NewLayout("Program")
	//
	return &ProgramChip[F]{
		program:      program,
		layout:       layout,
		pc:           newLimbs(layout, "pc"),
		decoded:      newDecoded(layout),
		multiplicity: layout.Add("multiplicity"),
	}
}

// Name implementation for Chip interface.
func (c *ProgramChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *ProgramChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *ProgramChip[F]) Included(r *record.Record) bool {
	return len(r.CpuEvents) > 0
}

// Dependencies implementation for Chip interface.
func (c *ProgramChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *ProgramChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	var (
		n      = uint(len(c.program.Instructions))
		counts = make([]uint64, n)
		trace  = NewTrace[F](c.layout, n)
	)
	//
	for _, e := range r.CpuEvents {
		if index := (e.PC - c.program.PCBase) / 4; uint(index) < n {
			counts[index]++
		}
	}
	//
	for i, insn := range c.program.Instructions {
		row := trace.Row(uint(i))
		setLimbs(row, c.pc, c.program.PCBase+uint32(4*i))
		fillDecoded(row, c.decoded, insn)
		row.SetUint64(c.multiplicity, counts[i])
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *ProgramChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		row := trace.Row(i)
		builder.Looked(lookup.Program, lookup.REGIONAL, row.Get(c.multiplicity), programTuple(row, c.pc, c.decoded)...)
	}
}
