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
	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// AluChip holds one row for every arithmetic operation executed in a chunk.
// Bitwise operations are decomposed into byte lookups.
type AluChip[F field.Element[F]] struct {
	layout    *Layout
	opcode    Column
	a, b, c   Limbs
	byteOp    Column
	aBytes    Word
	bBytes    Word
	cBytes    Word
	isReal    Column
	isBitwise Column
}

// NewAluChip constructs a new ALU chip.
func NewAluChip[F field.Element[F]]() *AluChip[F] {
	layout := NewLayout("Alu")
	//
	return &AluChip[F]{
		layout:    layout,
		opcode:    layout.Add("opcode"),
		a:         newLimbs(layout, "a"),
		b:         newLimbs(layout, "b"),
		c:         newLimbs(layout, "c"),
		byteOp:    layout.Add("byte_op"),
		aBytes:    newWord(layout, "a_byte"),
		bBytes:    newWord(layout, "b_byte"),
		cBytes:    newWord(layout, "c_byte"),
		isReal:    layout.Add("is_real"),
		isBitwise: layout.Add("is_bitwise"),
	}
}

// Name implementation for Chip interface.
func (c *AluChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *AluChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *AluChip[F]) Included(r *record.Record) bool {
	return len(r.AluEvents) > 0
}

// Dependencies implementation for Chip interface.  The byte lookups of bitwise
// operations are recorded during execution.
func (c *AluChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *AluChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	trace := NewTrace[F](c.layout, uint(len(r.AluEvents)))
	//
	for i, e := range r.AluEvents {
		row := trace.Row(uint(i))
		//
		row.SetUint64(c.opcode, uint64(e.Opcode))
		setLimbs(row, c.a, e.A)
		setLimbs(row, c.b, e.B)
		setLimbs(row, c.c, e.C)
		row.SetBool(c.isReal, true)
		//
		if e.Opcode.IsBitwise() {
			row.SetBool(c.isBitwise, true)
			row.SetUint64(c.byteOp, uint64(emulator.BitwiseByteOpcode(e.Opcode)))
			setWord(row, c.aBytes, e.A)
			setWord(row, c.bBytes, e.B)
			setWord(row, c.cBytes, e.C)
		}
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *AluChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	var zero = field.Zero[F]()
	//
	for i := range trace.Height() {
		row := trace.Row(i)
		//
		builder.Looked(lookup.Alu, lookup.REGIONAL, row.Get(c.isReal),
			row.Values(c.opcode, c.a[0], c.a[1], c.b[0], c.b[1], c.c[0], c.c[1])...)
		//
		for j := range 4 {
			builder.Looking(lookup.Byte, lookup.REGIONAL, row.Get(c.isBitwise),
				row.Get(c.byteOp), row.Get(c.aBytes[j]), zero, row.Get(c.bBytes[j]), row.Get(c.cBytes[j]))
		}
	}
}
