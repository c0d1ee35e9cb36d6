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
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// MemoryLocalChip holds one row for every address accessed in a chunk.  Within
// the chunk, it provides the initial record of each address and consumes its
// final record.  Across chunks, it does the opposite.
type MemoryLocalChip[F field.Element[F]] struct {
	layout       *Layout
	addr         Limbs
	initialChunk Column
	initialTs    Column
	initial      Word
	finalChunk   Column
	finalTs      Column
	final        Word
	isReal       Column
}

// NewMemoryLocalChip constructs a new local memory chip.
func NewMemoryLocalChip[F field.Element[F]]() *MemoryLocalChip[F] {
	layout := NewLayout("MemoryLocal")
	//
	return &MemoryLocalChip[F]{
		layout:       layout,
		addr:         newLimbs(layout, "addr"),
		initialChunk: layout.Add("initial_chunk"),
		initialTs:    layout.Add("initial_ts"),
		initial:      newWord(layout, "initial_value"),
		finalChunk:   layout.Add("final_chunk"),
		finalTs:      layout.Add("final_ts"),
		final:        newWord(layout, "final_value"),
		isReal:       layout.Add("is_real"),
	}
}

// Name implementation for Chip interface.
func (c *MemoryLocalChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *MemoryLocalChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *MemoryLocalChip[F]) Included(r *record.Record) bool {
	return len(r.MemoryLocalEvents) > 0
}

// Dependencies implementation for Chip interface.  The bytes of every final
// value are range checked.
func (c *MemoryLocalChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return Shard(r.MemoryLocalEvents, func(events []record.MemoryLocalEvent) []record.ByteLookupEvent {
		var lookups = make([]record.ByteLookupEvent, 0, 2*len(events))
		//
		for _, e := range events {
			v := e.Final.Value
			lookups = append(lookups,
				record.NewByteLookup(record.U8Range, uint8(v), uint8(v>>8)),
				record.NewByteLookup(record.U8Range, uint8(v>>16), uint8(v>>24)))
		}
		//
		return lookups
	})
}

// GenerateTrace implementation for Chip interface.
func (c *MemoryLocalChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	trace := NewTrace[F](c.layout, uint(len(r.MemoryLocalEvents)))
	//
	for i, e := range r.MemoryLocalEvents {
		row := trace.Row(uint(i))
		setLimbs(row, c.addr, e.Addr)
		row.SetUint64(c.initialChunk, uint64(e.Initial.Chunk))
		row.SetUint64(c.initialTs, uint64(e.Initial.Timestamp))
		setWord(row, c.initial, e.Initial.Value)
		row.SetUint64(c.finalChunk, uint64(e.Final.Chunk))
		row.SetUint64(c.finalTs, uint64(e.Final.Timestamp))
		setWord(row, c.final, e.Final.Value)
		row.SetBool(c.isReal, true)
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *MemoryLocalChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	var u8range = field.Uint64[F](uint64(record.U8Range))
	//
	for i := range trace.Height() {
		var (
			row     = trace.Row(i)
			isReal  = row.Get(c.isReal)
			initial = memoryTuple(row, c.initialChunk, c.initialTs, c.addr, c.initial)
			final   = memoryTuple(row, c.finalChunk, c.finalTs, c.addr, c.final)
			zero    = field.Zero[F]()
		)
		//
		builder.Looked(lookup.Memory, lookup.REGIONAL, isReal, initial...)
		builder.Looking(lookup.Memory, lookup.REGIONAL, isReal, final...)
		builder.Looking(lookup.Memory, lookup.GLOBAL, isReal, initial...)
		builder.Looked(lookup.Memory, lookup.GLOBAL, isReal, final...)
		//
		builder.Looking(lookup.Byte, lookup.REGIONAL, isReal, u8range, zero, zero,
			row.Get(c.final[0]), row.Get(c.final[1]))
		builder.Looking(lookup.Byte, lookup.REGIONAL, isReal, u8range, zero, zero,
			row.Get(c.final[2]), row.Get(c.final[3]))
	}
}

// MemoryGlobalChip holds one row for every address whose initial (or final)
// value is established in a chunk.  Initialisation provides the record
// (chunk 0, timestamp 0) of an address to the first chunk accessing it, whilst
// finalisation consumes the record left by the last.
type MemoryGlobalChip[F field.Element[F]] struct {
	layout     *Layout
	initialize bool
	addr       Limbs
	chunk      Column
	timestamp  Column
	value      Word
	isReal     Column
}

// NewMemoryInitializeChip constructs the chip for memory initialisation.
func NewMemoryInitializeChip[F field.Element[F]]() *MemoryGlobalChip[F] {
	return newMemoryGlobalChip[F]("MemoryInitialize", true)
}

// NewMemoryFinalizeChip constructs the chip for memory finalisation.
func NewMemoryFinalizeChip[F field.Element[F]]() *MemoryGlobalChip[F] {
	return newMemoryGlobalChip[F]("MemoryFinalize", false)
}

func newMemoryGlobalChip[F field.Element[F]](name string, initialize bool) *MemoryGlobalChip[F] {
	layout := NewLayout(name)
	//
	return &MemoryGlobalChip[F]{
		layout:     layout,
		initialize: initialize,
		addr:       newLimbs(layout, "addr"),
		chunk:      layout.Add("chunk"),
		timestamp:  layout.Add("ts"),
		value:      newWord(layout, "value"),
		isReal:     layout.Add("is_real"),
	}
}

// Name implementation for Chip interface.
func (c *MemoryGlobalChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *MemoryGlobalChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *MemoryGlobalChip[F]) Included(r *record.Record) bool {
	return len(c.events(r)) > 0
}

// Dependencies implementation for Chip interface.
func (c *MemoryGlobalChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *MemoryGlobalChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	var (
		events = c.events(r)
		trace  = NewTrace[F](c.layout, uint(len(events)))
	)
	//
	for i, e := range events {
		row := trace.Row(uint(i))
		setLimbs(row, c.addr, e.Addr)
		row.SetUint64(c.chunk, uint64(e.Chunk))
		row.SetUint64(c.timestamp, uint64(e.Timestamp))
		setWord(row, c.value, e.Value)
		row.SetBool(c.isReal, true)
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *MemoryGlobalChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		var (
			row    = trace.Row(i)
			values = memoryTuple(row, c.chunk, c.timestamp, c.addr, c.value)
		)
		//
		if c.initialize {
			builder.Looked(lookup.Memory, lookup.GLOBAL, row.Get(c.isReal), values...)
		} else {
			builder.Looking(lookup.Memory, lookup.GLOBAL, row.Get(c.isReal), values...)
		}
	}
}

func (c *MemoryGlobalChip[F]) events(r *record.Record) []record.MemoryInitializeFinalizeEvent {
	if c.initialize {
		return r.MemoryInitializeEvents
	}
	//
	return r.MemoryFinalizeEvents
}
