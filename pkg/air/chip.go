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
	"strconv"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Chip is a component of the machine which is responsible for one kind of
// event.  A chip generates its trace from the records of a chunk, and
// contributes interactions to the lookup argument when evaluated.
type Chip[F field.Element[F]] interface {
	// Name of this chip, used for reporting.
	Name() string
	// Layout of this chip's trace.
	Layout() *Layout
	// Included determines whether this chip has any rows for a given record.
	Included(r *record.Record) bool
	// Dependencies returns the byte lookups implied by this chip's rows for a
	// given record, over and above those already in the record.
	Dependencies(r *record.Record) []record.ByteLookupEvent
	// GenerateTrace fills the trace of this chip for a given record.
	GenerateTrace(r *record.Record, deps *Dependencies) (*Trace[F], error)
	// Eval sends the interactions of each row of a trace to a given builder.
	Eval(trace *Trace[F], builder lookup.Builder[F])
}

// Dependencies holds events which arise from generating traces, rather than
// from execution.
type Dependencies struct {
	ByteLookups []record.ByteLookupEvent
}

// Word columns holding the little-endian bytes of a 32-bit value.
type Word [4]Column

func newWord(layout *Layout, name string) Word {
	var w Word
	//
	copy(w[:], layout.AddN(name, 4))
	//
	return w
}

func setWord[F field.Element[F]](row Row[F], w Word, val uint32) {
	for i := range w {
		row.SetUint64(w[i], uint64(val>>(8*i))&0xff)
	}
}

// Limbs columns holding the 16-bit limbs of a 32-bit value.
type Limbs [2]Column

func newLimbs(layout *Layout, name string) Limbs {
	return Limbs{layout.Add(name + "_lo"), layout.Add(name + "_hi")}
}

func setLimbs[F field.Element[F]](row Row[F], l Limbs, val uint32) {
	row.SetUint64(l[0], uint64(val&0xffff))
	row.SetUint64(l[1], uint64(val>>16))
}

// wordToLimbs recombines the bytes of a word into its 16-bit limbs.
func wordToLimbs[F field.Element[F]](row Row[F], w Word) (F, F) {
	var base = field.Uint64[F](256)
	//
	lo := row.Get(w[0]).Add(row.Get(w[1]).Mul(base))
	hi := row.Get(w[2]).Add(row.Get(w[3]).Mul(base))
	//
	return lo, hi
}

// Access columns holding a single memory access.
type Access struct {
	Used      Column
	Addr      Limbs
	Chunk     Column
	Timestamp Column
	Value     Word
	PrevChunk Column
	PrevTs    Column
	PrevValue Word
}

func newAccess(layout *Layout, name string) Access {
	return Access{
		Used:      layout.Add(name + "_used"),
		Addr:      newLimbs(layout, name+"_addr"),
		Chunk:     layout.Add(name + "_chunk"),
		Timestamp: layout.Add(name + "_ts"),
		Value:     newWord(layout, name+"_value"),
		PrevChunk: layout.Add(name + "_prev_chunk"),
		PrevTs:    layout.Add(name + "_prev_ts"),
		PrevValue: newWord(layout, name+"_prev_value"),
	}
}

func newAccesses(layout *Layout, name string, n uint) []Access {
	var accesses = make([]Access, n)
	//
	for i := range accesses {
		accesses[i] = newAccess(layout, name+"_"+strconv.Itoa(i))
	}
	//
	return accesses
}

// fillAccess assigns a memory access (if any) to a given row.
func fillAccess[F field.Element[F]](row Row[F], cols Access, access *record.MemoryAccessRecord) {
	if access == nil {
		return
	}
	//
	row.SetBool(cols.Used, true)
	setLimbs(row, cols.Addr, access.Addr)
	row.SetUint64(cols.Chunk, uint64(access.Chunk))
	row.SetUint64(cols.Timestamp, uint64(access.Timestamp))
	setWord(row, cols.Value, access.Value)
	row.SetUint64(cols.PrevChunk, uint64(access.PrevChunk))
	row.SetUint64(cols.PrevTs, uint64(access.PrevTimestamp))
	setWord(row, cols.PrevValue, access.PrevValue)
}

// evalAccess consumes the previous memory record of an access, and provides
// the new one, both within the chunk.
func evalAccess[F field.Element[F]](row Row[F], cols Access, builder lookup.Builder[F]) {
	used := row.Get(cols.Used)
	//
	builder.Looking(lookup.Memory, lookup.REGIONAL, used,
		memoryTuple(row, cols.PrevChunk, cols.PrevTs, cols.Addr, cols.PrevValue)...)
	builder.Looked(lookup.Memory, lookup.REGIONAL, used,
		memoryTuple(row, cols.Chunk, cols.Timestamp, cols.Addr, cols.Value)...)
}

// memoryTuple returns the values (chunk, ts, addr_lo, addr_hi, v0, .., v3)
// identifying a memory record.
func memoryTuple[F field.Element[F]](row Row[F], chunk Column, ts Column, addr Limbs, value Word) []F {
	return row.Values(chunk, ts, addr[0], addr[1], value[0], value[1], value[2], value[3])
}
