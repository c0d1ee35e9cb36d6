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
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// ByteChip holds one row for every distinct byte lookup of a chunk, along with
// the number of times it was looked up.
type ByteChip[F field.Element[F]] struct {
	layout       *Layout
	opcode       Column
	a1, a2       Column
	b, c         Column
	multiplicity Column
}

// NewByteChip constructs a new byte chip.
func NewByteChip[F field.Element[F]]() *ByteChip[F] {
	layout := NewLayout("Byte")
	//
	return &ByteChip[F]{
		layout:       layout,
		opcode:       layout.Add("opcode"),
		a1:           layout.Add("a1"),
		a2:           layout.Add("a2"),
		b:            layout.Add("b"),
		c:            layout.Add("c"),
		multiplicity: layout.Add("multiplicity"),
	}
}

// Name implementation for Chip interface.
func (c *ByteChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *ByteChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.  Dependencies of other chips
// may also give rise to byte lookups, hence this is conservative.
func (c *ByteChip[F]) Included(r *record.Record) bool {
	return len(r.ByteLookups) > 0 || len(r.MemoryLocalEvents) > 0
}

// Dependencies implementation for Chip interface.
func (c *ByteChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *ByteChip[F]) GenerateTrace(r *record.Record, deps *Dependencies) (*Trace[F], error) {
	var counts = make(map[record.ByteLookupEvent]uint64)
	//
	for _, events := range [][]record.ByteLookupEvent{r.ByteLookups, deps.ByteLookups} {
		for _, e := range events {
			if !e.IsValid() {
				return nil, fmt.Errorf("invalid byte lookup %s(%d,%d) = (%d,%d)", e.Opcode, e.B, e.C, e.A1, e.A2)
			}
			//
			counts[e]++
		}
	}
	// Sort for determinism
	events := slices.SortedFunc(maps.Keys(counts), compareByteLookups)
	trace := NewTrace[F](c.layout, uint(len(events)))
	//
	for i, e := range events {
		row := trace.Row(uint(i))
		row.SetUint64(c.opcode, uint64(e.Opcode))
		row.SetUint64(c.a1, uint64(e.A1))
		row.SetUint64(c.a2, uint64(e.A2))
		row.SetUint64(c.b, uint64(e.B))
		row.SetUint64(c.c, uint64(e.C))
		row.SetUint64(c.multiplicity, counts[e])
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *ByteChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		row := trace.Row(i)
		builder.Looked(lookup.Byte, lookup.REGIONAL, row.Get(c.multiplicity),
			row.Values(c.opcode, c.a1, c.a2, c.b, c.c)...)
	}
}

func compareByteLookups(l, r record.ByteLookupEvent) int {
	if c := cmp.Compare(l.Opcode, r.Opcode); c != 0 {
		return c
	} else if c := cmp.Compare(l.B, r.B); c != 0 {
		return c
	} else if c := cmp.Compare(l.C, r.C); c != 0 {
		return c
	} else if c := cmp.Compare(l.A1, r.A1); c != 0 {
		return c
	}
	//
	return cmp.Compare(l.A2, r.A2)
}
