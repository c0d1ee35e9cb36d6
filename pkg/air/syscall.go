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
	"fmt"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Invocation columns identifying a system call.
type Invocation struct {
	Chunk Column
	Clk   Column
	Code  Limbs
	Arg1  Limbs
	Arg2  Limbs
}

func newInvocation(layout *Layout) Invocation {
	return Invocation{
		Chunk: layout.Add("chunk"),
		Clk:   layout.Add("clk"),
		Code:  newLimbs(layout, "code"),
		Arg1:  newLimbs(layout, "arg1"),
		Arg2:  newLimbs(layout, "arg2"),
	}
}

func fillInvocation[F field.Element[F]](row Row[F], cols Invocation, e record.SyscallEvent) {
	row.SetUint64(cols.Chunk, uint64(e.Chunk))
	row.SetUint64(cols.Clk, uint64(e.Clk))
	setLimbs(row, cols.Code, uint32(e.Code))
	setLimbs(row, cols.Arg1, e.Arg1)
	setLimbs(row, cols.Arg2, e.Arg2)
}

// syscallTuple returns the values (chunk, clk, code_lo, code_hi, arg1_lo,
// arg1_hi, arg2_lo, arg2_hi) identifying a system call.
func syscallTuple[F field.Element[F]](row Row[F], cols Invocation) []F {
	return row.Values(cols.Chunk, cols.Clk, cols.Code[0], cols.Code[1], cols.Arg1[0], cols.Arg1[1], cols.Arg2[0],
		cols.Arg2[1])
}

// SyscallChip holds one row for every system call made in a chunk.  Calls
// handled by precompiles are forwarded to their chip via the global scope.
type SyscallChip[F field.Element[F]] struct {
	layout       *Layout
	invocation   Invocation
	isReal       Column
	isPrecompile Column
}

// NewSyscallChip constructs a new syscall chip.
func NewSyscallChip[F field.Element[F]]() *SyscallChip[F] {
	layout := NewLayout("Syscall")
	//
	return &SyscallChip[F]{
		layout:       layout,
		invocation:   newInvocation(layout),
		isReal:       layout.Add("is_real"),
		isPrecompile: layout.Add("is_precompile"),
	}
}

// Name implementation for Chip interface.
func (c *SyscallChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *SyscallChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *SyscallChip[F]) Included(r *record.Record) bool {
	return len(r.SyscallEvents) > 0
}

// Dependencies implementation for Chip interface.
func (c *SyscallChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *SyscallChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	trace := NewTrace[F](c.layout, uint(len(r.SyscallEvents)))
	//
	for i, e := range r.SyscallEvents {
		row := trace.Row(uint(i))
		fillInvocation(row, c.invocation, e)
		row.SetBool(c.isReal, true)
		row.SetBool(c.isPrecompile, e.Code.IsPrecompile())
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *SyscallChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		var (
			row    = trace.Row(i)
			values = syscallTuple(row, c.invocation)
		)
		//
		builder.Looked(lookup.Syscall, lookup.REGIONAL, row.Get(c.isReal), values...)
		builder.Looking(lookup.Syscall, lookup.GLOBAL, row.Get(c.isPrecompile), values...)
	}
}

// PrecompileChip holds one row for every invocation of a given precompile in
// a chunk, along with the memory accesses it made.
type PrecompileChip[F field.Element[F]] struct {
	code       syscall.Code
	layout     *Layout
	invocation Invocation
	isReal     Column
	accesses   []Access
}

// NewPrecompileChip constructs the chip for a given precompile.
func NewPrecompileChip[F field.Element[F]](code syscall.Code) *PrecompileChip[F] {
	var (
		layout = NewLayout(code.String())
		n      = PrecompileAccesses(code)
	)
	//
	return &PrecompileChip[F]{
		code:       code,
		layout:     layout,
		invocation: newInvocation(layout),
		isReal:     layout.Add("is_real"),
		accesses:   newAccesses(layout, "mem", n),
	}
}

// PrecompileAccesses returns the number of memory accesses made by each
// invocation of a given precompile.
func PrecompileAccesses(code syscall.Code) uint {
	switch code {
	case syscall.SHA_EXTEND:
		// four reads and one write, per step
		return 48 * 5
	case syscall.SHA_COMPRESS:
		return 8 + 64 + 8
	case syscall.KECCAK_PERMUTE:
		return 50 + 50
	case syscall.SECP256K1_ADD, syscall.BN254_ADD:
		return 16 + 16 + 16
	case syscall.SECP256K1_DOUBLE, syscall.BN254_DOUBLE:
		return 16 + 16
	case syscall.UINT256_MUL:
		return 8 + 16 + 8
	default:
		panic("unknown precompile " + code.String())
	}
}

// Name implementation for Chip interface.
func (c *PrecompileChip[F]) Name() string {
	return c.layout.Name()
}

// Layout implementation for Chip interface.
func (c *PrecompileChip[F]) Layout() *Layout {
	return c.layout
}

// Included implementation for Chip interface.
func (c *PrecompileChip[F]) Included(r *record.Record) bool {
	for _, e := range r.PrecompileEvents {
		if e.Syscall.Code == c.code {
			return true
		}
	}
	//
	return false
}

// Dependencies implementation for Chip interface.
func (c *PrecompileChip[F]) Dependencies(r *record.Record) []record.ByteLookupEvent {
	return nil
}

// GenerateTrace implementation for Chip interface.
func (c *PrecompileChip[F]) GenerateTrace(r *record.Record, _ *Dependencies) (*Trace[F], error) {
	var events []*record.PrecompileEvent
	//
	for i := range r.PrecompileEvents {
		if r.PrecompileEvents[i].Syscall.Code == c.code {
			events = append(events, &r.PrecompileEvents[i])
		}
	}
	//
	trace := NewTrace[F](c.layout, uint(len(events)))
	//
	for i, e := range events {
		var (
			row      = trace.Row(uint(i))
			accesses = e.Accesses()
		)
		//
		if len(accesses) != len(c.accesses) {
			return nil, fmt.Errorf("%s made %d memory accesses (expected %d)", c.code, len(accesses), len(c.accesses))
		}
		//
		fillInvocation(row, c.invocation, e.Syscall)
		row.SetBool(c.isReal, true)
		//
		for j := range accesses {
			fillAccess(row, c.accesses[j], &accesses[j])
		}
	}
	//
	return trace, nil
}

// Eval implementation for Chip interface.
func (c *PrecompileChip[F]) Eval(trace *Trace[F], builder lookup.Builder[F]) {
	for i := range trace.Height() {
		row := trace.Row(i)
		//
		builder.Looked(lookup.Syscall, lookup.GLOBAL, row.Get(c.isReal), syscallTuple(row, c.invocation)...)
		//
		for _, access := range c.accesses {
			evalAccess(row, access, builder)
		}
	}
}
