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
package record

import (
	"fmt"

	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
)

// CpuEvent records the execution of a single instruction.  Operand values are
// those read from (or written to) the registers, except that A holds the value
// computed by the instruction even when it targets x0.
type CpuEvent struct {
	_           struct{} `cbor:",toarray"`
	Chunk       uint32
	Clk         uint32
	PC          uint32
	NextPC      uint32
	Instruction riscv.Instruction
	A           uint32
	B           uint32
	C           uint32
	ARecord     *MemoryAccessRecord
	BRecord     *MemoryAccessRecord
	CRecord     *MemoryAccessRecord
	// Memory access of a load or store.
	MemoryRecord *MemoryAccessRecord
}

// Accesses returns the memory accesses of this event in chronological order.
func (e *CpuEvent) Accesses() []MemoryAccessRecord {
	var accesses []MemoryAccessRecord
	//
	for _, r := range []*MemoryAccessRecord{e.MemoryRecord, e.CRecord, e.BRecord, e.ARecord} {
		if r != nil {
			accesses = append(accesses, *r)
		}
	}
	//
	return accesses
}

// AluEvent records an arithmetic operation a = b op c.
type AluEvent struct {
	_      struct{} `cbor:",toarray"`
	Clk    uint32
	Opcode riscv.Opcode
	A      uint32
	B      uint32
	C      uint32
}

// ByteOpcode identifies an operation of the byte table.
type ByteOpcode uint8

// Byte table operations.
const (
	// a1 = b & c
	ByteAND ByteOpcode = iota
	// a1 = b | c
	ByteOR
	// a1 = b ^ c
	ByteXOR
	// b and c are both bytes
	U8Range
	// a1 is a 16-bit value
	U16Range
	// a1 = b < c
	ByteLTU
	// a1 = most significant bit of b
	ByteMSB
)

var byteOpcodeNames = [...]string{"and", "or", "xor", "u8range", "u16range", "ltu", "msb"}

func (op ByteOpcode) String() string {
	if int(op) < len(byteOpcodeNames) {
		return byteOpcodeNames[op]
	}
	//
	return fmt.Sprintf("byte(%d)", uint8(op))
}

// ByteLookupEvent records a lookup into the byte table.  Multiplicities are
// determined by counting identical events.
type ByteLookupEvent struct {
	_      struct{} `cbor:",toarray"`
	Opcode ByteOpcode
	A1     uint16
	A2     uint8
	B      uint8
	C      uint8
}

// NewByteLookup constructs the lookup of a given operation on two bytes,
// computing its outputs.
func NewByteLookup(op ByteOpcode, b, c uint8) ByteLookupEvent {
	a1, a2 := op.Evaluate(b, c)
	//
	return ByteLookupEvent{Opcode: op, A1: a1, A2: a2, B: b, C: c}
}

// NewU16Range constructs a lookup checking a value fits in 16 bits.
func NewU16Range(value uint16) ByteLookupEvent {
	return ByteLookupEvent{Opcode: U16Range, A1: value}
}

// Evaluate the outputs of this operation on a given pair of bytes.
func (op ByteOpcode) Evaluate(b, c uint8) (uint16, uint8) {
	switch op {
	case ByteAND:
		return uint16(b & c), 0
	case ByteOR:
		return uint16(b | c), 0
	case ByteXOR:
		return uint16(b ^ c), 0
	case ByteLTU:
		if b < c {
			return 1, 0
		}
		//
		return 0, 0
	case ByteMSB:
		return uint16(b >> 7), 0
	default:
		return 0, 0
	}
}

// IsValid checks whether this event is a row of the byte table.
func (e ByteLookupEvent) IsValid() bool {
	switch e.Opcode {
	case U16Range:
		return e.A2 == 0 && e.B == 0 && e.C == 0
	case U8Range:
		return e.A1 == 0 && e.A2 == 0
	case ByteAND, ByteOR, ByteXOR, ByteLTU, ByteMSB:
		a1, a2 := e.Opcode.Evaluate(e.B, e.C)
		return e.A1 == a1 && e.A2 == a2
	default:
		return false
	}
}

// MemoryLocalEvent summarises the accesses of one address within a chunk: the
// record it had before the first access, and after the last.
type MemoryLocalEvent struct {
	_       struct{} `cbor:",toarray"`
	Addr    uint32
	Initial MemoryRecord
	Final   MemoryRecord
}

// MemoryInitializeFinalizeEvent pins down the first (or last) value of an
// address over an entire execution.
type MemoryInitializeFinalizeEvent struct {
	_         struct{} `cbor:",toarray"`
	Addr      uint32
	Value     uint32
	Chunk     uint32
	Timestamp uint32
}

// SyscallEvent records the invocation of a system call.
type SyscallEvent struct {
	_     struct{} `cbor:",toarray"`
	Chunk uint32
	Clk   uint32
	Code  syscall.Code
	Arg1  uint32
	Arg2  uint32
}
