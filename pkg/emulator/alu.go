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
	"math"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
)

// alu computes b op c for an arithmetic opcode.
func alu(op riscv.Opcode, b, c uint32) uint32 {
	switch op {
	case riscv.ADD:
		return b + c
	case riscv.SUB:
		return b - c
	case riscv.XOR:
		return b ^ c
	case riscv.OR:
		return b | c
	case riscv.AND:
		return b & c
	case riscv.SLL:
		return b << (c & 0x1f)
	case riscv.SRL:
		return b >> (c & 0x1f)
	case riscv.SRA:
		return uint32(int32(b) >> (c & 0x1f))
	case riscv.SLT:
		return bool2word(int32(b) < int32(c))
	case riscv.SLTU:
		return bool2word(b < c)
	case riscv.MUL:
		return b * c
	case riscv.MULH:
		return uint32((int64(int32(b)) * int64(int32(c))) >> 32)
	case riscv.MULHU:
		return uint32((uint64(b) * uint64(c)) >> 32)
	case riscv.MULHSU:
		return uint32((int64(int32(b)) * int64(c)) >> 32)
	case riscv.DIV:
		switch {
		case c == 0:
			return math.MaxUint32
		case int32(b) == math.MinInt32 && int32(c) == -1:
			return b
		default:
			return uint32(int32(b) / int32(c))
		}
	case riscv.DIVU:
		if c == 0 {
			return math.MaxUint32
		}
		//
		return b / c
	case riscv.REM:
		switch {
		case c == 0:
			return b
		case int32(b) == math.MinInt32 && int32(c) == -1:
			return 0
		default:
			return uint32(int32(b) % int32(c))
		}
	case riscv.REMU:
		if c == 0 {
			return b
		}
		//
		return b % c
	}
	//
	panic("unknown arithmetic opcode " + op.String())
}

// branch determines whether a conditional branch is taken.
func branch(op riscv.Opcode, a, b uint32) bool {
	switch op {
	case riscv.BEQ:
		return a == b
	case riscv.BNE:
		return a != b
	case riscv.BLT:
		return int32(a) < int32(b)
	case riscv.BGE:
		return int32(a) >= int32(b)
	case riscv.BLTU:
		return a < b
	case riscv.BGEU:
		return a >= b
	}
	//
	panic("unknown branch opcode " + op.String())
}

// emitAlu records an arithmetic operation, along with the byte lookups it
// depends upon.  Nothing is recorded in simple mode.
func (e *Executor) emitAlu(op riscv.Opcode, a, b, c uint32) {
	if e.mode != TraceMode {
		return
	}
	//
	e.record.AluEvents = append(e.record.AluEvents, record.AluEvent{Clk: e.state.Clk, Opcode: op, A: a, B: b, C: c})
	//
	if op.IsBitwise() {
		byteOp := BitwiseByteOpcode(op)
		//
		for i := range 4 {
			shift := 8 * i
			event := record.NewByteLookup(byteOp, uint8(b>>shift), uint8(c>>shift))
			e.record.ByteLookups = append(e.record.ByteLookups, event)
		}
	}
}

// BitwiseByteOpcode returns the byte table operation implementing a bitwise
// opcode.
func BitwiseByteOpcode(op riscv.Opcode) record.ByteOpcode {
	switch op {
	case riscv.AND:
		return record.ByteAND
	case riscv.OR:
		return record.ByteOR
	case riscv.XOR:
		return record.ByteXOR
	}
	//
	panic("not a bitwise opcode " + op.String())
}

// load extracts the value loaded from a word at a given byte offset.
func load(op riscv.Opcode, word uint32, offset uint32) uint32 {
	switch op {
	case riscv.LB:
		return uint32(int32(int8(word >> (8 * offset))))
	case riscv.LBU:
		return uint32(uint8(word >> (8 * offset)))
	case riscv.LH:
		return uint32(int32(int16(word >> (8 * offset))))
	case riscv.LHU:
		return uint32(uint16(word >> (8 * offset)))
	default:
		return word
	}
}

// store inserts a value into a word at a given byte offset.
func store(op riscv.Opcode, word uint32, value uint32, offset uint32) uint32 {
	var mask uint32
	//
	switch op {
	case riscv.SB:
		mask = 0xff
	case riscv.SH:
		mask = 0xffff
	default:
		return value
	}
	//
	shift := 8 * offset
	//
	return word&^(mask<<shift) | (value&mask)<<shift
}

// alignment required by a memory opcode.
func alignment(op riscv.Opcode) uint32 {
	switch op {
	case riscv.LB, riscv.LBU, riscv.SB:
		return 1
	case riscv.LH, riscv.LHU, riscv.SH:
		return 2
	default:
		return 4
	}
}

func bool2word(b bool) uint32 {
	if b {
		return 1
	}
	//
	return 0
}
