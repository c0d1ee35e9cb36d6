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
package riscv

import (
	"errors"
	"fmt"
)

// ErrInvalidInstruction signals a word which does not decode to a supported
// RV32IM instruction.
var ErrInvalidInstruction = errors.New("invalid instruction")

// Instruction in a normalised three-operand form.  Operand a is always a
// register; operands b and c are registers unless flagged as immediates.
//
// Stores use a for the value register, b for the base and c for the offset.
// Branches compare a against b, and branch by c.  JAL writes a and jumps by b.
type Instruction struct {
	Opcode Opcode
	OpA    Register
	OpB    uint32
	OpC    uint32
	ImmB   bool
	ImmC   bool
}

func (i Instruction) String() string {
	var b, c string
	//
	if i.ImmB {
		b = fmt.Sprintf("%d", int32(i.OpB))
	} else {
		b = fmt.Sprintf("x%d", i.OpB)
	}
	//
	if i.ImmC {
		c = fmt.Sprintf("%d", int32(i.OpC))
	} else {
		c = fmt.Sprintf("x%d", i.OpC)
	}
	//
	return fmt.Sprintf("%s x%d, %s, %s", i.Opcode, i.OpA, b, c)
}

// Decode a 32-bit RV32IM instruction word.
func Decode(word uint32) (Instruction, error) {
	var (
		rd     = Register((word >> 7) & 0x1f)
		funct3 = (word >> 12) & 0x7
		rs1    = (word >> 15) & 0x1f
		rs2    = (word >> 20) & 0x1f
		funct7 = word >> 25
		immI   = uint32(int32(word) >> 20)
	)
	//
	switch word & 0x7f {
	case 0x33:
		return decodeRType(word, rd, funct3, rs1, rs2, funct7)
	case 0x13:
		return decodeIType(word, rd, funct3, rs1, immI, funct7)
	case 0x03:
		ops := [8]Opcode{LB, LH, LW, UNIMP, LBU, LHU, UNIMP, UNIMP}
		if ops[funct3] == UNIMP {
			break
		}
		//
		return Instruction{ops[funct3], rd, rs1, immI, false, true}, nil
	case 0x23:
		ops := [8]Opcode{SB, SH, SW, UNIMP, UNIMP, UNIMP, UNIMP, UNIMP}
		if ops[funct3] == UNIMP {
			break
		}
		//
		immS := uint32((int32(word)>>25)<<5) | ((word >> 7) & 0x1f)
		//
		return Instruction{ops[funct3], Register(rs2), rs1, immS, false, true}, nil
	case 0x63:
		ops := [8]Opcode{BEQ, BNE, UNIMP, UNIMP, BLT, BGE, BLTU, BGEU}
		if ops[funct3] == UNIMP {
			break
		}
		//
		return Instruction{ops[funct3], Register(rs1), rs2, immB(word), false, true}, nil
	case 0x6f:
		return Instruction{JAL, rd, immJ(word), 0, true, true}, nil
	case 0x67:
		if funct3 != 0 {
			break
		}
		//
		return Instruction{JALR, rd, rs1, immI, false, true}, nil
	case 0x37:
		return Instruction{LUI, rd, word & 0xfffff000, 0, true, true}, nil
	case 0x17:
		return Instruction{AUIPC, rd, word & 0xfffff000, 0, true, true}, nil
	case 0x73:
		switch word {
		case 0x00000073:
			return Instruction{Opcode: ECALL, OpA: T0, OpB: uint32(A0), OpC: uint32(A1)}, nil
		case 0x00100073:
			return Instruction{Opcode: EBREAK}, nil
		}
	case 0x0f:
		return Instruction{Opcode: FENCE, ImmB: true, ImmC: true}, nil
	}
	//
	return Instruction{}, fmt.Errorf("%w: 0x%08x", ErrInvalidInstruction, word)
}

func decodeRType(word uint32, rd Register, funct3, rs1, rs2, funct7 uint32) (Instruction, error) {
	var op Opcode
	//
	switch funct7 {
	case 0x00:
		op = [8]Opcode{ADD, SLL, SLT, SLTU, XOR, SRL, OR, AND}[funct3]
	case 0x20:
		op = [8]Opcode{SUB, UNIMP, UNIMP, UNIMP, UNIMP, SRA, UNIMP, UNIMP}[funct3]
	case 0x01:
		op = [8]Opcode{MUL, MULH, MULHSU, MULHU, DIV, DIVU, REM, REMU}[funct3]
	}
	//
	if op == UNIMP {
		return Instruction{}, fmt.Errorf("%w: 0x%08x", ErrInvalidInstruction, word)
	}
	//
	return Instruction{op, rd, rs1, rs2, false, false}, nil
}

func decodeIType(word uint32, rd Register, funct3, rs1, imm, funct7 uint32) (Instruction, error) {
	var op = [8]Opcode{ADD, SLL, SLT, SLTU, XOR, SRL, OR, AND}[funct3]
	// Shifts encode the shift amount in the low bits of the immediate.
	switch {
	case funct3 == 1 && funct7 == 0:
		imm &= 0x1f
	case funct3 == 5 && funct7 == 0:
		imm &= 0x1f
	case funct3 == 5 && funct7 == 0x20:
		op, imm = SRA, imm&0x1f
	case funct3 == 1 || funct3 == 5:
		return Instruction{}, fmt.Errorf("%w: 0x%08x", ErrInvalidInstruction, word)
	}
	//
	return Instruction{op, rd, rs1, imm, false, true}, nil
}

func immB(word uint32) uint32 {
	imm := (word>>31)<<12 | ((word>>7)&1)<<11 | ((word>>25)&0x3f)<<5 | ((word>>8)&0xf)<<1
	//
	return uint32(int32(imm<<19) >> 19)
}

func immJ(word uint32) uint32 {
	imm := (word>>31)<<20 | ((word>>12)&0xff)<<12 | ((word>>20)&1)<<11 | ((word>>21)&0x3ff)<<1
	//
	return uint32(int32(imm<<11) >> 11)
}
