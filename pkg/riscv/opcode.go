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

// Package riscv provides the RV32IM instruction set, as understood by the
// emulator, along with the (immutable) program representation.
package riscv

// Opcode identifies the operation performed by an instruction.  Immediate
// forms (e.g. ADDI) share the opcode of their register form and are
// distinguished by the instruction's immediate flags.
type Opcode uint8

// Supported opcodes.
const (
	UNIMP Opcode = iota
	// Arithmetic and logic
	ADD
	SUB
	XOR
	OR
	AND
	SLL
	SRL
	SRA
	SLT
	SLTU
	// Multiplication extension
	MUL
	MULH
	MULHU
	MULHSU
	DIV
	DIVU
	REM
	REMU
	// Loads and stores
	LB
	LH
	LW
	LBU
	LHU
	SB
	SH
	SW
	// Control flow
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU
	JAL
	JALR
	LUI
	AUIPC
	// System
	ECALL
	EBREAK
	FENCE
)

var opcodeNames = [...]string{
	"unimp", "add", "sub", "xor", "or", "and", "sll", "srl", "sra", "slt", "sltu",
	"mul", "mulh", "mulhu", "mulhsu", "div", "divu", "rem", "remu",
	"lb", "lh", "lw", "lbu", "lhu", "sb", "sh", "sw",
	"beq", "bne", "blt", "bge", "bltu", "bgeu", "jal", "jalr", "lui", "auipc",
	"ecall", "ebreak", "fence",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	//
	return "???"
}

// IsAlu returns true for arithmetic, logic and multiplication opcodes.
func (op Opcode) IsAlu() bool {
	return op >= ADD && op <= REMU
}

// IsBitwise returns true for opcodes computed bytewise (AND, OR, XOR).
func (op Opcode) IsBitwise() bool {
	return op == XOR || op == OR || op == AND
}

// IsLoad returns true for memory loads.
func (op Opcode) IsLoad() bool {
	return op >= LB && op <= LHU
}

// IsStore returns true for memory stores.
func (op Opcode) IsStore() bool {
	return op >= SB && op <= SW
}

// IsMemory returns true for memory loads and stores.
func (op Opcode) IsMemory() bool {
	return op.IsLoad() || op.IsStore()
}

// IsBranch returns true for conditional branches.
func (op Opcode) IsBranch() bool {
	return op >= BEQ && op <= BGEU
}

// IsJump returns true for unconditional jumps.
func (op Opcode) IsJump() bool {
	return op == JAL || op == JALR
}
