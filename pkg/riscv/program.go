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
	"encoding/binary"
	"slices"

	"golang.org/x/crypto/blake2b"
)

// Program is the immutable input to the emulator: the decoded text segment,
// the entry point and the initial memory image.  A program is shared by all
// chunks of an execution.
type Program struct {
	// Decoded instructions, where instruction i lives at PCBase + 4i.
	Instructions []Instruction
	// Entry point
	PCStart uint32
	// Address of the first instruction
	PCBase uint32
	// Initial memory image (word aligned addresses).  Addresses not present
	// are zero.
	Image map[uint32]uint32
}

// NewProgram constructs a program from a sequence of instructions starting at
// a given base address.
func NewProgram(instructions []Instruction, pcStart, pcBase uint32) *Program {
	return &Program{instructions, pcStart, pcBase, make(map[uint32]uint32)}
}

// Assemble decodes a sequence of instruction words placed at a given base
// address, which is also the entry point.  The words themselves also form the
// initial memory image.  Words which fail to decode become UNIMP instructions,
// and only fail when executed.
func Assemble(words []uint32, base uint32) *Program {
	program := NewProgram(make([]Instruction, len(words)), base, base)
	//
	for i, w := range words {
		// errors are deferred until execution
		program.Instructions[i], _ = Decode(w)
		//
		if w != 0 {
			program.Image[base+uint32(4*i)] = w
		}
	}
	//
	return program
}

// Fetch the instruction at a given pc, returning false if the pc is outside
// the text segment or misaligned.
func (p *Program) Fetch(pc uint32) (Instruction, bool) {
	if pc < p.PCBase || pc%4 != 0 {
		return Instruction{}, false
	}
	//
	index := (pc - p.PCBase) / 4
	if uint64(index) >= uint64(len(p.Instructions)) {
		return Instruction{}, false
	}
	//
	return p.Instructions[index], true
}

// InitialValue returns the value of a given address in the memory image.
func (p *Program) InitialValue(addr uint32) uint32 {
	return p.Image[addr]
}

// Digest returns a fingerprint of the program, covering its instructions,
// entry point and memory image.
func (p *Program) Digest() [32]byte {
	var (
		buf  []byte
		addr = make([]uint32, 0, len(p.Image))
	)
	//
	buf = binary.LittleEndian.AppendUint32(buf, p.PCStart)
	buf = binary.LittleEndian.AppendUint32(buf, p.PCBase)
	//
	for _, insn := range p.Instructions {
		buf = append(buf, byte(insn.Opcode), insn.OpA, boolByte(insn.ImmB), boolByte(insn.ImmC))
		buf = binary.LittleEndian.AppendUint32(buf, insn.OpB)
		buf = binary.LittleEndian.AppendUint32(buf, insn.OpC)
	}
	//
	for a := range p.Image {
		addr = append(addr, a)
	}
	//
	slices.Sort(addr)
	//
	for _, a := range addr {
		buf = binary.LittleEndian.AppendUint32(buf, a)
		buf = binary.LittleEndian.AppendUint32(buf, p.Image[a])
	}
	//
	return blake2b.Sum256(buf)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	//
	return 0
}
