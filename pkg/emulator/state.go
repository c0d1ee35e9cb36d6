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
	"maps"
	"slices"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
)

// MachineState is the mutable state of an execution.  It has a single owner
// (the executor) and is threaded through every instruction.
type MachineState struct {
	// Program counter
	PC uint32
	// Clock within the current chunk
	Clk uint32
	// Number of instructions executed
	GlobalClk uint64
	// Index of the current chunk
	Chunk uint32
	// Index of the last chunk containing CPU events
	ExecutionChunk uint32
	// Memory (including registers), for every address touched so far.
	Memory map[uint32]record.MemoryRecord
	// Input stream, read through HINT_LEN and HINT_READ.
	InputStream [][]byte
	InputPtr    int
	// Public values stream (file descriptor 3)
	Output []byte
	// Digests committed by the program
	PublicValuesDigest   [record.PV_DIGEST_NUM_WORDS]uint32
	DeferredProofsDigest [record.PV_DIGEST_NUM_WORDS]uint32
	// Number of invocations of each syscall
	SyscallCounts map[syscall.Code]uint64
	// Exit code, as set by HALT.
	ExitCode uint32
}

func newMachineState(pcStart uint32) *MachineState {
	return &MachineState{
		PC:            pcStart,
		Chunk:         1,
		Memory:        make(map[uint32]record.MemoryRecord),
		SyscallCounts: make(map[syscall.Code]uint64),
	}
}

// Register returns the current value of a given register.
func (s *MachineState) Register(r riscv.Register) uint32 {
	return s.Memory[uint32(r)].Value
}

// Registers returns the current value of all registers.
func (s *MachineState) Registers() [riscv.NUM_REGISTERS]uint32 {
	var regs [riscv.NUM_REGISTERS]uint32
	//
	for i := range regs {
		regs[i] = s.Register(riscv.Register(i))
	}
	//
	return regs
}

// Clone returns a deep copy of this state.
func (s *MachineState) Clone() *MachineState {
	var clone = *s
	//
	clone.Memory = maps.Clone(s.Memory)
	clone.InputStream = slices.Clone(s.InputStream)
	clone.Output = slices.Clone(s.Output)
	clone.SyscallCounts = maps.Clone(s.SyscallCounts)
	//
	return &clone
}
