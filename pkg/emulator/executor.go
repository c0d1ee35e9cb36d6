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

// Package emulator executes RISC-V programs, splitting the execution into
// chunks and recording, for each chunk, the events from which it is proven.
package emulator

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/consensys/go-zkvm/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Executor runs a program from its entry point until it halts, producing a
// sealed record for every chunk.
type Executor struct {
	program *riscv.Program
	options Options
	// current mode (simple whilst unconstrained)
	mode  Mode
	state *MachineState
	// live record of the current chunk
	record *record.Record
	// accesses of the current instruction
	pending pendingAccesses
	// initial values of addresses written by HINT_READ
	initial  map[uint32]uint32
	handlers map[syscall.Code]Handler
	hooks    map[uint32]Hook
	// non-nil whilst in unconstrained mode
	unconstrained *unconstrainedState
	// instructions executed, including those in unconstrained mode
	cycles uint64
	// guest output on stdout and stderr
	stdout []byte
	stderr []byte
	halted bool
	done   bool
}

// Report summarises a complete execution.
type Report struct {
	// Records of every chunk, in order.
	Records []*record.Record
	// Exit code of the program.
	ExitCode uint32
	// Number of instructions executed (excluding unconstrained blocks).
	Cycles uint64
	// Digest of public values, as committed by the program.
	PublicValuesDigest [record.PV_DIGEST_NUM_WORDS]uint32
	// Public values stream (file descriptor 3).
	Output []byte
	// Guest output on stdout and stderr.
	Stdout []byte
	Stderr []byte
	// Number of invocations of each syscall.
	SyscallCounts map[syscall.Code]uint64
}

// New constructs an executor for a given program.
func New(program *riscv.Program, options Options) (*Executor, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	//
	state := newMachineState(program.PCStart)
	//
	return &Executor{
		program:  program,
		options:  options,
		mode:     options.Mode,
		state:    state,
		record:   record.New(state.Chunk, state.PC),
		initial:  make(map[uint32]uint32),
		handlers: defaultHandlers(),
		hooks:    map[uint32]Hook{syscall.FD_ECRECOVER_HOOK: EcrecoverHook},
	}, nil
}

// WithInput appends entries to the input stream of the program.
func (e *Executor) WithInput(inputs ...[]byte) *Executor {
	for _, input := range inputs {
		e.state.InputStream = append(e.state.InputStream, slices.Clone(input))
	}
	//
	return e
}

// WithHook registers a hook invoked when the program writes to a given file
// descriptor.
func (e *Executor) WithHook(fd uint32, hook Hook) *Executor {
	e.hooks[fd] = hook
	//
	return e
}

// WithSyscall registers (or replaces) the handler of a given syscall.
func (e *Executor) WithSyscall(code syscall.Code, handler Handler) *Executor {
	e.handlers[code] = handler
	//
	return e
}

// State provides access to the machine state.
func (e *Executor) State() *MachineState {
	return e.state
}

// Program returns the program being executed.
func (e *Executor) Program() *riscv.Program {
	return e.program
}

// Run executes the program to completion, returning the records of every
// chunk.  If the program halts with a non-zero exit code, the report is
// returned along with ErrHaltWithNonZeroExitCode.
func (e *Executor) Run() (*Report, error) {
	var (
		stats   = util.NewPerfStats()
		records []*record.Record
	)
	//
	for {
		batch, done, err := e.ExecuteBatch()
		records = append(records, batch...)
		//
		if err != nil && !errors.Is(err, ErrHaltWithNonZeroExitCode) {
			return nil, err
		} else if done {
			stats.Log(fmt.Sprintf("Executing %d cycles in %d chunks", e.state.GlobalClk, len(records)))
			//
			return e.report(records), err
		}
	}
}

// ExecuteBatch executes until either the configured number of chunks have
// been sealed, or the program halts.  The sealed records are returned in
// order, along with a flag indicating whether execution is complete.
func (e *Executor) ExecuteBatch() ([]*record.Record, bool, error) {
	var batch []*record.Record
	//
	for !e.done {
		if err := e.step(); err != nil {
			return batch, false, err
		}
		//
		if e.halted {
			batch = append(batch, e.finish()...)
			e.done = true
			//
			if e.state.ExitCode != 0 {
				return batch, true, e.failure(ErrHaltWithNonZeroExitCode, fmt.Sprintf("exit code %d", e.state.ExitCode))
			}
		} else if e.unconstrained == nil && uint32(len(e.record.CpuEvents)) >= e.options.ChunkSize {
			batch = append(batch, e.seal(e.state.PC))
			//
			if uint(len(batch)) >= e.options.ChunkBatchSize {
				return batch, false, nil
			}
		}
	}
	//
	return batch, true, nil
}

// Summary reports the outcome of execution so far, excluding any records.
// This is useful when records are consumed batch-by-batch.
func (e *Executor) Summary() *Report {
	return e.report(nil)
}

func (e *Executor) report(records []*record.Record) *Report {
	return &Report{
		Records:            records,
		ExitCode:           e.state.ExitCode,
		Cycles:             e.state.GlobalClk,
		PublicValuesDigest: e.state.PublicValuesDigest,
		Output:             e.state.Output,
		Stdout:             e.stdout,
		Stderr:             e.stderr,
		SyscallCounts:      maps.Clone(e.state.SyscallCounts),
	}
}

// step executes a single instruction.
func (e *Executor) step() error {
	if e.options.MaxCycles != 0 && e.cycles >= e.options.MaxCycles {
		return e.failure(ErrExceededCycleLimit, fmt.Sprintf("limit %d", e.options.MaxCycles))
	}
	//
	insn, ok := e.program.Fetch(e.state.PC)
	if !ok {
		return e.memoryFailure(riscv.UNIMP, e.state.PC)
	}
	//
	var (
		a, b, c uint32
		nextPC  = e.state.PC + 4
		extra   uint32
		err     error
	)
	//
	e.pending = pendingAccesses{}
	//
	switch op := insn.Opcode; {
	case op.IsAlu():
		c, b = e.operandC(insn), e.operandB(insn)
		a = alu(op, b, c)
		e.rw(insn.OpA, a)
		e.emitAlu(op, a, b, c)
	case op.IsLoad():
		c, b = insn.OpC, e.rr(riscv.Register(insn.OpB), posB)
		//
		addr := b + c
		if !isValidAddress(addr, alignment(op)) {
			return e.memoryFailure(op, addr)
		}
		//
		a = load(op, e.mr(addr&^3), addr&3)
		e.rw(insn.OpA, a)
	case op.IsStore():
		c, b = insn.OpC, e.rr(riscv.Register(insn.OpB), posB)
		a = e.rr(insn.OpA, posA)
		//
		addr := b + c
		if !isValidAddress(addr, alignment(op)) {
			return e.memoryFailure(op, addr)
		}
		//
		aligned := addr &^ 3
		e.mw(aligned, store(op, e.peek(aligned), a, addr&3))
	case op.IsBranch():
		c, b = insn.OpC, e.rr(riscv.Register(insn.OpB), posB)
		a = e.rr(insn.OpA, posA)
		//
		if branch(op, a, b) {
			nextPC = e.state.PC + c
		}
	case op == riscv.JAL:
		b, a = insn.OpB, e.state.PC+4
		e.rw(insn.OpA, a)
		nextPC = e.state.PC + b
	case op == riscv.JALR:
		c, b = insn.OpC, e.rr(riscv.Register(insn.OpB), posB)
		a = e.state.PC + 4
		e.rw(insn.OpA, a)
		nextPC = (b + c) &^ 1
	case op == riscv.LUI:
		b, a = insn.OpB, insn.OpB
		e.rw(insn.OpA, a)
	case op == riscv.AUIPC:
		b, a = insn.OpB, e.state.PC+insn.OpB
		e.rw(insn.OpA, a)
	case op == riscv.ECALL:
		if a, nextPC, extra, err = e.ecall(); err != nil {
			return err
		}
		// The syscall may have restored an earlier state.
		insn, _ = e.program.Fetch(e.state.PC)
		b, c = e.pending.b.Value, e.pending.c.Value
	case op == riscv.FENCE:
		// no effect
	default:
		err := e.failure(ErrUnsupportedInstruction, "")
		err.Opcode = op
		//
		return err
	}
	//
	e.record.CpuEvents = append(e.record.CpuEvents, record.CpuEvent{
		Chunk:        e.state.Chunk,
		Clk:          e.state.Clk,
		PC:           e.state.PC,
		NextPC:       nextPC,
		Instruction:  insn,
		A:            a,
		B:            b,
		C:            c,
		ARecord:      e.pending.a,
		BRecord:      e.pending.b,
		CRecord:      e.pending.c,
		MemoryRecord: e.pending.memory,
	})
	//
	e.state.PC = nextPC
	e.state.Clk += 4 + extra
	e.state.GlobalClk++
	e.cycles++
	//
	return nil
}

func (e *Executor) operandB(insn riscv.Instruction) uint32 {
	if insn.ImmB {
		return insn.OpB
	}
	//
	return e.rr(riscv.Register(insn.OpB), posB)
}

func (e *Executor) operandC(insn riscv.Instruction) uint32 {
	if insn.ImmC {
		return insn.OpC
	}
	//
	return e.rr(riscv.Register(insn.OpC), posC)
}

// seal the live record, and begin the next chunk.
func (e *Executor) seal(nextPC uint32) *record.Record {
	var (
		r  = e.record
		pv = &r.PublicValues
	)
	//
	if len(r.CpuEvents) > 0 {
		e.state.ExecutionChunk++
	}
	//
	pv.ExecutionChunkIndex = e.state.ExecutionChunk
	pv.NextPC = nextPC
	pv.ExitCode = e.state.ExitCode
	pv.CommittedValueDigest = e.state.PublicValuesDigest
	pv.DeferredProofsDigest = e.state.DeferredProofsDigest
	r.Seal()
	//
	log.Debugf("sealed chunk %d (%d cpu events, %d memory events, pc 0x%x -> 0x%x)", pv.ChunkIndex,
		len(r.CpuEvents), len(r.MemoryLocalEvents), pv.StartPC, pv.NextPC)
	//
	e.state.Chunk++
	e.state.Clk = 0
	e.record = record.New(e.state.Chunk, e.state.PC)
	//
	return r
}

// finish seals the final chunk, along with the memory initialize and finalize
// events of the entire execution.  Events which do not fit into the final chunk
// spill into additional chunks without CPU events.
func (e *Executor) finish() []*record.Record {
	var (
		inits, finals = e.memoryEvents()
		limit         = int(e.options.MemoryChunkSize)
		records       []*record.Record
	)
	//
	for first := true; first || len(inits) > 0; first = false {
		n := min(limit, len(inits))
		e.record.MemoryInitializeEvents = inits[:n:n]
		e.record.MemoryFinalizeEvents = finals[:n:n]
		inits, finals = inits[n:], finals[n:]
		records = append(records, e.seal(0))
	}
	//
	return records
}

// memoryEvents constructs the initialize and finalize events for every
// address touched, in address order.
func (e *Executor) memoryEvents() ([]record.MemoryInitializeFinalizeEvent, []record.MemoryInitializeFinalizeEvent) {
	var (
		addrs  = make([]uint32, 0, len(e.state.Memory))
		inits  = make([]record.MemoryInitializeFinalizeEvent, 0, len(e.state.Memory))
		finals = make([]record.MemoryInitializeFinalizeEvent, 0, len(e.state.Memory))
	)
	//
	for addr := range e.state.Memory {
		addrs = append(addrs, addr)
	}
	//
	slices.Sort(addrs)
	//
	for _, addr := range addrs {
		final := e.state.Memory[addr]
		inits = append(inits, record.MemoryInitializeFinalizeEvent{Addr: addr, Value: e.initialValue(addr)})
		finals = append(finals, record.MemoryInitializeFinalizeEvent{
			Addr:      addr,
			Value:     final.Value,
			Chunk:     final.Chunk,
			Timestamp: final.Timestamp,
		})
	}
	//
	return inits, finals
}
