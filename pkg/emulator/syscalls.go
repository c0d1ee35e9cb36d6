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
	"fmt"
	"math"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
	log "github.com/sirupsen/logrus"
)

// Handler implements a system call.  A handler may access memory through its
// context and record precompile events.  It optionally returns a value to be
// written into t0 (otherwise t0 is rewritten with its current value).
type Handler func(ctx *SyscallContext, code syscall.Code, arg1, arg2 uint32) (uint32, bool, error)

// SyscallContext provides a handler with access to the machine.
type SyscallContext struct {
	executor *Executor
	// Clock of the ECALL instruction.
	clk uint32
	// Program counter following the ECALL instruction.
	nextPC uint32
}

// Clk returns the clock at which the system call was made.
func (ctx *SyscallContext) Clk() uint32 {
	return ctx.clk
}

// State returns the machine state.
func (ctx *SyscallContext) State() *MachineState {
	return ctx.executor.state
}

// Record returns the live record.
func (ctx *SyscallContext) Record() *record.Record {
	return ctx.executor.record
}

// Register returns the current value of a register, without accessing it.
func (ctx *SyscallContext) Register(r riscv.Register) uint32 {
	return ctx.executor.peek(uint32(r))
}

// Word returns the current value of a word of memory, without accessing it.
func (ctx *SyscallContext) Word(addr uint32) uint32 {
	return ctx.executor.peek(addr)
}

// Bytes returns n bytes of memory starting from a given address, without
// accessing it.
func (ctx *SyscallContext) Bytes(addr uint32, n uint32) []byte {
	var bytes = make([]byte, n)
	//
	for i := range n {
		a := addr + i
		bytes[i] = byte(ctx.executor.peek(a&^3) >> (8 * (a & 3)))
	}
	//
	return bytes
}

// Read accesses a word of memory at the clock of the system call.
func (ctx *SyscallContext) Read(addr uint32) record.MemoryAccessRecord {
	return ctx.executor.access(addr, 0, false, ctx.clk)
}

// Write updates a word of memory one cycle after the clock of the system call.
func (ctx *SyscallContext) Write(addr uint32, value uint32) record.MemoryAccessRecord {
	return ctx.executor.access(addr, value, true, ctx.clk+1)
}

// ReadSlice reads n consecutive words starting from a given address.
func (ctx *SyscallContext) ReadSlice(addr uint32, n uint32) ([]record.MemoryAccessRecord, []uint32) {
	var (
		accesses = make([]record.MemoryAccessRecord, n)
		values   = make([]uint32, n)
	)
	//
	for i := range n {
		accesses[i] = ctx.Read(addr + 4*i)
		values[i] = accesses[i].Value
	}
	//
	return accesses, values
}

// WriteSlice writes consecutive words starting from a given address.
func (ctx *SyscallContext) WriteSlice(addr uint32, values []uint32) []record.MemoryAccessRecord {
	var accesses = make([]record.MemoryAccessRecord, len(values))
	//
	for i, v := range values {
		accesses[i] = ctx.Write(addr+4*uint32(i), v)
	}
	//
	return accesses
}

// SetNextPC overrides the program counter following the system call.
func (ctx *SyscallContext) SetNextPC(pc uint32) {
	ctx.nextPC = pc
}

// IsUnconstrained determines whether the machine is in unconstrained mode.
func (ctx *SyscallContext) IsUnconstrained() bool {
	return ctx.executor.unconstrained != nil
}

// Precompile records the event of a precompiled operation.  The syscall
// component is completed by the executor.
func (ctx *SyscallContext) Precompile(event record.PrecompileEvent) {
	r := ctx.executor.record
	r.PrecompileEvents = append(r.PrecompileEvents, event)
}

// Failure constructs an execution error for a given code.
func (ctx *SyscallContext) Failure(kind error, code syscall.Code, format string, args ...any) error {
	return ctx.executor.syscallFailure(kind, code, fmt.Sprintf(format, args...))
}

// ecall executes a system call.  The code is read from t0 and the arguments
// from a0 and a1, whilst the result is written back to t0.  This returns the
// value written, the next pc and any extra cycles consumed.
func (e *Executor) ecall() (uint32, uint32, uint32, error) {
	var (
		c    = e.rr(riscv.A1, posC)
		b    = e.rr(riscv.A0, posB)
		code = syscall.Code(e.peek(uint32(riscv.T0)))
		ctx  = &SyscallContext{e, e.state.Clk, e.state.PC + 4}
	)
	//
	handler, ok := e.handlers[code]
	if !ok {
		return 0, 0, 0, e.syscallFailure(ErrUnsupportedSyscall, code, "")
	}
	//
	e.state.SyscallCounts[code]++
	//
	ret, ok, err := handler(ctx, code, b, c)
	if err != nil {
		return 0, 0, 0, err
	} else if !ok {
		// Leave t0 unchanged (after a rollback, it holds the code once more).
		ret = e.peek(uint32(riscv.T0))
	}
	//
	e.rw(riscv.T0, ret)
	// The syscall event must reflect the state after any rollback, hence it is
	// reconstructed from the (possibly restored) pending accesses.
	event := record.SyscallEvent{
		Chunk: e.state.Chunk,
		Clk:   e.state.Clk,
		Code:  syscall.Code(e.pending.a.PrevValue),
		Arg1:  e.pending.b.Value,
		Arg2:  e.pending.c.Value,
	}
	//
	e.record.SyscallEvents = append(e.record.SyscallEvents, event)
	// Complete the precompile event recorded by the handler (if any).
	if n := len(e.record.PrecompileEvents); event.Code.IsPrecompile() && n > 0 {
		e.record.PrecompileEvents[n-1].Syscall = event
	}
	//
	return ret, ctx.nextPC, event.Code.ExtraCycles(), nil
}

func defaultHandlers() map[syscall.Code]Handler {
	return map[syscall.Code]Handler{
		syscall.HALT:                   halt,
		syscall.WRITE:                  write,
		syscall.ENTER_UNCONSTRAINED:    enterUnconstrained,
		syscall.EXIT_UNCONSTRAINED:     exitUnconstrained,
		syscall.COMMIT:                 commit,
		syscall.COMMIT_DEFERRED_PROOFS: commit,
		syscall.HINT_LEN:               hintLen,
		syscall.HINT_READ:              hintRead,
		syscall.SHA_EXTEND:             shaExtend,
		syscall.SHA_COMPRESS:           shaCompress,
		syscall.KECCAK_PERMUTE:         keccakPermute,
		syscall.SECP256K1_ADD:          secp256k1Add,
		syscall.SECP256K1_DOUBLE:       secp256k1Double,
		syscall.BN254_ADD:              bn254Add,
		syscall.BN254_DOUBLE:           bn254Double,
		syscall.UINT256_MUL:            uint256Mul,
	}
}

// halt terminates the program with the exit code in a0.
func halt(ctx *SyscallContext, code syscall.Code, exitCode, _ uint32) (uint32, bool, error) {
	if ctx.IsUnconstrained() {
		return 0, false, ctx.Failure(ErrUnconstrainedEnd, code, "exit code %d", exitCode)
	}
	//
	ctx.executor.state.ExitCode = exitCode
	ctx.executor.halted = true
	ctx.nextPC = 0
	//
	return 0, false, nil
}

// MAX_WRITE_LEN is the largest buffer accepted by a single WRITE.
const MAX_WRITE_LEN = 1 << 20

// write outputs len bytes (with len given in a2) from ptr to a file
// descriptor.
func write(ctx *SyscallContext, code syscall.Code, fd, ptr uint32) (uint32, bool, error) {
	var (
		e = ctx.executor
		n = ctx.Register(riscv.A2)
	)
	//
	if n > MAX_WRITE_LEN {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "write of %d bytes exceeds %d", n, MAX_WRITE_LEN)
	} else if n != 0 && (!isValidAddress(ptr, 1) || uint64(ptr)+uint64(n) > 1<<32) {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "invalid buffer 0x%08x (%d bytes)", ptr, n)
	}
	//
	bytes := ctx.Bytes(ptr, n)
	//
	switch fd {
	case syscall.FD_STDOUT:
		e.stdout = append(e.stdout, bytes...)
		log.WithField("fd", fd).Info(string(bytes))
	case syscall.FD_STDERR:
		e.stderr = append(e.stderr, bytes...)
		log.WithField("fd", fd).Warn(string(bytes))
	case syscall.FD_PUBLIC_VALUES:
		if ctx.IsUnconstrained() {
			return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "public values written whilst unconstrained")
		}
		//
		e.state.Output = append(e.state.Output, bytes...)
	case syscall.FD_HINT:
		e.state.InputStream = append(e.state.InputStream, bytes)
	default:
		if hook, ok := e.hooks[fd]; ok {
			env := HookEnv{PC: e.state.PC, Chunk: e.state.Chunk}
			e.state.InputStream = append(e.state.InputStream, hook(env, bytes)...)
		} else {
			log.Warnf("write of %d bytes to unknown file descriptor %d", n, fd)
		}
	}
	//
	return 0, false, nil
}

// commit sets one word of either the public values digest, or the deferred
// proofs digest.
func commit(ctx *SyscallContext, code syscall.Code, index, word uint32) (uint32, bool, error) {
	var state = ctx.executor.state
	//
	if ctx.IsUnconstrained() {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "commit whilst unconstrained")
	} else if index >= record.PV_DIGEST_NUM_WORDS {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "digest word %d out of bounds", index)
	}
	//
	if code == syscall.COMMIT {
		state.PublicValuesDigest[index] = word
	} else {
		state.DeferredProofsDigest[index] = word
	}
	//
	return 0, false, nil
}

// hintLen returns the length of the next entry in the input stream, or
// 0xFFFFFFFF when it is exhausted.
func hintLen(ctx *SyscallContext, _ syscall.Code, _, _ uint32) (uint32, bool, error) {
	var state = ctx.executor.state
	//
	if state.InputPtr >= len(state.InputStream) {
		return math.MaxUint32, true, nil
	}
	//
	return uint32(len(state.InputStream[state.InputPtr])), true, nil
}

// hintRead places the next entry of the input stream into (untouched) memory
// at ptr, as though it were part of the initial memory image.
func hintRead(ctx *SyscallContext, code syscall.Code, ptr, n uint32) (uint32, bool, error) {
	var (
		e     = ctx.executor
		state = e.state
	)
	//
	if state.InputPtr >= len(state.InputStream) {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "input stream exhausted")
	} else if !isValidAddress(ptr, 4) {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "invalid pointer 0x%08x", ptr)
	}
	//
	entry := state.InputStream[state.InputPtr]
	//
	if uint32(len(entry)) != n {
		return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "expected %d bytes, found %d", n, len(entry))
	}
	//
	state.InputPtr++
	//
	for i := uint32(0); i < n; i += 4 {
		var word uint32
		//
		for j := uint32(0); j < 4 && i+j < n; j++ {
			word |= uint32(entry[i+j]) << (8 * j)
		}
		//
		addr := ptr + i
		if e.isInitialised(addr) {
			return 0, false, ctx.Failure(ErrInvalidSyscallUsage, code, "address 0x%08x already initialised", addr)
		}
		//
		e.initial[addr] = word
		//
		if e.unconstrained != nil {
			e.unconstrained.hinted = append(e.unconstrained.hinted, addr)
		}
	}
	//
	return 0, false, nil
}

// isInitialised determines whether an address has been accessed, or has a
// non-zero initial value.
func (e *Executor) isInitialised(addr uint32) bool {
	if _, ok := e.state.Memory[addr]; ok {
		return true
	} else if _, ok := e.initial[addr]; ok {
		return true
	}
	//
	_, ok := e.program.Image[addr]
	//
	return ok
}
