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
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
)

// Errors reported by the emulator.  All are terminal.
var (
	ErrHaltWithNonZeroExitCode = errors.New("halted with non-zero exit code")
	ErrInvalidMemoryAccess     = errors.New("invalid memory access")
	ErrUnsupportedSyscall      = errors.New("unsupported syscall")
	ErrUnsupportedInstruction  = errors.New("unsupported instruction")
	ErrExceededCycleLimit      = errors.New("exceeded cycle limit")
	ErrInvalidSyscallUsage     = errors.New("invalid syscall usage")
	ErrUnconstrainedEnd        = errors.New("program ended in unconstrained mode")
	ErrInvalidOptions          = errors.New("invalid options")
)

// ExecutionError captures an execution failure along with the context in
// which it arose.
type ExecutionError struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Location of the failure.
	Chunk uint32
	PC    uint32
	Cycle uint64
	// Details, when relevant.
	Opcode riscv.Opcode
	Addr   uint32
	Code   syscall.Code
	Detail string
}

func (e *ExecutionError) Error() string {
	var builder strings.Builder
	//
	builder.WriteString(e.Kind.Error())
	//
	switch {
	case errors.Is(e.Kind, ErrInvalidMemoryAccess):
		fmt.Fprintf(&builder, " (%s at 0x%08x)", e.Opcode, e.Addr)
	case errors.Is(e.Kind, ErrUnsupportedSyscall), errors.Is(e.Kind, ErrInvalidSyscallUsage):
		fmt.Fprintf(&builder, " (%s)", e.Code)
	case errors.Is(e.Kind, ErrUnsupportedInstruction):
		fmt.Fprintf(&builder, " (%s)", e.Opcode)
	}
	//
	if e.Detail != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Detail)
	}
	//
	fmt.Fprintf(&builder, " [chunk %d, pc 0x%08x, cycle %d]", e.Chunk, e.PC, e.Cycle)
	//
	return builder.String()
}

// Is matches the sentinel error of this kind.
func (e *ExecutionError) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the sentinel error of this kind.
func (e *ExecutionError) Unwrap() error {
	return e.Kind
}

// failure constructs an execution error at the current location.
func (e *Executor) failure(kind error, detail string) *ExecutionError {
	return &ExecutionError{
		Kind:   kind,
		Chunk:  e.state.Chunk,
		PC:     e.state.PC,
		Cycle:  e.state.GlobalClk,
		Detail: detail,
	}
}

func (e *Executor) memoryFailure(opcode riscv.Opcode, addr uint32) *ExecutionError {
	err := e.failure(ErrInvalidMemoryAccess, "")
	err.Opcode, err.Addr = opcode, addr
	//
	return err
}

func (e *Executor) syscallFailure(kind error, code syscall.Code, detail string) *ExecutionError {
	err := e.failure(kind, detail)
	err.Code = code
	//
	return err
}
