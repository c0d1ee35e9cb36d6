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
)

// Mode of execution, which determines which events are recorded.
type Mode uint8

const (
	// SimpleMode records everything except ALU and byte lookup events.  This
	// is sufficient to determine the chunking, public values and memory
	// behaviour of an execution.
	SimpleMode Mode = iota
	// TraceMode records every event, as needed for proving.
	TraceMode
)

func (m Mode) String() string {
	switch m {
	case SimpleMode:
		return "simple"
	case TraceMode:
		return "trace"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses the textual name of a mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "simple":
		return SimpleMode, nil
	case "trace":
		return TraceMode, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, name)
	}
}

// Options configuring an execution.
type Options struct {
	// Maximum number of CPU events per chunk.
	ChunkSize uint32
	// Number of chunks returned per call to ExecuteBatch.
	ChunkBatchSize uint
	// Maximum number of memory initialize (resp. finalize) events per chunk.
	MemoryChunkSize uint
	// Maximum number of instructions executed, or zero for no limit.
	MaxCycles uint64
	// Mode of execution.
	Mode Mode
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		ChunkSize:       1 << 22,
		ChunkBatchSize:  16,
		MemoryChunkSize: 1 << 18,
		MaxCycles:       0,
		Mode:            TraceMode,
	}
}

// Validate checks these options are usable.
func (o Options) Validate() error {
	switch {
	case o.ChunkSize == 0:
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidOptions)
	case o.ChunkBatchSize == 0:
		return fmt.Errorf("%w: chunk batch size must be positive", ErrInvalidOptions)
	case o.MemoryChunkSize == 0:
		return fmt.Errorf("%w: memory chunk size must be positive", ErrInvalidOptions)
	case o.Mode != SimpleMode && o.Mode != TraceMode:
		return fmt.Errorf("%w: invalid mode %s", ErrInvalidOptions, o.Mode)
	}
	//
	return nil
}
