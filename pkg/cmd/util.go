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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint32 gets an expected 32-bit unsigned integer, or panic if an error
// arises.
func GetUint32(cmd *cobra.Command, flag string) uint32 {
	r, err := cmd.Flags().GetUint32(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64-bit unsigned integer, or panic if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array, or panic if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ReadProgram reads and loads a given ELF file.
func ReadProgram(filename string) *riscv.Program {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	program, err := riscv.LoadELF(bytes)
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	log.Debugf("loaded %d instructions from %s (entry 0x%08x)", len(program.Instructions), filename,
		program.PCStart)
	//
	return program
}

// NewExecutor constructs an executor for a given program, configured from the
// command-line flags.
func NewExecutor(cmd *cobra.Command, program *riscv.Program, mode emulator.Mode) *emulator.Executor {
	options := emulator.Options{
		ChunkSize:       GetUint32(cmd, "chunk-size"),
		ChunkBatchSize:  GetUint(cmd, "batch-size"),
		MemoryChunkSize: GetUint(cmd, "memory-chunk-size"),
		MaxCycles:       GetUint64(cmd, "max-cycles"),
		Mode:            mode,
	}
	//
	executor, err := emulator.New(program, options)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Read inputs
	for _, filename := range GetStringArray(cmd, "input") {
		bytes, err := os.ReadFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		executor.WithInput(bytes)
	}
	//
	return executor
}

// OpenStore opens the store given on the command-line, or returns nil if no
// store was given.  When required, a missing store is an error.
func OpenStore(cmd *cobra.Command, required bool) *store.ChunkStore {
	path := GetString(cmd, "store")
	//
	if path == "" && required {
		fmt.Println("no store given (use --store)")
		os.Exit(2)
	} else if path == "" {
		return nil
	}
	//
	db, err := store.Open(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return db
}

// exit closes a store (if given) before terminating with a given code.
func exit(db *store.ChunkStore, code int) {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error(err)
		}
	}
	//
	os.Exit(code)
}
