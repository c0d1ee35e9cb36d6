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
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/consensys/go-zkvm/pkg/emulator"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:     "execute [flags] program.elf",
	Short:   "Execute an RV32IM program.",
	Long:    `Execute an RV32IM program to completion, splitting its execution into chunks.`,
	Aliases: []string{"exec"},
	Args:    cobra.ExactArgs(1),
	Run:     runExecuteCmd,
}

func runExecuteCmd(cmd *cobra.Command, args []string) {
	mode, err := emulator.ParseMode(GetString(cmd, "mode"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	var (
		program  = ReadProgram(args[0])
		executor = NewExecutor(cmd, program, mode)
		db       = OpenStore(cmd, false)
	)
	//
	report, err := executor.Run()
	if err != nil && !errors.Is(err, emulator.ErrHaltWithNonZeroExitCode) {
		log.Error(err)
		exit(db, 4)
	}
	// Persist records (if applicable)
	if db != nil {
		if err := db.PutAll(report.Records); err != nil {
			log.Error(err)
			exit(db, 5)
		} else if err := db.PutReport(report); err != nil {
			log.Error(err)
			exit(db, 5)
		}
	}
	//
	printReport(report, uint(len(report.Records)))
	//
	if report.ExitCode != 0 {
		exit(db, 1)
	}
	//
	exit(db, 0)
}

// printReport prints the outcome of an execution.  Output of the program on
// stdout and stderr is logged as it is written, so is not repeated here.
func printReport(report *emulator.Report, chunks uint) {
	fmt.Printf("exit code: %d\n", report.ExitCode)
	fmt.Printf("cycles:    %d\n", report.Cycles)
	fmt.Printf("chunks:    %d\n", chunks)
	fmt.Printf("digest:   ")
	//
	for _, w := range report.PublicValuesDigest {
		fmt.Printf(" %08x", w)
	}
	//
	fmt.Println()
	//
	if len(report.Output) > 0 {
		fmt.Printf("output:    0x%x\n", report.Output)
	}
	//
	for _, code := range slices.Sorted(maps.Keys(report.SyscallCounts)) {
		fmt.Printf("syscall:   %s x %d\n", code, report.SyscallCounts[code])
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().String("mode", emulator.TraceMode.String(), "execution mode (simple or trace)")
}
