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
	"os"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/store"
	"github.com/consensys/go-zkvm/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags]",
	Short: "Inspect the records of an execution.",
	Long:  `Summarise the chunks of an execution held in a store, one row per chunk.`,
	Args:  cobra.NoArgs,
	Run:   runInspectCmd,
}

var inspectHeaders = []string{"chunk", "start pc", "next pc", "cpu", "alu", "byte", "local", "init", "final",
	"syscall", "precompile", "proof"}

func runInspectCmd(cmd *cobra.Command, args []string) {
	var (
		db       = OpenStore(cmd, true)
		terminal = term.IsTerminal(int(os.Stdout.Fd()))
	)
	//
	records, err := db.Records()
	if err != nil {
		log.Error(err)
		exit(db, 5)
	}
	//
	table := termio.NewTablePrinter(uint(len(inspectHeaders)), uint(len(records)+1))
	table.SetRow(0, inspectHeaders...)
	table.SetRowEscape(0, termio.BoldAnsiEscape())
	//
	for i, r := range records {
		row := uint(i + 1)
		table.SetRow(row, inspectRow(db, r)...)
		// Highlight the final chunk
		if r.PublicValues.NextPC == 0 {
			table.SetRowEscape(row, termio.AnsiEscape{}.FgColour(termio.TERM_GREEN))
		}
	}
	// Fit to the terminal (if applicable)
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); terminal && err == nil {
		table.FitWidth(uint(width))
	}
	//
	table.AnsiEscapes(terminal)
	table.Print(os.Stdout)
	//
	if report, err := db.Report(); err == nil {
		printReport(report, uint(len(records)))
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error(err)
	}
	//
	exit(db, 0)
}

func inspectRow(db *store.ChunkStore, r *record.Record) []string {
	var (
		stats = r.Stats()
		proof = "no"
	)
	//
	if _, err := db.Proof(r.Chunk()); err == nil {
		proof = "yes"
	}
	//
	return []string{
		fmt.Sprintf("%d", r.Chunk()),
		fmt.Sprintf("0x%08x", r.PublicValues.StartPC),
		fmt.Sprintf("0x%08x", r.PublicValues.NextPC),
		fmt.Sprintf("%d", stats.CpuEvents),
		fmt.Sprintf("%d", stats.AluEvents),
		fmt.Sprintf("%d", stats.ByteLookups),
		fmt.Sprintf("%d", stats.MemoryLocal),
		fmt.Sprintf("%d", stats.MemoryInitialize),
		fmt.Sprintf("%d", stats.MemoryFinalize),
		fmt.Sprintf("%d", stats.Syscalls),
		fmt.Sprintf("%d", stats.Precompiles),
		proof,
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
}
