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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/prover"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var proveCmd = &cobra.Command{
	Use:   "prove [flags] program.elf",
	Short: "Prove the execution of an RV32IM program.",
	Long: `Execute an RV32IM program whilst proving each chunk as it is sealed.  The
resulting proofs are verified and, if a store is given, persisted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFieldAgnosticCmd(cmd, args, proveCmds)
	},
}

// Available instances
var proveCmds = []FieldAgnosticCmd{
	{field.BABYBEAR, runProveCmd[babybear.Element]},
	{field.KOALABEAR, runProveCmd[koalabear.Element]},
	{field.MERSENNE31, runProveCmd[mersenne31.Element]},
}

func runProveCmd[F field.Element[F]](cmd *cobra.Command, args []string) {
	var (
		program  = ReadProgram(args[0])
		executor = NewExecutor(cmd, program, emulator.TraceMode)
		db       = OpenStore(cmd, false)
	)
	//
	p := newProver[F](cmd, program)
	// Cancel outstanding proofs on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	//
	proofs, err := p.ProveExecution(ctx, executor)
	if err != nil && !errors.Is(err, emulator.ErrHaltWithNonZeroExitCode) {
		log.Error(err)
		exit(db, 4)
	} else if err := p.Verify(proofs); err != nil {
		log.Error(err)
		exit(db, 6)
	}
	// Persist proofs (if applicable)
	if db != nil {
		for _, proof := range proofs {
			if err := putProof(db.PutProof, proof); err != nil {
				log.Error(err)
				exit(db, 5)
			}
		}
		//
		if err := db.PutReport(executor.Summary()); err != nil {
			log.Error(err)
			exit(db, 5)
		}
	}
	//
	printReport(executor.Summary(), uint(len(proofs)))
	fmt.Printf("proved %d chunks over %s\n", len(proofs), GetString(cmd, "field"))
	//
	exit(db, 0)
}

// newProver constructs a prover for a given program.
func newProver[F field.Element[F]](cmd *cobra.Command, program *riscv.Program) *prover.Prover[F] {
	p, err := prover.New[F](program, prover.MerklePCS[F]{})
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	if workers := GetUint(cmd, "workers"); workers > 0 {
		p.WithWorkers(int(workers))
	}
	//
	return p
}

func putProof[F field.Element[F]](put func(uint32, []byte) error, proof *prover.ChunkProof[F]) error {
	bytes, err := record.Encode(proof)
	if err != nil {
		return err
	}
	//
	return put(proof.PublicValues.ChunkIndex, bytes)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(proveCmd)
	rootCmd.PersistentFlags().Uint("workers", 0, "maximum number of chunks proved concurrently (0 for one per cpu)")
}
