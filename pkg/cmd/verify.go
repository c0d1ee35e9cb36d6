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

	"github.com/consensys/go-zkvm/pkg/prover"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/store"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] program.elf",
	Short: "Verify the proofs of an execution.",
	Long: `Verify the chunk proofs held in a store against a given program.  The
proofs must have been generated over the same field.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFieldAgnosticCmd(cmd, args, verifyCmds)
	},
}

// Available instances
var verifyCmds = []FieldAgnosticCmd{
	{field.BABYBEAR, runVerifyCmd[babybear.Element]},
	{field.KOALABEAR, runVerifyCmd[koalabear.Element]},
	{field.MERSENNE31, runVerifyCmd[mersenne31.Element]},
}

func runVerifyCmd[F field.Element[F]](cmd *cobra.Command, args []string) {
	var (
		db = OpenStore(cmd, true)
		p  = newProver[F](cmd, ReadProgram(args[0]))
	)
	//
	proofs, err := readProofs[F](db)
	if err != nil {
		log.Error(err)
		exit(db, 5)
	} else if err := p.Verify(proofs); err != nil {
		log.Error(err)
		exit(db, 6)
	}
	//
	fmt.Printf("verified %d chunks\n", len(proofs))
	exit(db, 0)
}

// readProofs reads every proof from a store, in chunk order.
func readProofs[F field.Element[F]](db *store.ChunkStore) ([]*prover.ChunkProof[F], error) {
	var proofs []*prover.ChunkProof[F]
	//
	for chunk := uint32(1); ; chunk++ {
		bytes, err := db.Proof(chunk)
		if errors.Is(err, store.ErrNotFound) {
			return proofs, nil
		} else if err != nil {
			return nil, err
		}
		//
		var proof prover.ChunkProof[F]
		//
		if err := record.Decode(bytes, &proof); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk, err)
		}
		//
		proofs = append(proofs, &proof)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(verifyCmd)
}
