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
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/sirupsen/logrus"
)

// HookEnv describes where a hook was invoked from.
type HookEnv struct {
	PC    uint32
	Chunk uint32
}

// Hook computes a result outside of the machine, which is then made available
// to the program through its input stream.  Hooks are invoked synchronously by
// writing to their file descriptor.
type Hook func(env HookEnv, buf []byte) [][]byte

// Length of an ecrecover request: a 32-byte message hash followed by a 65-byte
// signature [R || S || V].
const ecrecoverInputLen = 32 + crypto.SignatureLength

// EcrecoverHook recovers the (uncompressed) public key from a secp256k1
// signature.  The result is a status byte (1 on success), followed by the
// public key when successful.
func EcrecoverHook(env HookEnv, buf []byte) [][]byte {
	if len(buf) != ecrecoverInputLen {
		log.Warnf("ecrecover hook (pc 0x%08x) expects %d bytes, found %d", env.PC, ecrecoverInputLen, len(buf))
		//
		return [][]byte{{0}}
	}
	//
	pub, err := crypto.Ecrecover(buf[:32], buf[32:])
	if err != nil {
		log.Debugf("ecrecover hook (pc 0x%08x): %s", env.PC, err)
		//
		return [][]byte{{0}}
	}
	//
	return [][]byte{{1}, pub}
}
