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
package riscv

// Register identifies one of the 32 general purpose registers.  Registers live
// in the lowest 32 words of the address space, so register i has address i.
type Register = uint8

// NUM_REGISTERS determines the number of general purpose registers.
const NUM_REGISTERS = 32

// ABI register names used by the emulator.
const (
	X0 Register = 0
	RA Register = 1
	SP Register = 2
	T0 Register = 5
	A0 Register = 10
	A1 Register = 11
	A2 Register = 12
)
