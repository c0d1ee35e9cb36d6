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
package field

// BABYBEAR is the default field at this time, p = 15·2²⁷ + 1.
var BABYBEAR = Config{"BABYBEAR", 30, 16}

// KOALABEAR corresponds to the field p = 2³¹ - 2²⁴ + 1.
var KOALABEAR = Config{"KOALABEAR", 30, 16}

// MERSENNE31 corresponds to the field p = 2³¹ - 1.
var MERSENNE31 = Config{"MERSENNE31", 30, 16}

// FIELD_CONFIGS determines the set of supported fields.
var FIELD_CONFIGS = []Config{
	BABYBEAR,
	KOALABEAR,
	MERSENNE31,
}

// Config provides a simple mechanism for configuring the field agnosticity
// pipeline.
type Config struct {
	// Name suitable for identifying the config.  This is only really used for
	// improving error reporting, etc.
	Name string
	// Maximum field bandwidth available in the field.
	BandWidth uint
	// Width of the limbs into which machine words are split when placed into a
	// trace.
	LimbWidth uint
}

// GetConfig returns the field configuration corresponding with the given
// name, or nil no such config exists.
func GetConfig(name string) *Config {
	for i := range FIELD_CONFIGS {
		if FIELD_CONFIGS[i].Name == name {
			return &FIELD_CONFIGS[i]
		}
	}
	//
	return nil
}
