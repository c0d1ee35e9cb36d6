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
package lookup

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Imbalance identifies a fact whose looked and looking multiplicities differ.
type Imbalance[F field.Element[F]] struct {
	Kind   Kind
	Scope  Scope
	Values []F
	// Net multiplicity (looked minus looking).
	Multiplicity F
}

// Message provides a suitable error message.
func (p Imbalance[F]) Message() string {
	var values = make([]string, len(p.Values))
	//
	for i, v := range p.Values {
		values[i] = v.String()
	}
	//
	return fmt.Sprintf("%s/%s interaction (%s) unbalanced by %s", p.Kind, p.Scope, strings.Join(values, ", "),
		p.Multiplicity.String())
}

func (p Imbalance[F]) String() string {
	return p.Message()
}

// Balance checks exactly that, for each kind and scope, the multiset of looked
// facts matches the multiset of looking facts.  Every imbalanced fact is
// returned, in a deterministic order.  This is a debugging aid: the proving
// backend establishes the same property through LogUpSum.
func Balance[F field.Element[F]](interactions []Interaction[F]) []Imbalance[F] {
	var (
		net  = make(map[string]*Imbalance[F])
		keys []string
	)
	//
	for _, i := range interactions {
		key := fingerprint(i)
		//
		if entry, ok := net[key]; ok {
			entry.Multiplicity = entry.Multiplicity.Add(i.Sign())
		} else {
			net[key] = &Imbalance[F]{i.Kind, i.Scope, i.Values, i.Sign()}
			keys = append(keys, key)
		}
	}
	//
	slices.Sort(keys)
	//
	var imbalances []Imbalance[F]
	//
	for _, key := range keys {
		if entry := net[key]; !entry.Multiplicity.IsZero() {
			imbalances = append(imbalances, *entry)
		}
	}
	//
	return imbalances
}

// fingerprint encodes the identity of an interaction's fact as bytes.
func fingerprint[F field.Element[F]](i Interaction[F]) string {
	var bytes = make([]byte, 3, 3+8*len(i.Values))
	//
	bytes[0], bytes[1], bytes[2] = byte(i.Kind), byte(i.Scope), byte(len(i.Values))
	//
	for _, v := range i.Values {
		bytes = binary.BigEndian.AppendUint64(bytes, v.Uint64())
	}
	//
	return string(bytes)
}
