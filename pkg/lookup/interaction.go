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
	"strings"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Interaction is a single fact consumed (looking) or provided (looked) by a
// chip, with a given multiplicity.
type Interaction[F field.Element[F]] struct {
	Values       []F
	Multiplicity F
	Kind         Kind
	Scope        Scope
	// IsSend holds for looked (provided) facts, which are counted positively.
	IsSend bool
}

// Sign returns the signed multiplicity of this interaction.
func (i Interaction[F]) Sign() F {
	if i.IsSend {
		return i.Multiplicity
	}
	//
	return i.Multiplicity.Neg()
}

func (i Interaction[F]) String() string {
	var builder strings.Builder
	//
	if i.IsSend {
		builder.WriteString("looked ")
	} else {
		builder.WriteString("looking ")
	}
	//
	builder.WriteString(i.Kind.String())
	builder.WriteString("/")
	builder.WriteString(i.Scope.String())
	builder.WriteString(" (")
	//
	for j, v := range i.Values {
		if j != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.String())
	}
	//
	builder.WriteString(") x")
	builder.WriteString(i.Multiplicity.String())
	//
	return builder.String()
}

// Builder receives the interactions of a chip as its trace is evaluated.
type Builder[F field.Element[F]] interface {
	// Looking records that a fact is consumed multiplicity times.
	Looking(kind Kind, scope Scope, multiplicity F, values ...F)
	// Looked records that a fact is provided multiplicity times.
	Looked(kind Kind, scope Scope, multiplicity F, values ...F)
}

// Collector is a builder which simply records every (non-zero) interaction.
type Collector[F field.Element[F]] struct {
	interactions []Interaction[F]
}

// NewCollector constructs an empty collector.
func NewCollector[F field.Element[F]]() *Collector[F] {
	return &Collector[F]{}
}

// Looking implementation for the Builder interface.
func (c *Collector[F]) Looking(kind Kind, scope Scope, multiplicity F, values ...F) {
	c.add(kind, scope, multiplicity, false, values)
}

// Looked implementation for the Builder interface.
func (c *Collector[F]) Looked(kind Kind, scope Scope, multiplicity F, values ...F) {
	c.add(kind, scope, multiplicity, true, values)
}

func (c *Collector[F]) add(kind Kind, scope Scope, multiplicity F, send bool, values []F) {
	// padding rows have zero multiplicity
	if multiplicity.IsZero() {
		return
	}
	//
	c.interactions = append(c.interactions, Interaction[F]{values, multiplicity, kind, scope, send})
}

// Interactions returns every interaction recorded.
func (c *Collector[F]) Interactions() []Interaction[F] {
	return c.interactions
}

// Filter returns the interactions recorded with a given scope.
func (c *Collector[F]) Filter(scope Scope) []Interaction[F] {
	var res []Interaction[F]
	//
	for _, i := range c.interactions {
		if i.Scope == scope {
			res = append(res, i)
		}
	}
	//
	return res
}

// Append the interactions of another collector to this collector.
func (c *Collector[F]) Append(other *Collector[F]) {
	c.interactions = append(c.interactions, other.interactions...)
}

// Len returns the number of interactions recorded.
func (c *Collector[F]) Len() int {
	return len(c.interactions)
}
