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

// Package air turns the records of a chunk into traces, one per chip, and
// evaluates those traces into the interactions of the lookup argument.  The
// constraints of individual chips are the concern of the proving backend.
package air

import "fmt"

// Column identifies a column of a trace by its index.
type Column uint

// Layout maps column names to their indices within the rows of a chip's trace.
// A layout is constructed once per chip, after which it is immutable.
type Layout struct {
	name    string
	columns []string
	index   map[string]Column
}

// NewLayout constructs an empty layout for a given chip.
func NewLayout(name string) *Layout {
	return &Layout{name: name, index: make(map[string]Column)}
}

// Add a column to this layout, returning its index.
func (l *Layout) Add(name string) Column {
	if _, ok := l.index[name]; ok {
		panic(fmt.Sprintf("duplicate column %s.%s", l.name, name))
	}
	//
	col := Column(len(l.columns))
	l.columns = append(l.columns, name)
	l.index[name] = col
	//
	return col
}

// AddN adds n columns named name_0, name_1, etc.
func (l *Layout) AddN(name string, n uint) []Column {
	var cols = make([]Column, n)
	//
	for i := range cols {
		cols[i] = l.Add(fmt.Sprintf("%s_%d", name, i))
	}
	//
	return cols
}

// Name returns the name of the chip this layout describes.
func (l *Layout) Name() string {
	return l.name
}

// Width returns the number of columns in this layout.
func (l *Layout) Width() uint {
	return uint(len(l.columns))
}

// ColumnName returns the name of a given column.
func (l *Layout) ColumnName(col Column) string {
	return l.columns[col]
}

// Find the column with a given name, if it exists.
func (l *Layout) Find(name string) (Column, bool) {
	col, ok := l.index[name]
	return col, ok
}
