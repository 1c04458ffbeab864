// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dist holds distribution node descriptors, keyed by their system
// name term.
package dist

import (
	"github.com/google/bstmap"
	"github.com/google/bstmap/term"
)

// Creation distinguishes incarnations of a node with the same name.
type Creation uint8

// InternalCreation marks the local node before it has been assigned an
// incarnation.
const InternalCreation Creation = 0

// Node describes one node of a distributed system.
type Node struct {
	Sysname  term.Term
	Creation Creation
}

// NewNode returns a descriptor with InternalCreation.
func NewNode(sysname term.Term) *Node {
	return &Node{Sysname: sysname, Creation: InternalCreation}
}

// Table maps system names to node descriptors.  At most one descriptor is
// kept per name.
//
// Table is not safe for concurrent mutation.
type Table struct {
	nodes *bstmap.Map[term.Term, *Node]
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{nodes: bstmap.NewKeyed[term.Term, *Node]()}
}

// Register stores n under its Sysname, returning the descriptor it
// replaced, if any.
func (t *Table) Register(n *Node) (*Node, bool) {
	return t.nodes.ReplaceOrInsert(n.Sysname, n)
}

// Lookup returns the descriptor registered under sysname.
func (t *Table) Lookup(sysname term.Term) (*Node, bool) {
	return t.nodes.Get(sysname)
}

// Forget removes the descriptor registered under sysname.
func (t *Table) Forget(sysname term.Term) bool {
	return t.nodes.Delete(sysname)
}

// Len returns the number of registered descriptors.
func (t *Table) Len() int {
	return t.nodes.Len()
}
