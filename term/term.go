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

// Package term implements an opaque tagged machine word usable as a
// bstmap key.
//
// A Term packs a small tag into its low bits and a payload above them.
// Terms order and compare by their raw word only; Term implements
// bstmap.Key so maps keyed by Term never fall back to Go's operators.
package term

import (
	"errors"
	"fmt"
)

// Tag identifies what a Term's payload holds.
type Tag uint8

const (
	TagNil Tag = iota
	TagAtom
	TagSmallInt
)

const (
	tagBits = 4
	tagMask = 1<<tagBits - 1

	// MaxSmallInt and MinSmallInt bound the integers a Term can carry.
	MaxSmallInt = 1<<(63-tagBits) - 1
	MinSmallInt = -1 << (63 - tagBits)
)

// ErrSmallIntRange is returned by MakeSmallInt for integers that do not fit
// in the payload.
var ErrSmallIntRange = errors.New("term: integer out of small int range")

// Term is an opaque tagged word.  The zero Term is Nil.
type Term struct {
	raw uint64
}

// Nil is the empty term.
var Nil = Term{}

// FromRaw wraps a raw word without validating its tag.
func FromRaw(raw uint64) Term { return Term{raw: raw} }

// Raw returns the underlying word.
func (t Term) Raw() uint64 { return t.raw }

// Tag returns the term's tag.
func (t Term) Tag() Tag { return Tag(t.raw & tagMask) }

func (t Term) payload() uint64 { return t.raw >> tagBits }

// MakeAtom returns the atom term for an atom table index.
func MakeAtom(index uint32) Term {
	return Term{raw: uint64(index)<<tagBits | uint64(TagAtom)}
}

// MakeSmallInt returns the term holding n.
func MakeSmallInt(n int64) (Term, error) {
	if n > MaxSmallInt || n < MinSmallInt {
		return Nil, fmt.Errorf("%w: %d", ErrSmallIntRange, n)
	}
	return Term{raw: uint64(n)<<tagBits | uint64(TagSmallInt)}, nil
}

// AtomIndex returns the atom table index of an atom term.
func (t Term) AtomIndex() (uint32, bool) {
	if t.Tag() != TagAtom {
		return 0, false
	}
	return uint32(t.payload()), true
}

// SmallInt returns the integer held by a small int term.
func (t Term) SmallInt() (int64, bool) {
	if t.Tag() != TagSmallInt {
		return 0, false
	}
	// arithmetic shift restores the sign
	return int64(t.raw) >> tagBits, true
}

// IsNil reports whether t is Nil.
func (t Term) IsNil() bool { return t.raw == 0 }

// Less orders terms by raw word.
func (t Term) Less(than Term) bool { return t.raw < than.raw }

// Equal reports whether both terms hold the same raw word.
func (t Term) Equal(other Term) bool { return t.raw == other.raw }

func (t Term) String() string {
	switch t.Tag() {
	case TagNil:
		if t.IsNil() {
			return "nil"
		}
	case TagAtom:
		i, _ := t.AtomIndex()
		return fmt.Sprintf("atom#%d", i)
	case TagSmallInt:
		n, _ := t.SmallInt()
		return fmt.Sprint(n)
	}
	return fmt.Sprintf("term(%#x)", t.raw)
}
