// Copyright 2014-2024 Google Inc.
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

// Package bstmap implements an in-memory ordered map backed by a plain,
// unbalanced binary search tree.
//
// Each node holds one key, its value, and (possibly nil) left and right
// children.  Keys in a node's left subtree are less than the node's key;
// keys in its right subtree are not less than it.  Equal keys are therefore
// always routed right, and a Map may hold several entries for equivalent
// keys when filled with Insert.  Use ReplaceOrInsert for the conventional
// one-value-per-key contract.
//
// No balancing is performed.  Inserting keys in sorted order produces a
// degenerate tree whose depth equals its length, and every operation is
// O(depth).  All Map methods walk the tree iteratively, so such trees cost
// time but never goroutine stack.
//
// Every comparison goes through the Map's Comparator.  Key types that are
// not ordered by Go's operators take part by implementing Key, or by passing
// explicit Less and Equal functions to New.
//
// It is not meant for persistent storage solutions.
package bstmap

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	DefaultFreeListSize = 32
)

// ErrOrderViolation is returned by Check when a key sits on the wrong side
// of one of its ancestors.
var ErrOrderViolation = errors.New("bstmap: order invariant violated")

// FreeList represents a free list of tree nodes. By default each Map has
// its own FreeList, but multiple Maps can share the same FreeList.
// Two Maps using the same freelist are safe for concurrent write access to
// the freelist itself; the Maps are not.
type FreeList[K, V any] struct {
	mu       sync.Mutex
	freelist []*node[K, V]
}

// NewFreeList creates a new free list.
// size is the maximum size of the returned free list.
func NewFreeList[K, V any](size int) *FreeList[K, V] {
	return &FreeList[K, V]{freelist: make([]*node[K, V], 0, size)}
}

func (f *FreeList[K, V]) newNode() (n *node[K, V]) {
	f.mu.Lock()
	index := len(f.freelist) - 1
	if index < 0 {
		f.mu.Unlock()
		return new(node[K, V])
	}
	n = f.freelist[index]
	f.freelist[index] = nil
	f.freelist = f.freelist[:index]
	f.mu.Unlock()
	return
}

func (f *FreeList[K, V]) freeNode(n *node[K, V]) (out bool) {
	f.mu.Lock()
	if len(f.freelist) < cap(f.freelist) {
		f.freelist = append(f.freelist, n)
		out = true
	}
	f.mu.Unlock()
	return
}

// Len returns the number of nodes waiting in the free list.
func (f *FreeList[K, V]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.freelist)
}

// Ordered represents the set of types for which the '<' operator work.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr | ~float32 | ~float64 | ~string
}

// LessFunc determines how to order a key type 'K'.  It should implement a
// strict weak ordering, and should return true if within that ordering,
// 'a' < 'b'.
type LessFunc[K any] func(a, b K) bool

// EqualFunc reports whether two keys are equivalent.
type EqualFunc[K any] func(a, b K) bool

// Comparator is the pair of predicates a Map uses for every key comparison.
//
// Less and Equal must agree: if neither Less(a, b) nor Less(b, a) holds,
// Equal(a, b) must hold too, otherwise lookups on trees holding equivalent
// keys become unreliable.  A nil Equal is derived from Less.
type Comparator[K any] struct {
	Less  LessFunc[K]
	Equal EqualFunc[K]
}

// Key is implemented by key types that define their own ordering.
type Key[K any] interface {
	// Less tests whether the receiver orders before the argument.
	Less(than K) bool
	// Equal tests whether the receiver is equivalent to the argument.
	Equal(other K) bool
}

// Less returns a default LessFunc that uses the '<' operator for types that
// support it.
func Less[K Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// OrderedComparator returns a Comparator built on the '<' and '==' operators.
func OrderedComparator[K Ordered]() Comparator[K] {
	return Comparator[K]{
		Less:  Less[K](),
		Equal: func(a, b K) bool { return a == b },
	}
}

// KeyComparator returns a Comparator that calls the Less and Equal methods
// of K.
func KeyComparator[K Key[K]]() Comparator[K] {
	return Comparator[K]{
		Less:  func(a, b K) bool { return a.Less(b) },
		Equal: func(a, b K) bool { return a.Equal(b) },
	}
}

func (c Comparator[K]) complete() Comparator[K] {
	if c.Equal == nil {
		less := c.Less
		c.Equal = func(a, b K) bool { return !less(a, b) && !less(b, a) }
	}
	return c
}

// node is an internal node in a tree.  Its children are owned by it alone.
type node[K, V any] struct {
	key   K
	value V
	left  *node[K, V]
	right *node[K, V]
}

// print is used for testing/debugging purposes.  It recurses, so it is only
// meant for small trees.
func (n *node[K, V]) print(w io.Writer, level int) {
	if n == nil {
		return
	}
	n.right.print(w, level+1)
	fmt.Fprintf(w, "%sNODE:%v=%v\n", strings.Repeat("  ", level), n.key, n.value)
	n.left.print(w, level+1)
}

// Map is a generic ordered map stored as an unbalanced binary search tree.
//
// Write operations are not safe for concurrent mutation by multiple
// goroutines, but Read operations are.
type Map[K, V any] struct {
	root     *node[K, V]
	cmp      Comparator[K]
	freelist *FreeList[K, V]
}

// New creates an empty Map ordered by c.  It panics if c.Less is nil.
func New[K, V any](c Comparator[K]) *Map[K, V] {
	return NewWithFreeList(c, NewFreeList[K, V](DefaultFreeListSize))
}

// NewOrdered creates an empty Map for ordered key types.
func NewOrdered[K Ordered, V any]() *Map[K, V] {
	return New[K, V](OrderedComparator[K]())
}

// NewKeyed creates an empty Map whose keys order themselves through Key.
func NewKeyed[K Key[K], V any]() *Map[K, V] {
	return New[K, V](KeyComparator[K]())
}

// NewWithFreeList creates an empty Map that uses the given node free list.
func NewWithFreeList[K, V any](c Comparator[K], f *FreeList[K, V]) *Map[K, V] {
	if c.Less == nil {
		panic("bstmap: nil less function")
	}
	return &Map[K, V]{
		cmp:      c.complete(),
		freelist: f,
	}
}

func (t *Map[K, V]) newNode(key K, value V) *node[K, V] {
	n := t.freelist.newNode()
	n.key, n.value = key, value
	return n
}

func (t *Map[K, V]) freeNode(n *node[K, V]) {
	// clear to allow GC
	*n = node[K, V]{}
	t.freelist.freeNode(n)
}

// find returns the child slot holding the first node on the search path
// whose key is Equal to key.  If there is none, the returned slot is the
// empty one where Insert would attach key.
//
// Equivalent keys live in the right subtree of the first one found, so the
// node in the returned slot is the in-order first of its duplicates.
func (t *Map[K, V]) find(key K) **node[K, V] {
	pos := &t.root
	for n := *pos; n != nil; n = *pos {
		if t.cmp.Equal(key, n.key) {
			break
		}
		if t.cmp.Less(key, n.key) {
			pos = &n.left
		} else {
			pos = &n.right
		}
	}
	return pos
}

// Insert adds key with value to the map.  An entry with an equivalent key
// is neither replaced nor rejected: the new entry is stored in that entry's
// right subtree and stays hidden from Get until the earlier one is deleted.
func (t *Map[K, V]) Insert(key K, value V) {
	pos := &t.root
	for n := *pos; n != nil; n = *pos {
		if t.cmp.Less(key, n.key) {
			pos = &n.left
		} else {
			pos = &n.right
		}
	}
	*pos = t.newNode(key, value)
}

// ReplaceOrInsert adds key with value to the map.  If an entry with an
// equivalent key is already present, its value is replaced and the old
// value is returned with true.  Otherwise, (zeroValue, false).
func (t *Map[K, V]) ReplaceOrInsert(key K, value V) (_ V, _ bool) {
	pos := t.find(key)
	if n := *pos; n != nil {
		out := n.value
		n.value = value
		return out, true
	}
	*pos = t.newNode(key, value)
	return
}

// Get looks for key in the map, returning its value.  It returns
// (zeroValue, false) if unable to find that key.  With duplicates present,
// the value of the in-order first equivalent entry is returned.
//
// The returned value is a copy; use ReplaceOrInsert to change a stored
// value, or store pointers to modify entries in place.
func (t *Map[K, V]) Get(key K) (_ V, _ bool) {
	if n := *t.find(key); n != nil {
		return n.value, true
	}
	return
}

// Has returns true if the given key is in the map.
func (t *Map[K, V]) Has(key K) bool {
	return *t.find(key) != nil
}

// Delete removes the entry Get would return for key.  It reports whether
// such an entry existed; if not, the map is left untouched.
func (t *Map[K, V]) Delete(key K) bool {
	pos := t.find(key)
	n := *pos
	if n == nil {
		return false
	}
	switch {
	case n.left == nil:
		*pos = n.right
	case n.right == nil:
		*pos = n.left
	default:
		// Two children: the in-order successor node itself takes n's place,
		// so keys and values never part.
		spos := &n.right
		for (*spos).left != nil {
			spos = &(*spos).left
		}
		s := *spos
		*spos = s.right
		s.left, s.right = n.left, n.right
		*pos = s
	}
	t.freeNode(n)
	return true
}

// Min returns the smallest key in the map and its value, or
// (zeroValue, zeroValue, false) if the map is empty.
func (t *Map[K, V]) Min() (_ K, _ V, _ bool) {
	n := t.root
	if n == nil {
		return
	}
	for n.left != nil {
		n = n.left
	}
	return n.key, n.value, true
}

// Max returns the largest key in the map and its value, or
// (zeroValue, zeroValue, false) if the map is empty.
func (t *Map[K, V]) Max() (_ K, _ V, _ bool) {
	n := t.root
	if n == nil {
		return
	}
	for n.right != nil {
		n = n.right
	}
	return n.key, n.value, true
}

type frame[K, V any] struct {
	n     *node[K, V]
	depth int
}

// walk calls visit once for every node in preorder, along with the node's
// depth (the root is at depth 1).  Children are read before visit runs, so
// visit may release the node it is given.
func (t *Map[K, V]) walk(visit func(n *node[K, V], depth int)) {
	if t.root == nil {
		return
	}
	stack := []frame[K, V]{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.right != nil {
			stack = append(stack, frame[K, V]{f.n.right, f.depth + 1})
		}
		if f.n.left != nil {
			stack = append(stack, frame[K, V]{f.n.left, f.depth + 1})
		}
		visit(f.n, f.depth)
	}
}

// Len returns the number of entries in the map, duplicates included.
// The count is not cached: Len visits every node.
func (t *Map[K, V]) Len() int {
	count := 0
	t.walk(func(*node[K, V], int) { count++ })
	return count
}

// Depth returns the number of nodes on the longest path from the root to a
// leaf, or 0 for an empty map.  Like Len, it visits every node.
func (t *Map[K, V]) Depth() int {
	depth := 0
	t.walk(func(_ *node[K, V], d int) {
		if d > depth {
			depth = d
		}
	})
	return depth
}

// Clear removes all entries from the map.  If addNodesToFreelist is true,
// t's nodes are added to its freelist as part of this call, until the
// freelist is full.  Otherwise, the root node is simply dereferenced and
// the tree left to Go's normal GC processes.
//
// This call takes:
//
//	O(1): when addNodesToFreelist is false, this is a single operation.
//	O(map size): when addNodesToFreelist is true, every node is visited
//	    and cleared, whether or not the freelist has room for it.
func (t *Map[K, V]) Clear(addNodesToFreelist bool) {
	if addNodesToFreelist {
		t.walk(func(n *node[K, V], _ int) { t.freeNode(n) })
	}
	t.root = nil
}

type bound[K any] struct {
	key   K
	valid bool
}

type checkFrame[K, V any] struct {
	n      *node[K, V]
	lo, hi bound[K]
}

// Check verifies that every key lies inside the range its ancestors
// allow: not less than any ancestor it descends right from, and less than
// any ancestor it descends left from.  A comparator that is not a strict
// weak ordering can leave a tree that fails Check.
func (t *Map[K, V]) Check() error {
	if t.root == nil {
		return nil
	}
	stack := []checkFrame[K, V]{{n: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.n
		if f.lo.valid && t.cmp.Less(n.key, f.lo.key) {
			return fmt.Errorf("%w: key %v is right of %v but less than it", ErrOrderViolation, n.key, f.lo.key)
		}
		if f.hi.valid && !t.cmp.Less(n.key, f.hi.key) {
			return fmt.Errorf("%w: key %v is left of %v but not less than it", ErrOrderViolation, n.key, f.hi.key)
		}
		if n.left != nil {
			stack = append(stack, checkFrame[K, V]{n.left, f.lo, bound[K]{n.key, true}})
		}
		if n.right != nil {
			stack = append(stack, checkFrame[K, V]{n.right, bound[K]{n.key, true}, f.hi})
		}
	}
	return nil
}
