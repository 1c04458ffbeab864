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

package bstmap

import (
	"math/rand"
	"testing"

	"github.com/petar/GoLLRB/llrb"
)

// The LLRB benchmarks give a balanced baseline for the unbalanced tree, on
// both random and sorted insertion orders.

func benchmarkInsertOrders() map[string][]int {
	sorted := make([]int, benchmarkTreeSize/10)
	for i := range sorted {
		sorted[i] = i
	}
	return map[string][]int{
		"Random": rand.Perm(benchmarkTreeSize),
		"Sorted": sorted,
	}
}

func BenchmarkInsertOrder(b *testing.B) {
	for name, keys := range benchmarkInsertOrders() {
		b.Run(name+"/BST", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				tr := NewOrdered[int, struct{}]()
				for _, k := range keys {
					tr.Insert(k, struct{}{})
				}
			}
		})
		b.Run(name+"/LLRB", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				tr := llrb.New()
				for _, k := range keys {
					tr.ReplaceOrInsert(llrb.Int(k))
				}
			}
		})
	}
}

func BenchmarkGetOrder(b *testing.B) {
	for name, keys := range benchmarkInsertOrders() {
		bst := NewOrdered[int, struct{}]()
		lr := llrb.New()
		for _, k := range keys {
			bst.Insert(k, struct{}{})
			lr.ReplaceOrInsert(llrb.Int(k))
		}
		b.Run(name+"/BST", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				bst.Get(keys[i%len(keys)])
			}
		})
		b.Run(name+"/LLRB", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				lr.Get(llrb.Int(keys[i%len(keys)]))
			}
		})
	}
}

func BenchmarkDeleteInsertLLRB(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	tr := llrb.New()
	for _, item := range insertP {
		tr.ReplaceOrInsert(llrb.Int(item))
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tr.Delete(llrb.Int(insertP[i%benchmarkTreeSize]))
		tr.ReplaceOrInsert(llrb.Int(insertP[i%benchmarkTreeSize]))
	}
}
