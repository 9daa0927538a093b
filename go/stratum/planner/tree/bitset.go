/*
Copyright 2026 The Stratum Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tree

import "math/bits"

// Bitset is an immutable set of small non-negative integers. It backs both
// relation-index sets on planning annotations and per-column privilege sets
// on range table entries. Mutating methods return a new set; sharing a Bitset
// between nodes is therefore always safe.
type Bitset []uint64

const bitsetWordSize = 64

// SingleBitset returns a set containing only the given element.
func SingleBitset(elem int) Bitset {
	return Bitset(nil).With(elem)
}

// With returns a set that also contains elem.
func (bs Bitset) With(elem int) Bitset {
	word := elem / bitsetWordSize
	n := len(bs)
	if word >= n {
		n = word + 1
	}
	out := make(Bitset, n)
	copy(out, bs)
	out[word] |= 1 << (elem % bitsetWordSize)
	return out
}

// Without returns a set with elem removed.
func (bs Bitset) Without(elem int) Bitset {
	word := elem / bitsetWordSize
	if word >= len(bs) {
		return bs
	}
	out := make(Bitset, len(bs))
	copy(out, bs)
	out[word] &^= 1 << (elem % bitsetWordSize)
	return out
}

// Contains reports whether elem is in the set.
func (bs Bitset) Contains(elem int) bool {
	word := elem / bitsetWordSize
	if word >= len(bs) {
		return false
	}
	return bs[word]&(1<<(elem%bitsetWordSize)) != 0
}

// IsEmpty reports whether the set has no elements.
func (bs Bitset) IsEmpty() bool {
	for _, w := range bs {
		if w != 0 {
			return false
		}
	}
	return true
}

// Popcount returns the number of elements in the set.
func (bs Bitset) Popcount() (n int) {
	for _, w := range bs {
		n += bits.OnesCount64(w)
	}
	return
}

// ForEach calls the callback for every element in ascending order.
func (bs Bitset) ForEach(f func(int)) {
	for i, w := range bs {
		for w != 0 {
			f(i*bitsetWordSize + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

// TranslateMember substitutes one element for another, when present.
func (bs Bitset) TranslateMember(from, to int) Bitset {
	if !bs.Contains(from) {
		return bs
	}
	return bs.Without(from).With(to)
}
