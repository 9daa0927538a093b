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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsetBasics(t *testing.T) {
	var bs Bitset
	assert.True(t, bs.IsEmpty())
	assert.False(t, bs.Contains(3))

	bs = bs.With(3).With(70).With(3)
	assert.False(t, bs.IsEmpty())
	assert.True(t, bs.Contains(3))
	assert.True(t, bs.Contains(70))
	assert.False(t, bs.Contains(4))
	assert.Equal(t, 2, bs.Popcount())

	bs = bs.Without(3)
	assert.False(t, bs.Contains(3))
	assert.Equal(t, 1, bs.Popcount())
}

func TestBitsetImmutability(t *testing.T) {
	base := SingleBitset(5)
	grown := base.With(6)
	shrunk := base.Without(5)

	assert.True(t, base.Contains(5))
	assert.Equal(t, 1, base.Popcount())
	assert.True(t, grown.Contains(6))
	assert.True(t, shrunk.IsEmpty())
}

func TestBitsetForEach(t *testing.T) {
	bs := SingleBitset(1).With(64).With(130)
	var got []int
	bs.ForEach(func(i int) {
		got = append(got, i)
	})
	assert.Equal(t, []int{1, 64, 130}, got)
}

func TestBitsetTranslateMember(t *testing.T) {
	bs := SingleBitset(1).With(3)

	translated := bs.TranslateMember(1, 9)
	assert.False(t, translated.Contains(1))
	assert.True(t, translated.Contains(9))
	assert.True(t, translated.Contains(3))
	assert.True(t, bs.Contains(1), "source set is untouched")

	// Absent member: no change.
	same := bs.TranslateMember(7, 8)
	require.Equal(t, bs.Popcount(), same.Popcount())
	assert.False(t, same.Contains(8))
}
