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

package sqltypes

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// HashCode is the type for a hashcode of a value or a row.
type HashCode = uint64

// NullsafeHashcode returns a hashcode consistent with NullsafeCompare:
// values that compare equal hash equal. Numeric values hash through their
// float image so 1 and 1.0 collide on the same bucket.
func NullsafeHashcode(v Value, _ CollationID) (HashCode, error) {
	switch v.typ {
	case Null:
		return 0x8601_75f4_2c0f_8a2d, nil
	case Int64, Float64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.asFloat()))
		return xxhash.Sum64(buf[:]), nil
	default:
		return xxhash.Sum64(v.b), nil
	}
}
