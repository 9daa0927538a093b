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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullsafeCompare(t *testing.T) {
	testCases := []struct {
		name string
		a, b Value
		want int
	}{{
		name: "null equals null",
		a:    NULL, b: NULL,
		want: 0,
	}, {
		name: "null sorts first",
		a:    NULL, b: NewInt64(0),
		want: -1,
	}, {
		name: "ints",
		a:    NewInt64(2), b: NewInt64(10),
		want: -1,
	}, {
		name: "floats",
		a:    NewFloat64(2.5), b: NewFloat64(2.5),
		want: 0,
	}, {
		name: "int against float",
		a:    NewInt64(3), b: NewFloat64(2.5),
		want: 1,
	}, {
		name: "strings compare bytewise",
		a:    NewVarChar("abc"), b: NewVarChar("abd"),
		want: -1,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NullsafeCompare(tc.a, tc.b, CollationUnspecified)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			rev, err := NullsafeCompare(tc.b, tc.a, CollationUnspecified)
			require.NoError(t, err)
			assert.Equal(t, -tc.want, rev)
		})
	}
}

func TestNullsafeCompareIncompatible(t *testing.T) {
	_, err := NullsafeCompare(NewInt64(1), NewVarChar("1"), CollationUnspecified)
	require.Error(t, err)
}

func TestNullsafeHashcode(t *testing.T) {
	// Values that compare equal must hash equal, across numeric kinds.
	h1, err := NullsafeHashcode(NewInt64(5), CollationUnspecified)
	require.NoError(t, err)
	h2, err := NullsafeHashcode(NewFloat64(5), CollationUnspecified)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := NullsafeHashcode(NewInt64(6), CollationUnspecified)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	hn1, err := NullsafeHashcode(NULL, CollationUnspecified)
	require.NoError(t, err)
	hn2, err := NullsafeHashcode(NULL, CollationUnspecified)
	require.NoError(t, err)
	assert.Equal(t, hn1, hn2)
}

func TestCoerce(t *testing.T) {
	v, err := NewInt64(42).Coerce(VarChar)
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
	assert.Equal(t, VarChar, v.Type())

	v, err = NewInt64(42).Coerce(Float64)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Float64())

	// NULL survives any coercion.
	v, err = NULL.Coerce(VarChar)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestResultTruncate(t *testing.T) {
	qr := MakeTestResult(
		MakeTestFields("a|flag", "int64|int64"),
		"1|0", "2|1",
	)
	out := qr.Truncate(1)
	require.Len(t, out.Fields, 1)
	for _, row := range out.Rows {
		assert.Len(t, row, 1)
	}
	// Truncating to the full width is a no-op.
	assert.Same(t, qr, qr.Truncate(2))
}
