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

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

// flagged builds the appended input of a counting set operation: data rows
// from both sides, each tagged with a trailing flag column (0 = left).
func flagged(types string, left, right []string) *sqltypes.Result {
	fields := sqltypes.MakeTestFields("a|flag", types+"|int64")
	var rows []string
	for _, l := range left {
		rows = append(rows, l+"|0")
	}
	for _, r := range right {
		rows = append(rows, r+"|1")
	}
	return sqltypes.MakeTestResult(fields, rows...)
}

func TestSetOp(t *testing.T) {
	testCases := []struct {
		name     string
		cmd      SetOpCmd
		left     []string
		right    []string
		expected []string
	}{{
		name:     "intersect distinct",
		cmd:      SetOpIntersect,
		left:     []string{"1", "2", "2", "3"},
		right:    []string{"2", "3", "3", "4"},
		expected: []string{"2", "3"},
	}, {
		name:     "intersect all takes the smaller count",
		cmd:      SetOpIntersectAll,
		left:     []string{"1", "1", "1", "2"},
		right:    []string{"1", "1", "3"},
		expected: []string{"1", "1"},
	}, {
		name:     "except distinct",
		cmd:      SetOpExcept,
		left:     []string{"1", "2", "2", "3"},
		right:    []string{"2", "4"},
		expected: []string{"1", "3"},
	}, {
		name:     "except all subtracts counts",
		cmd:      SetOpExceptAll,
		left:     []string{"1", "1", "1", "2"},
		right:    []string{"1", "2", "2"},
		expected: []string{"1", "1"},
	}, {
		name:     "except with empty right keeps distinct left",
		cmd:      SetOpExcept,
		left:     []string{"1", "1", "2"},
		right:    nil,
		expected: []string{"1", "2"},
	}, {
		name:     "intersect with empty side is empty",
		cmd:      SetOpIntersect,
		left:     []string{"1", "2"},
		right:    nil,
		expected: nil,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := flagged("int64", tc.left, tc.right)
			setop := &SetOp{
				Source:     &Values{ResultFields: in.Fields, Rows: in.Rows},
				Cmd:        tc.cmd,
				CheckCols:  []CheckCol{{Col: 0}},
				FlagCol:    1,
				OutputCols: 1,
			}
			qr, err := setop.Execute(context.Background())
			require.NoError(t, err)

			expected := sqltypes.MakeTestResult(
				sqltypes.MakeTestFields("a", "int64"), tc.expected...)
			require.ElementsMatch(t, expected.Rows, qr.Rows)
			// The flag column must not leak into the output.
			for _, row := range qr.Rows {
				require.Len(t, row, 1)
			}
		})
	}
}

func TestSetOpNullGrouping(t *testing.T) {
	// NULL groups with NULL for set-operation purposes.
	in := flagged("int64", []string{"null", "null", "1"}, []string{"null"})
	setop := &SetOp{
		Source:     &Values{ResultFields: in.Fields, Rows: in.Rows},
		Cmd:        SetOpIntersect,
		CheckCols:  []CheckCol{{Col: 0}},
		FlagCol:    1,
		OutputCols: 1,
	}
	qr, err := setop.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, qr.Rows, 1)
	require.True(t, qr.Rows[0][0].IsNull())
}
