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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

func TestDistinct(t *testing.T) {
	type testCase struct {
		testName       string
		inputs         *sqltypes.Result
		expectedResult *sqltypes.Result
	}

	testCases := []*testCase{{
		testName:       "empty",
		inputs:         r("id1|col11|col12", "int64|varbinary|varbinary"),
		expectedResult: r("id1|col11|col12", "int64|varbinary|varbinary"),
	}, {
		testName:       "int64 numbers",
		inputs:         r("myid", "int64", "0", "1", "1", "null", "null"),
		expectedResult: r("myid", "int64", "0", "1", "null"),
	}, {
		testName:       "varchar columns",
		inputs:         r("myid", "varchar", "monkey", "horse", "horse", "monkey"),
		expectedResult: r("myid", "varchar", "monkey", "horse"),
	}, {
		testName: "mixed columns",
		inputs: r("myid|id", "varchar|int64",
			"monkey|1", "horse|1", "horse|1", "monkey|2"),
		expectedResult: r("myid|id", "varchar|int64",
			"monkey|1", "horse|1", "monkey|2"),
	}}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			distinct := &Distinct{
				Source:    &Values{ResultFields: tc.inputs.Fields, Rows: tc.inputs.Rows},
				CheckCols: allCols(tc.inputs),
			}
			qr, err := distinct.Execute(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.expectedResult.Rows, qr.Rows)
		})
	}
}

func TestDistinctProbeTableCollisions(t *testing.T) {
	// Rows with equal hash codes must still compare by value: feed many
	// rows and check that only true duplicates are dropped.
	var rows []string
	for i := 0; i < 1000; i++ {
		rows = append(rows, fmt.Sprintf("%d", i%500))
	}
	in := r("id", "int64", rows...)
	distinct := &Distinct{
		Source:    &Values{ResultFields: in.Fields, Rows: in.Rows},
		CheckCols: allCols(in),
	}
	qr, err := distinct.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, qr.Rows, 500)
}

func r(names, types string, rows ...string) *sqltypes.Result {
	return sqltypes.MakeTestResult(sqltypes.MakeTestFields(names, types), rows...)
}

func allCols(qr *sqltypes.Result) []CheckCol {
	cols := make([]CheckCol, len(qr.Fields))
	for i := range qr.Fields {
		cols[i] = CheckCol{Col: i}
	}
	return cols
}
