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
)

func TestSort(t *testing.T) {
	in := r("a|b", "int64|varchar", "3|c", "1|b", "2|a", "1|a", "null|z")
	s := &Sort{
		Source: &Values{ResultFields: in.Fields, Rows: in.Rows},
		By:     []CheckCol{{Col: 0}, {Col: 1}},
	}
	qr, err := s.Execute(context.Background())
	require.NoError(t, err)

	expected := r("a|b", "int64|varchar", "null|z", "1|a", "1|b", "2|a", "3|c")
	require.Equal(t, expected.Rows, qr.Rows)
}

func TestUniqueCollapsesAdjacentDuplicates(t *testing.T) {
	// Unique assumes sorted input and only compares neighbors.
	in := r("a", "int64", "1", "1", "2", "2", "2", "3")
	u := &Unique{
		Source:    &Values{ResultFields: in.Fields, Rows: in.Rows},
		CheckCols: []CheckCol{{Col: 0}},
	}
	qr, err := u.Execute(context.Background())
	require.NoError(t, err)

	expected := r("a", "int64", "1", "2", "3")
	require.Equal(t, expected.Rows, qr.Rows)
}

func TestSortThenUnique(t *testing.T) {
	in := r("a", "int64", "2", "1", "2", "3", "1")
	u := &Unique{
		Source: &Sort{
			Source: &Values{ResultFields: in.Fields, Rows: in.Rows},
			By:     []CheckCol{{Col: 0}},
		},
		CheckCols: []CheckCol{{Col: 0}},
	}
	qr, err := u.Execute(context.Background())
	require.NoError(t, err)

	expected := r("a", "int64", "1", "2", "3")
	require.Equal(t, expected.Rows, qr.Rows)
}
