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

package setop

import (
	"github.com/stratumdb/stratum/go/stratum/planner/plan"
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// hashEntryOverhead approximates the per-group bookkeeping bytes of the hash
// table on top of the grouped row itself.
const hashEntryOverhead = 48

// chooseHashedSetOp decides between hashed and sorted deduplication for one
// grouping step over the given input. construct names the SQL construct for
// error messages.
//
// Capability rules out a strategy outright; when both apply, hashing must
// respect the memory ceiling and then win on estimated cost. Ties go to
// sorting.
func chooseHashedSetOp(ctx *plancontext.PlanningContext, groupClauses []*tree.SortGroupClause,
	inputPath *plan.Path, dNumGroups, dNumOutputRows float64, construct string) (bool, error) {

	canSort := tree.GroupingIsSortable(groupClauses)
	canHash := tree.GroupingIsHashable(groupClauses)
	switch {
	case canHash && canSort:
		// Fall through to cost comparison.
	case canHash:
		return true, nil
	case canSort:
		return false, nil
	default:
		return false, sterrors.ST12001(construct + ": column datatypes support neither hashing nor sorting")
	}

	if !ctx.Config.EnableHashAgg {
		return false, nil
	}

	hashEntrySize := float64(inputPath.Width + hashEntryOverhead)
	if hashEntrySize*dNumGroups > float64(ctx.Config.WorkMemBytes) {
		return false, nil
	}

	m := ctx.Config.CostModel
	numCols := len(groupClauses)

	// The hashed strategy reads its whole input before emitting anything;
	// the sorted strategy pays the sort up front, then groups incrementally.
	hashed := m.AggCost(numCols, dNumGroups, inputPath.Rows, inputPath.Cost)
	sorted := m.GroupCost(numCols, dNumGroups, inputPath.Rows,
		m.SortCost(inputPath.Rows, inputPath.Width, inputPath.Cost))

	// A caller wanting only part of the output shifts the comparison toward
	// low startup cost. An absolute row count converts to a fraction here.
	fraction := ctx.TupleFraction
	if fraction >= 1 {
		fraction /= dNumOutputRows
	}

	return m.CompareFractional(hashed, sorted, fraction) < 0, nil
}
