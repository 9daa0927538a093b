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

// Package plan defines the physical plan fragment ("Path") the set-operation
// planner produces, and the constructors that stack one step on another while
// keeping cost and row estimates in sync with the executable primitive.
package plan

import (
	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/planner/cost"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
)

// Distribution describes how a fragment's output rows are spread across
// execution units. The planner never interprets it beyond "same or
// different"; producing and consuming it belongs to the distributed layer.
type Distribution interface {
	Same(other Distribution) bool
}

// Path is a candidate physical strategy for one plan node, carrying its
// estimates and the primitive that executes it.
//
// The target list is not redundant with Prim: junk columns (the set-op flag)
// live only in the target list, while cost and physical shape live only here.
type Path struct {
	Rows  float64
	Width int
	Cost  cost.Cost

	Target []*tree.TargetEntry

	// Ordering lists the sort/group refs the output is sorted on; nil means
	// unordered.
	Ordering []tree.SortGroupRef

	Distribution Distribution

	Prim engine.Primitive
}

// NewSourcePath wraps an externally planned fragment. The external sub-query
// planner hands the planner one of these per leaf.
func NewSourcePath(prim engine.Primitive, target []*tree.TargetEntry, rows float64, width int, c cost.Cost) *Path {
	return &Path{
		Rows:   rows,
		Width:  width,
		Cost:   c,
		Target: target,
		Prim:   prim,
	}
}

// ApplyProjection stacks a projection enforcing the given target list on top
// of a path.
func ApplyProjection(m cost.Model, sub *Path, target []*tree.TargetEntry) *Path {
	return &Path{
		Rows:         sub.Rows,
		Width:        sub.Width,
		Cost:         m.ProjectionCost(sub.Rows, sub.Cost),
		Target:       target,
		Distribution: sub.Distribution,
		Prim:         &engine.Projection{Source: sub.Prim, Target: target},
	}
}

// NewAppendPath concatenates child paths. Startup is the first child's
// startup since rows flow as soon as it produces; totals add up.
func NewAppendPath(children []*Path, target []*tree.TargetEntry) *Path {
	var rows, total, weightedWidth float64
	startup := children[0].Cost.Startup
	prims := make([]engine.Primitive, len(children))
	dist := children[0].Distribution
	for i, child := range children {
		rows += child.Rows
		total += child.Cost.Total
		weightedWidth += child.Rows * float64(child.Width)
		prims[i] = child.Prim
		if dist != nil && (child.Distribution == nil || !dist.Same(child.Distribution)) {
			dist = nil
		}
	}
	width := 0
	if rows > 0 {
		width = int(weightedWidth / rows)
	}
	return &Path{
		Rows:         rows,
		Width:        width,
		Cost:         cost.Cost{Startup: startup, Total: total},
		Target:       target,
		Distribution: dist,
		Prim:         &engine.Concatenate{Sources: prims},
	}
}

// NewSortPath sorts the input on the given columns.
func NewSortPath(m cost.Model, sub *Path, by []engine.CheckCol, ordering []tree.SortGroupRef) *Path {
	return &Path{
		Rows:         sub.Rows,
		Width:        sub.Width,
		Cost:         m.SortCost(sub.Rows, sub.Width, sub.Cost),
		Target:       sub.Target,
		Ordering:     ordering,
		Distribution: sub.Distribution,
		Prim:         &engine.Sort{Source: sub.Prim, By: by},
	}
}

// NewHashAggPath deduplicates the input with a hash table over the check
// columns.
func NewHashAggPath(m cost.Model, sub *Path, checkCols []engine.CheckCol, numGroups float64) *Path {
	return &Path{
		Rows:         numGroups,
		Width:        sub.Width,
		Cost:         m.AggCost(len(checkCols), numGroups, sub.Rows, sub.Cost),
		Target:       sub.Target,
		Distribution: sub.Distribution,
		Prim:         &engine.Distinct{Source: sub.Prim, CheckCols: checkCols},
	}
}

// NewUniquePath collapses adjacent duplicates of an input already sorted on
// the check columns.
func NewUniquePath(m cost.Model, sub *Path, checkCols []engine.CheckCol, numGroups float64) *Path {
	return &Path{
		Rows:         numGroups,
		Width:        sub.Width,
		Cost:         m.GroupCost(len(checkCols), numGroups, sub.Rows, sub.Cost),
		Target:       sub.Target,
		Ordering:     sub.Ordering,
		Distribution: sub.Distribution,
		Prim:         &engine.Unique{Source: sub.Prim, CheckCols: checkCols},
	}
}

// NewSetOpPath adds the counting set-operation step. Hashed and sorted
// strategies share the primitive; they differ in cost shape and in whether
// the caller sorted the input first.
func NewSetOpPath(m cost.Model, sub *Path, cmd engine.SetOpCmd, hashed bool,
	checkCols []engine.CheckCol, flagCol, outputCols int,
	numGroups, outputRows float64) *Path {
	var c cost.Cost
	if hashed {
		c = m.AggCost(len(checkCols), numGroups, sub.Rows, sub.Cost)
	} else {
		c = m.GroupCost(len(checkCols), numGroups, sub.Rows, sub.Cost)
	}
	return &Path{
		Rows:         outputRows,
		Width:        sub.Width,
		Cost:         c,
		Target:       sub.Target,
		Distribution: sub.Distribution,
		Prim: &engine.SetOp{
			Source:     sub.Prim,
			Cmd:        cmd,
			CheckCols:  checkCols,
			FlagCol:    flagCol,
			OutputCols: outputCols,
		},
	}
}

// NewRecursiveUnionPath builds the iterative union of a non-recursive and a
// recursive term sharing a worktable.
func NewRecursiveUnionPath(m cost.Model, left, right *Path, wt *engine.WorkTable,
	target []*tree.TargetEntry, distinct bool, checkCols []engine.CheckCol,
	numGroups float64) *Path {
	// The recursive term runs an unknown number of times; charge it ten
	// iterations, the same guess used for the row estimate.
	total := left.Cost.Total + 10*right.Cost.Total
	rows := numGroups
	if !distinct {
		rows = left.Rows + 10*right.Rows
	}
	return &Path{
		Rows:         rows,
		Width:        left.Width,
		Cost:         cost.Cost{Startup: left.Cost.Startup, Total: total},
		Target:       target,
		Distribution: right.Distribution,
		Prim: &engine.RecursiveUnion{
			NonRecursive: left.Prim,
			Recursive:    right.Prim,
			WorkTable:    wt,
			Distinct:     distinct,
			CheckCols:    checkCols,
		},
	}
}
