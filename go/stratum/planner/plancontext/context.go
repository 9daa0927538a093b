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

// Package plancontext carries the per-pass planning state: configuration,
// the range table, row marks, accumulated hierarchy translations and shared
// sub-plans. Everything here lives exactly one planning pass; nothing is
// cached across queries.
package plancontext

import (
	"github.com/google/uuid"

	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/planner/catalog"
	"github.com/stratumdb/stratum/go/stratum/planner/plan"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
)

// LockStrength is the row-locking strength of an explicit locking clause.
type LockStrength int8

const (
	LockNone LockStrength = iota
	LockForKeyShare
	LockForShare
	LockForNoKeyUpdate
	LockForUpdate
)

// RowMarkType is how a row mark is implemented for one relation.
type RowMarkType int8

const (
	RowMarkExclusive RowMarkType = iota
	RowMarkNoKeyExclusive
	RowMarkShare
	RowMarkKeyShare
	RowMarkReference
	RowMarkCopy
)

// RowMark is the planner's row-locking metadata for one range table entry.
type RowMark struct {
	RTI  tree.RelIndex
	PRTI tree.RelIndex

	RowMarkID    int
	Strength     LockStrength
	MarkType     RowMarkType
	AllMarkTypes int
	IsParent     bool

	// CanOptLockingClause is set when the planner can prove no cross-node
	// data movement will occur for this relation, allowing the weaker
	// row-share lock instead of the exclusive one.
	CanOptLockingClause bool
}

// SelectRowMarkType picks the mark implementation for one relation: the kind
// can legitimately differ between a parent and its children.
func SelectRowMarkType(rte *tree.RangeTblEntry, strength LockStrength) RowMarkType {
	if rte.Kind != tree.RTERelation {
		return RowMarkCopy
	}
	switch strength {
	case LockForUpdate:
		return RowMarkExclusive
	case LockForNoKeyUpdate:
		return RowMarkNoKeyExclusive
	case LockForShare:
		return RowMarkShare
	case LockForKeyShare:
		return RowMarkKeyShare
	default:
		return RowMarkReference
	}
}

// DynamicScanInfo records one expanded partitioned hierarchy for the
// dynamic-scan machinery downstream.
type DynamicScanInfo struct {
	ParentOID tree.RelationOID
	RTIndex   tree.RelIndex
	Children  tree.Bitset
	ScanID    int
}

// SubPlanEntry is one shared sub-plan: its fragment and the planning context
// it was produced under. Translation clones both.
type SubPlanEntry struct {
	Path    *plan.Path
	Subroot *PlanningContext
}

// PlanningContext is the state threaded through one planning pass.
type PlanningContext struct {
	Config  *PlannerConfig
	PassID  uuid.UUID
	Catalog catalog.Catalog

	Query *tree.Query

	// RangeTable is 1-based: index rti lives at RangeTable[rti-1]. Hierarchy
	// expansion appends child entries to it.
	RangeTable []*tree.RangeTblEntry

	RowMarks      []*RowMark
	AppendRelList []*tree.AppendRelInfo
	DynamicScans  []*DynamicScanInfo
	SubPlans      []*SubPlanEntry

	// TupleFraction is the fraction of output rows the caller actually
	// needs; 0 means all. Absolute counts (a LIMIT) are values >= 1.
	TupleFraction float64

	// Recursive-union state.
	HasRecursion     bool
	WorkTableID      int
	NonRecursivePath *plan.Path
	WorkTable        *engine.WorkTable
}

// NewPlanningContext builds the context for one pass over the given query.
func NewPlanningContext(cfg *PlannerConfig, cat catalog.Catalog, q *tree.Query, rangeTable []*tree.RangeTblEntry) *PlanningContext {
	ctx := &PlanningContext{
		Config:     cfg,
		PassID:     uuid.New(),
		Catalog:    cat,
		Query:      q,
		RangeTable: rangeTable,
	}
	if q != nil {
		ctx.HasRecursion = q.HasRecursion
		ctx.WorkTableID = q.WorkTableID
	}
	return ctx
}

// RTE returns the range table entry at the given index.
func (ctx *PlanningContext) RTE(rti tree.RelIndex) *tree.RangeTblEntry {
	return ctx.RangeTable[rti-1]
}

// AddRTE appends an entry and returns its index.
func (ctx *PlanningContext) AddRTE(rte *tree.RangeTblEntry) tree.RelIndex {
	ctx.RangeTable = append(ctx.RangeTable, rte)
	return tree.RelIndex(len(ctx.RangeTable))
}

// GetPlanRowMark returns the row mark for rti, or nil.
func (ctx *PlanningContext) GetPlanRowMark(rti tree.RelIndex) *RowMark {
	for _, rc := range ctx.RowMarks {
		if rc.RTI == rti {
			return rc
		}
	}
	return nil
}

// AppendRelInfosFor returns the translation records whose parent is rti.
func (ctx *PlanningContext) AppendRelInfosFor(rti tree.RelIndex) []*tree.AppendRelInfo {
	var out []*tree.AppendRelInfo
	for _, ai := range ctx.AppendRelList {
		if ai.ParentRelID == rti {
			out = append(out, ai)
		}
	}
	return out
}

// ChildAppendRelInfo returns the translation record producing the given
// child, or nil.
func (ctx *PlanningContext) ChildAppendRelInfo(childRTI tree.RelIndex) *tree.AppendRelInfo {
	for _, ai := range ctx.AppendRelList {
		if ai.ChildRelID == childRTI {
			return ai
		}
	}
	return nil
}

// SubPlan returns the shared sub-plan with the given 1-based id.
func (ctx *PlanningContext) SubPlan(planID int) *SubPlanEntry {
	return ctx.SubPlans[planID-1]
}

// CloneSubPlan registers an independent copy of a shared sub-plan and
// returns the new plan id. Per-reference annotations can diverge after
// translation, so references must not keep sharing one entry.
func (ctx *PlanningContext) CloneSubPlan(planID int) int {
	orig := ctx.SubPlan(planID)
	pathCopy := *orig.Path
	pathCopy.Target = tree.CopyTargetList(orig.Path.Target)
	rootCopy := *orig.Subroot
	ctx.SubPlans = append(ctx.SubPlans, &SubPlanEntry{Path: &pathCopy, Subroot: &rootCopy})
	return len(ctx.SubPlans)
}
