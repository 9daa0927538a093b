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

// Package setop plans UNION, INTERSECT and EXCEPT trees, including the
// recursive UNION driving iterative queries. Each node of the parsed tree
// becomes an append of its planned branches plus whatever sort, dedup or
// counting step its semantics require; nested same-flavor UNIONs flatten
// into a single append.
package setop

import (
	"math"

	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/log"
	"github.com/stratumdb/stratum/go/stratum/planner/plan"
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// SubqueryPlanner plans one leaf sub-query of a set-operation tree. It
// returns the planned path and the target list describing the path's output
// columns in order.
type SubqueryPlanner interface {
	Plan(ctx *plancontext.PlanningContext, rti tree.RelIndex, subquery *tree.Query,
		tupleFraction float64) (*plan.Path, []*tree.TargetEntry, error)
}

// DistinctEstimator estimates how many distinct combinations the given
// expressions take over the path's output. Statistics live outside the
// planner; this is the seam they plug in through.
type DistinctEstimator interface {
	NumGroups(path *plan.Path, exprs []tree.Expr) float64
}

// Planner plans one query's set-operation tree.
type Planner struct {
	ctx *plancontext.PlanningContext
	sub SubqueryPlanner
	est DistinctEstimator
}

// NewPlanner returns a Planner for the query held by ctx.
func NewPlanner(ctx *plancontext.PlanningContext, sub SubqueryPlanner, est DistinctEstimator) *Planner {
	return &Planner{ctx: ctx, sub: sub, est: est}
}

// PlanSetOperations plans the whole tree and returns the resulting path
// together with its output target list. Output column names come from the
// leftmost leaf query, matching how the operation's result is described to
// the client.
func (p *Planner) PlanSetOperations() (*plan.Path, []*tree.TargetEntry, error) {
	topop, ok := p.ctx.Query.SetOps.(*tree.SetOperation)
	if !ok {
		return nil, nil, sterrors.ST13001("set-operation planner invoked without a set-operation tree")
	}

	refNames, err := p.leftmostTargetList(topop)
	if err != nil {
		return nil, nil, err
	}

	if p.ctx.HasRecursion {
		return p.generateRecursionPath(topop, refNames)
	}
	return p.recurseSetOperations(topop, topop.ColTypes, topop.ColCollations,
		true, -1, refNames, nil, 0)
}

// leftmostTargetList walks down the left spine to the first leaf query.
func (p *Planner) leftmostTargetList(node tree.SetOpNode) ([]*tree.TargetEntry, error) {
	for {
		op, ok := node.(*tree.SetOperation)
		if !ok {
			break
		}
		node = op.Left
	}
	rtr, ok := node.(*tree.RangeTblRef)
	if !ok {
		return nil, sterrors.ST13001("set-operation tree leaf is %T, not a range table reference", node)
	}
	rte := p.ctx.RTE(rtr.RTIndex)
	if rte == nil || rte.Subquery == nil {
		return nil, sterrors.ST13001("set-operation leaf %d does not hold a sub-query", rtr.RTIndex)
	}
	return rte.Subquery.TargetList, nil
}

// recurseSetOperations plans one subtree.
//
// colTypes and colCollations are what the parent expects this subtree to
// produce. junkOK permits extra junk columns in the result; flag >= 0 asks
// for a junk flag column carrying that constant. pNumGroups, when non-nil,
// receives the estimated distinct row count of the subtree's output.
func (p *Planner) recurseSetOperations(node tree.SetOpNode,
	colTypes []tree.TypeID, colCollations []sqltypes.CollationID,
	junkOK bool, flag int, refNames []*tree.TargetEntry,
	pNumGroups *float64, depth int) (*plan.Path, []*tree.TargetEntry, error) {

	if depth > p.ctx.Config.MaxSetOpDepth {
		return nil, nil, sterrors.ST03001("set-operation nesting depth")
	}

	switch n := node.(type) {
	case *tree.RangeTblRef:
		return p.planLeaf(n, colTypes, colCollations, flag, refNames, pNumGroups)

	case *tree.SetOperation:
		var (
			path  *plan.Path
			tlist []*tree.TargetEntry
			err   error
		)
		if n.Op == tree.SetOpUnion {
			path, tlist, err = p.generateUnionPath(n, refNames, pNumGroups, depth)
		} else {
			path, tlist, err = p.generateNonUnionPath(n, refNames, pNumGroups, depth)
		}
		if err != nil {
			return nil, nil, err
		}

		// If the parent wants a flag column, or this subtree's output does
		// not already carry the expected types and collations, interpose a
		// projection. Otherwise the result is used as is.
		if flag >= 0 ||
			!tlistSameDatatypes(tlist, colTypes, junkOK) ||
			!tlistSameCollations(tlist, colCollations) {
			newTlist, err := generateSetOpTarget(colTypes, colCollations,
				flag, tree.OuterRel, false, tlist, refNames)
			if err != nil {
				return nil, nil, err
			}
			path = plan.ApplyProjection(p.ctx.Config.CostModel, path, newTlist)
			tlist = newTlist
		}
		return path, tlist, nil

	default:
		return nil, nil, sterrors.ST13001("unexpected node type %T in set-operation tree", node)
	}
}

// planLeaf plans one leaf sub-query and projects its output to the column
// types the parent operation expects.
func (p *Planner) planLeaf(rtr *tree.RangeTblRef,
	colTypes []tree.TypeID, colCollations []sqltypes.CollationID,
	flag int, refNames []*tree.TargetEntry,
	pNumGroups *float64) (*plan.Path, []*tree.TargetEntry, error) {

	rte := p.ctx.RTE(rtr.RTIndex)
	if rte == nil || rte.Subquery == nil {
		return nil, nil, sterrors.ST13001("set-operation leaf %d does not hold a sub-query", rtr.RTIndex)
	}
	subquery := rte.Subquery

	subpath, subTlist, err := p.sub.Plan(p.ctx, rtr.RTIndex, subquery, p.ctx.TupleFraction)
	if err != nil {
		return nil, nil, err
	}

	tlist, err := generateSetOpTarget(colTypes, colCollations,
		flag, rtr.RTIndex, true, subTlist, refNames)
	if err != nil {
		return nil, nil, err
	}
	path := plan.ApplyProjection(p.ctx.Config.CostModel, subpath, tlist)

	if pNumGroups != nil {
		// A sub-query that already groups, aggregates or deduplicates emits
		// distinct rows; estimating again would double-discount.
		if subquery.GroupClause != nil || subquery.HasGroupingSets ||
			subquery.Distinct || subquery.HasHavingQual || subquery.HasAggs {
			*pNumGroups = subpath.Rows
		} else {
			exprs := make([]tree.Expr, 0, len(subTlist))
			for _, tle := range subTlist {
				if !tle.Junk {
					exprs = append(exprs, tle.Expr)
				}
			}
			*pNumGroups = p.est.NumGroups(subpath, exprs)
		}
	}
	return path, tlist, nil
}

// generateUnionPath plans a UNION node: collect the branch paths, flattening
// nested compatible UNIONs, append them, and deduplicate unless ALL.
func (p *Planner) generateUnionPath(op *tree.SetOperation,
	refNames []*tree.TargetEntry, pNumGroups *float64,
	depth int) (*plan.Path, []*tree.TargetEntry, error) {

	// A distinct UNION consumes its whole input no matter how few rows the
	// caller wants, so branch planning must not see the caller's fraction.
	saveFraction := p.ctx.TupleFraction
	if !op.All {
		p.ctx.TupleFraction = 0
	}
	defer func() { p.ctx.TupleFraction = saveFraction }()

	pathlist, tlists, err := p.recurseUnionChildren(op, op, refNames, depth)
	if err != nil {
		return nil, nil, err
	}
	log.V(3).Infof("pass %v: UNION of %d branches", p.ctx.PassID, len(pathlist))

	tlist := generateAppendTarget(op.ColTypes, op.ColCollations, false, tlists, refNames)
	path := plan.NewAppendPath(pathlist, tlist)

	if !op.All {
		path, err = p.makeUnionUnique(op, path, tlist)
		if err != nil {
			return nil, nil, err
		}
	}
	if pNumGroups != nil {
		*pNumGroups = path.Rows
	}
	return path, tlist, nil
}

// recurseUnionChildren collects the branch paths of a UNION node, flattening
// any nested UNION that can merge into the parent: same duplicate policy (or
// a stricter ALL child under a distinct parent, whose duplicates the parent
// removes anyway) and identical column types.
func (p *Planner) recurseUnionChildren(node tree.SetOpNode, top *tree.SetOperation,
	refNames []*tree.TargetEntry, depth int) ([]*plan.Path, [][]*tree.TargetEntry, error) {

	if op, ok := node.(*tree.SetOperation); ok &&
		op.Op == tree.SetOpUnion &&
		(op.All == top.All || op.All) &&
		typeIDsEqual(op.ColTypes, top.ColTypes) {

		lpaths, ltlists, err := p.recurseUnionChildren(op.Left, top, refNames, depth)
		if err != nil {
			return nil, nil, err
		}
		rpaths, rtlists, err := p.recurseUnionChildren(op.Right, top, refNames, depth)
		if err != nil {
			return nil, nil, err
		}
		return append(lpaths, rpaths...), append(ltlists, rtlists...), nil
	}

	path, tlist, err := p.recurseSetOperations(node, top.ColTypes, top.ColCollations,
		false, -1, refNames, nil, depth+1)
	if err != nil {
		return nil, nil, err
	}
	return []*plan.Path{path}, [][]*tree.TargetEntry{tlist}, nil
}

// makeUnionUnique adds the deduplication step of a distinct UNION on top of
// the appended branches.
func (p *Planner) makeUnionUnique(op *tree.SetOperation, path *plan.Path,
	tlist []*tree.TargetEntry) (*plan.Path, error) {

	groupList, err := generateGroupList(op, tlist)
	if err != nil {
		return nil, err
	}
	if len(groupList) == 0 {
		return nil, sterrors.ST12001("UNION over no columns")
	}

	// Every row could be distinct; without statistics for the appended
	// stream the row count is the only available guess.
	dNumGroups := path.Rows

	checkCols, err := checkColsFor(groupList, tlist)
	if err != nil {
		return nil, err
	}

	m := p.ctx.Config.CostModel
	hashed, err := chooseHashedSetOp(p.ctx, groupList, path, dNumGroups, dNumGroups, "UNION")
	if err != nil {
		return nil, err
	}
	if hashed {
		return plan.NewHashAggPath(m, path, checkCols, dNumGroups), nil
	}
	path = plan.NewSortPath(m, path, checkCols, orderingRefs(groupList))
	return plan.NewUniquePath(m, path, checkCols, dNumGroups), nil
}

// generateNonUnionPath plans an INTERSECT or EXCEPT node. Both branches are
// tagged with a junk flag column and appended; a counting step then decides
// per distinct row how often it appears in the output.
func (p *Planner) generateNonUnionPath(op *tree.SetOperation,
	refNames []*tree.TargetEntry, pNumGroups *float64,
	depth int) (*plan.Path, []*tree.TargetEntry, error) {

	// The counting step consumes everything before emitting; branch
	// planning must not optimize for partial retrieval.
	saveFraction := p.ctx.TupleFraction
	p.ctx.TupleFraction = 0
	defer func() { p.ctx.TupleFraction = saveFraction }()

	var dLeftGroups, dRightGroups float64
	lpath, ltlist, err := p.recurseSetOperations(op.Left, op.ColTypes, op.ColCollations,
		false, 0, refNames, &dLeftGroups, depth+1)
	if err != nil {
		return nil, nil, err
	}
	rpath, rtlist, err := p.recurseSetOperations(op.Right, op.ColTypes, op.ColCollations,
		false, 1, refNames, &dRightGroups, depth+1)
	if err != nil {
		return nil, nil, err
	}

	// EXCEPT is order-sensitive, so its branches stay put. For INTERSECT
	// the branch with fewer distinct rows goes first: the counting step
	// seeds its table from the first branch and a smaller table is cheaper.
	// The flag values assigned above still identify the sides.
	pathlist := []*plan.Path{lpath, rpath}
	tlists := [][]*tree.TargetEntry{ltlist, rtlist}
	if op.Op != tree.SetOpExcept && dLeftGroups > dRightGroups {
		pathlist = []*plan.Path{rpath, lpath}
		tlists = [][]*tree.TargetEntry{rtlist, ltlist}
	}

	tlist := generateAppendTarget(op.ColTypes, op.ColCollations, true, tlists, refNames)
	path := plan.NewAppendPath(pathlist, tlist)

	groupList, err := generateGroupList(op, tlist)
	if err != nil {
		return nil, nil, err
	}
	if len(groupList) == 0 {
		return nil, nil, sterrors.ST12001(op.Op.String() + " over no columns")
	}

	// Estimate the distinct-group count the counting step must track: the
	// left input bounds an EXCEPT, the smaller input an INTERSECT. For the
	// output, each group emits one row unless ALL, in which case the
	// relevant input size is the conservative bound.
	var dNumGroups, dNumOutputRows float64
	if op.Op == tree.SetOpExcept {
		dNumGroups = dLeftGroups
		dNumOutputRows = dNumGroups
		if op.All {
			dNumOutputRows = lpath.Rows
		}
	} else {
		dNumGroups = math.Min(dLeftGroups, dRightGroups)
		dNumOutputRows = dNumGroups
		if op.All {
			dNumOutputRows = math.Min(lpath.Rows, rpath.Rows)
		}
	}

	checkCols, err := checkColsFor(groupList, tlist)
	if err != nil {
		return nil, nil, err
	}

	m := p.ctx.Config.CostModel
	hashed, err := chooseHashedSetOp(p.ctx, groupList, path, dNumGroups, dNumOutputRows,
		op.Op.String())
	if err != nil {
		return nil, nil, err
	}
	if !hashed {
		path = plan.NewSortPath(m, path, checkCols, orderingRefs(groupList))
	}

	var cmd engine.SetOpCmd
	switch {
	case op.Op == tree.SetOpIntersect && op.All:
		cmd = engine.SetOpIntersectAll
	case op.Op == tree.SetOpIntersect:
		cmd = engine.SetOpIntersect
	case op.All:
		cmd = engine.SetOpExceptAll
	default:
		cmd = engine.SetOpExcept
	}

	flagCol := len(op.ColTypes)
	path = plan.NewSetOpPath(m, path, cmd, hashed, checkCols, flagCol,
		len(op.ColTypes), dNumGroups, dNumOutputRows)

	if pNumGroups != nil {
		*pNumGroups = dNumGroups
	}
	return path, tlist, nil
}

// generateRecursionPath plans the self-referencing UNION of an iterative
// query: the non-recursive term seeds a worktable, the recursive term reads
// it and refills it until it produces no new rows.
func (p *Planner) generateRecursionPath(op *tree.SetOperation,
	refNames []*tree.TargetEntry) (*plan.Path, []*tree.TargetEntry, error) {

	if op.Op != tree.SetOpUnion {
		return nil, nil, sterrors.ST12001("only UNION queries can be recursive")
	}

	lpath, ltlist, err := p.recurseSetOperations(op.Left, op.ColTypes, op.ColCollations,
		false, -1, refNames, nil, 1)
	if err != nil {
		return nil, nil, err
	}

	// The recursive term scans the worktable, so both must exist before it
	// is planned and stop being visible afterwards.
	p.ctx.NonRecursivePath = lpath
	p.ctx.WorkTable = &engine.WorkTable{}
	defer func() { p.ctx.NonRecursivePath = nil }()

	rpath, rtlist, err := p.recurseSetOperations(op.Right, op.ColTypes, op.ColCollations,
		false, -1, refNames, nil, 1)
	if err != nil {
		return nil, nil, err
	}

	tlist := generateAppendTarget(op.ColTypes, op.ColCollations, false,
		[][]*tree.TargetEntry{ltlist, rtlist}, refNames)

	var (
		checkCols  []engine.CheckCol
		dNumGroups float64
	)
	if !op.All {
		groupList, err := generateGroupList(op, tlist)
		if err != nil {
			return nil, nil, err
		}
		// Iteration re-probes the seen-set every cycle, which only works
		// hashed; there is no sorted fallback here.
		if !tree.GroupingIsHashable(groupList) {
			return nil, nil, sterrors.ST12001("recursive UNION: all column datatypes must be hashable")
		}
		if checkCols, err = checkColsFor(groupList, tlist); err != nil {
			return nil, nil, err
		}
		// No statistics exist for an unbounded iteration; assume ten cycles
		// of the recursive term.
		dNumGroups = lpath.Rows + rpath.Rows*10
	}

	path := plan.NewRecursiveUnionPath(p.ctx.Config.CostModel, lpath, rpath,
		p.ctx.WorkTable, tlist, !op.All, checkCols, dNumGroups)
	return path, tlist, nil
}

func typeIDsEqual(a, b []tree.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
