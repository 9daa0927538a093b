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

package appendrel

import (
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// translator rewrites copies of parent-relation expressions so they refer to
// one child of an append relation. Inputs are never modified; every returned
// tree is freshly built.
type translator struct {
	ctx     *plancontext.PlanningContext
	appinfo *tree.AppendRelInfo

	// sublevels tracks how many subquery layers the walk has descended
	// through, so only column references at the right nesting depth are
	// rewritten.
	sublevels int
}

// TranslateExpr rewrites a copy of node per the given translation record.
func TranslateExpr(ctx *plancontext.PlanningContext, node tree.Expr, appinfo *tree.AppendRelInfo) (tree.Expr, error) {
	t := &translator{ctx: ctx, appinfo: appinfo}
	return t.expr(node)
}

// TranslateExprs rewrites a copy of each expression in the list.
func TranslateExprs(ctx *plancontext.PlanningContext, nodes []tree.Expr, appinfo *tree.AppendRelInfo) ([]tree.Expr, error) {
	t := &translator{ctx: ctx, appinfo: appinfo}
	return t.exprs(nodes)
}

// TranslateQuery rewrites a copy of a whole query so it targets the child
// relation instead of the parent.
func TranslateQuery(ctx *plancontext.PlanningContext, q *tree.Query, appinfo *tree.AppendRelInfo) (*tree.Query, error) {
	t := &translator{ctx: ctx, appinfo: appinfo}
	return t.query(q)
}

// TranslateFilter rewrites a copy of a filter clause. Beyond rewriting the
// expression it remaps the relation-id sets and invalidates the cached cost
// and selectivity, which were computed against parent statistics.
func TranslateFilter(ctx *plancontext.PlanningContext, fc *tree.FilterClause, appinfo *tree.AppendRelInfo) (*tree.FilterClause, error) {
	t := &translator{ctx: ctx, appinfo: appinfo}
	return t.filter(fc)
}

// TranslateExprMultilevel rewrites an expression across several hierarchy
// levels, from the expression's original parent down to the given child.
// Translations compose outermost-first: grandparent to parent, then parent
// to child.
func TranslateExprMultilevel(ctx *plancontext.PlanningContext, node tree.Expr, childRTI tree.RelIndex) (tree.Expr, error) {
	appinfo := ctx.ChildAppendRelInfo(childRTI)
	if appinfo == nil {
		return nil, sterrors.ST13001("no append relation info for relation %d", childRTI)
	}
	if parent := ctx.ChildAppendRelInfo(appinfo.ParentRelID); parent != nil {
		translated, err := TranslateExprMultilevel(ctx, node, appinfo.ParentRelID)
		if err != nil {
			return nil, err
		}
		return TranslateExpr(ctx, translated, appinfo)
	}
	return TranslateExpr(ctx, node, appinfo)
}

func (t *translator) exprs(nodes []tree.Expr) ([]tree.Expr, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]tree.Expr, len(nodes))
	for i, e := range nodes {
		var err error
		if out[i], err = t.expr(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *translator) expr(node tree.Expr) (tree.Expr, error) {
	if node == nil {
		return nil, nil
	}
	switch n := node.(type) {
	case *tree.Var:
		return t.translateVar(n)
	case *tree.Const:
		out := *n
		return &out, nil
	case *tree.CoerceExpr:
		arg, err := t.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Arg = arg
		return &out, nil
	case *tree.RelabelExpr:
		arg, err := t.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Arg = arg
		return &out, nil
	case *tree.ConvertRowtypeExpr:
		arg, err := t.expr(n.Arg)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Arg = arg
		return &out, nil
	case *tree.RowExpr:
		args, err := t.exprs(n.Args)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Args = args
		return &out, nil
	case *tree.OpExpr:
		args, err := t.exprs(n.Args)
		if err != nil {
			return nil, err
		}
		out := *n
		out.Args = args
		return &out, nil
	case *tree.SubqueryExpr:
		t.sublevels++
		q, err := t.query(n.Query)
		t.sublevels--
		if err != nil {
			return nil, err
		}
		out := *n
		out.Query = q
		return &out, nil
	case *tree.SubPlanRef:
		out := *n
		// A correlated sub-plan evaluated per row must be duplicated for the
		// child: its own expressions get translated independently later.
		// Init-plans run once regardless of which member scans them and stay
		// shared.
		if !n.IsInitPlan {
			out.PlanID = t.ctx.CloneSubPlan(n.PlanID)
		}
		return &out, nil
	default:
		return nil, sterrors.ST13001("unexpected node type %T in append relation translator", node)
	}
}

func (t *translator) translateVar(v *tree.Var) (tree.Expr, error) {
	appinfo := t.appinfo
	if int(v.LevelsUp) != t.sublevels || v.RelID != appinfo.ParentRelID {
		out := *v
		return &out, nil
	}

	if v.Col > 0 {
		// Ordinary column: substitute the translated expression.
		if v.Col > len(appinfo.TranslatedVars) {
			return nil, sterrors.ST09001("attribute %d of relation %d has no translation", v.Col, v.RelID)
		}
		slot := appinfo.TranslatedVars[v.Col-1]
		if slot == nil {
			return nil, sterrors.ST09001("attribute %d of relation %d was dropped in child", v.Col, v.RelID)
		}
		newnode := tree.CopyExpr(slot)
		if nv, ok := newnode.(*tree.Var); ok {
			nv.LevelsUp += v.LevelsUp
		}
		return newnode, nil
	}

	// Whole-row reference. If the child has a named composite type of its
	// own, reference the child row and, when the types differ, wrap it in a
	// conversion back to the parent's rowtype so consumers see the parent's
	// column order. Otherwise rebuild the row from the translated columns.
	if appinfo.ChildType != 0 {
		out := *v
		out.RelID = appinfo.ChildRelID
		if appinfo.ParentType != appinfo.ChildType {
			out.Type = appinfo.ChildType
			return &tree.ConvertRowtypeExpr{
				Arg:  &out,
				Type: appinfo.ParentType,
			}, nil
		}
		return &out, nil
	}

	fields := make([]tree.Expr, 0, len(appinfo.TranslatedVars))
	for _, slot := range appinfo.TranslatedVars {
		if slot == nil {
			continue
		}
		field := tree.CopyExpr(slot)
		if fv, ok := field.(*tree.Var); ok {
			fv.LevelsUp += v.LevelsUp
		}
		fields = append(fields, field)
	}
	var colNames []string
	if rte := t.ctx.RTE(appinfo.ParentRelID); rte != nil {
		colNames = rte.ColNames
	}
	return &tree.RowExpr{
		Args:     fields,
		Type:     v.Type,
		ColNames: colNames,
	}, nil
}

func (t *translator) targetList(tlist []*tree.TargetEntry) ([]*tree.TargetEntry, error) {
	if tlist == nil {
		return nil, nil
	}
	out := make([]*tree.TargetEntry, len(tlist))
	for i, te := range tlist {
		e, err := t.expr(te.Expr)
		if err != nil {
			return nil, err
		}
		cp := *te
		cp.Expr = e
		out[i] = &cp
	}
	return out, nil
}

func (t *translator) query(q *tree.Query) (*tree.Query, error) {
	if q == nil {
		return nil, nil
	}
	out := *q
	var err error
	if out.TargetList, err = t.targetList(q.TargetList); err != nil {
		return nil, err
	}
	if out.Quals, err = t.exprs(q.Quals); err != nil {
		return nil, err
	}
	// Only the top-level query can target the parent being translated.
	if t.sublevels == 0 && q.ResultRelation == t.appinfo.ParentRelID {
		out.ResultRelation = t.appinfo.ChildRelID
	}
	out.GroupClause = tree.CopySortGroupClauses(q.GroupClause)
	return &out, nil
}

func (t *translator) filter(fc *tree.FilterClause) (*tree.FilterClause, error) {
	clause, err := t.expr(fc.Clause)
	if err != nil {
		return nil, err
	}
	out := &tree.FilterClause{Clause: clause}
	parent := int(t.appinfo.ParentRelID)
	child := int(t.appinfo.ChildRelID)
	out.ClauseRelids = fc.ClauseRelids.TranslateMember(parent, child)
	out.RequiredRelids = fc.RequiredRelids.TranslateMember(parent, child)
	// Cost and selectivity were cached against the parent's statistics and
	// must be recomputed for the child.
	out.EvalCost = -1
	out.Selectivity = -1
	return out, nil
}
