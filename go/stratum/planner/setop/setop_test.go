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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/planner/cost"
	"github.com/stratumdb/stratum/go/stratum/planner/plan"
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// setopEnv builds a range table of literal-row sub-queries and the parsed
// set-operation tree over them, then plans it.
type setopEnv struct {
	names    []string
	fields   []sqltypes.Field
	colTypes []tree.TypeID
	colColls []sqltypes.CollationID

	rangeTable []*tree.RangeTblEntry
	leaves     map[tree.RelIndex]*engine.Values
}

func newEnv(names, types string) *setopEnv {
	env := &setopEnv{
		names:  strings.Split(names, "|"),
		fields: sqltypes.MakeTestFields(names, types),
		leaves: make(map[tree.RelIndex]*engine.Values),
	}
	for _, typ := range strings.Split(types, "|") {
		switch typ {
		case "int64":
			env.colTypes = append(env.colTypes, tree.TypeInt64)
			env.colColls = append(env.colColls, sqltypes.CollationBinary)
		case "float64":
			env.colTypes = append(env.colTypes, tree.TypeFloat64)
			env.colColls = append(env.colColls, sqltypes.CollationBinary)
		case "varchar":
			env.colTypes = append(env.colTypes, tree.TypeVarChar)
			env.colColls = append(env.colColls, sqltypes.CollationUtf8)
		default:
			env.colTypes = append(env.colTypes, tree.TypeVarBinary)
			env.colColls = append(env.colColls, sqltypes.CollationBinary)
		}
	}
	return env
}

// leaf adds one sub-query entry holding the given literal rows.
func (env *setopEnv) leaf(rows ...string) tree.SetOpNode {
	qr := sqltypes.MakeTestResult(env.fields, rows...)
	rti := tree.RelIndex(len(env.rangeTable) + 1)

	tlist := make([]*tree.TargetEntry, len(env.colTypes))
	for i, typ := range env.colTypes {
		tlist[i] = &tree.TargetEntry{
			Expr: &tree.Var{
				RelID:     rti,
				Col:       i + 1,
				Type:      typ,
				Typmod:    tree.TypmodUnspecified,
				Collation: env.colColls[i],
			},
			ResNo: i + 1,
			Name:  env.names[i],
		}
	}
	env.rangeTable = append(env.rangeTable, &tree.RangeTblEntry{
		Kind:     tree.RTESubquery,
		Subquery: &tree.Query{TargetList: tlist},
		ColNames: env.names,
	})
	env.leaves[rti] = &engine.Values{ResultFields: qr.Fields, Rows: qr.Rows}
	return &tree.RangeTblRef{RTIndex: rti}
}

func (env *setopEnv) op(op tree.SetOpType, all bool, left, right tree.SetOpNode) *tree.SetOperation {
	groupClauses := make([]*tree.SortGroupClause, len(env.colTypes))
	for i := range groupClauses {
		groupClauses[i] = &tree.SortGroupClause{EqOp: "=", Hashable: true, Sortable: true}
	}
	return &tree.SetOperation{
		Op:            op,
		All:           all,
		Left:          left,
		Right:         right,
		ColTypes:      env.colTypes,
		ColCollations: env.colColls,
		GroupClauses:  groupClauses,
	}
}

func (env *setopEnv) context(root tree.SetOpNode, cfg *plancontext.PlannerConfig) *plancontext.PlanningContext {
	if cfg == nil {
		cfg = plancontext.NewTestConfig()
	}
	return plancontext.NewPlanningContext(cfg, nil, &tree.Query{SetOps: root}, env.rangeTable)
}

func (env *setopEnv) plan(ctx *plancontext.PlanningContext) (*plan.Path, []*tree.TargetEntry, error) {
	return NewPlanner(ctx, &fakeSubqueryPlanner{leaves: env.leaves}, rowCountEstimator{}).PlanSetOperations()
}

type fakeSubqueryPlanner struct {
	leaves map[tree.RelIndex]*engine.Values
}

var _ SubqueryPlanner = (*fakeSubqueryPlanner)(nil)

// Plan implements the SubqueryPlanner interface.
func (f *fakeSubqueryPlanner) Plan(_ *plancontext.PlanningContext, rti tree.RelIndex,
	subquery *tree.Query, _ float64) (*plan.Path, []*tree.TargetEntry, error) {
	v, ok := f.leaves[rti]
	if !ok {
		return nil, nil, sterrors.ST13001("no rows registered for relation %d", rti)
	}
	rows := float64(len(v.Rows))
	width := 8 * len(subquery.TargetList)
	c := cost.Cost{Total: rows * 0.01}
	return plan.NewSourcePath(v, subquery.TargetList, rows, width, c), subquery.TargetList, nil
}

type rowCountEstimator struct{}

var _ DistinctEstimator = rowCountEstimator{}

// NumGroups implements the DistinctEstimator interface.
func (rowCountEstimator) NumGroups(path *plan.Path, _ []tree.Expr) float64 {
	return path.Rows
}

func execute(t *testing.T, path *plan.Path) *sqltypes.Result {
	t.Helper()
	qr, err := path.Prim.Execute(context.Background())
	require.NoError(t, err)
	return qr
}

func TestUnionDistinct(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, false,
		env.leaf("1", "2", "2"),
		env.leaf("2", "3"))
	path, tlist, err := env.plan(env.context(root, nil))
	require.NoError(t, err)
	require.Len(t, tlist, 1)
	assert.Equal(t, "id", tlist[0].Name)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2", "3")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestUnionAllKeepsDuplicates(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, true,
		env.leaf("1", "2"),
		env.leaf("2"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2", "2")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestUnionFlattensNestedBranches(t *testing.T) {
	// (a UNION ALL b) UNION ALL c becomes one append of three branches, not
	// a nested pair.
	env := newEnv("id", "int64")
	inner := env.op(tree.SetOpUnion, true, env.leaf("1"), env.leaf("2"))
	root := env.op(tree.SetOpUnion, true, inner, env.leaf("3"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	concat, ok := path.Prim.(*engine.Concatenate)
	require.True(t, ok, "expected a flat concatenate, got %T", path.Prim)
	assert.Len(t, concat.Sources, 3)
}

func TestUnionAllUnderDistinctFlattens(t *testing.T) {
	// An ALL child under a distinct parent merges too: the parent removes
	// the duplicates anyway.
	env := newEnv("id", "int64")
	inner := env.op(tree.SetOpUnion, true, env.leaf("1", "1"), env.leaf("2"))
	root := env.op(tree.SetOpUnion, false, inner, env.leaf("3"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2", "3")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestIntersect(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpIntersect, false,
		env.leaf("1", "2", "2", "3"),
		env.leaf("2", "3", "4"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "2", "3")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestIntersectAllTakesSmallerCount(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpIntersect, true,
		env.leaf("1", "1", "1", "2"),
		env.leaf("1", "1", "3"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "1")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestExceptIsOrderSensitive(t *testing.T) {
	env := newEnv("id", "int64")
	a := env.leaf("1", "2", "2", "3")
	b := env.leaf("2", "4")

	path, _, err := env.plan(env.context(env.op(tree.SetOpExcept, false, a, b), nil))
	require.NoError(t, err)
	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "3")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)

	env2 := newEnv("id", "int64")
	a2 := env2.leaf("1", "2", "2", "3")
	b2 := env2.leaf("2", "4")
	path, _, err = env2.plan(env2.context(env2.op(tree.SetOpExcept, false, b2, a2), nil))
	require.NoError(t, err)
	qr = execute(t, path)
	expected = sqltypes.MakeTestResult(env2.fields, "4")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestExceptAllSubtractsCounts(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpExcept, true,
		env.leaf("1", "1", "1", "2"),
		env.leaf("1", "2", "2"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "1")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestUnionCoercesBranchTypes(t *testing.T) {
	// The operation's declared column type is varchar; the integer branch
	// gets a coercion in its projection.
	env := newEnv("val", "varchar")
	intLeaf := func(rows ...string) tree.SetOpNode {
		node := env.leaf()
		rti := node.(*tree.RangeTblRef).RTIndex
		intFields := sqltypes.MakeTestFields("val", "int64")
		qr := sqltypes.MakeTestResult(intFields, rows...)
		env.leaves[rti] = &engine.Values{ResultFields: intFields, Rows: qr.Rows}
		tle := env.rangeTable[rti-1].Subquery.TargetList[0]
		tle.Expr.(*tree.Var).Type = tree.TypeInt64
		tle.Expr.(*tree.Var).Collation = sqltypes.CollationBinary
		return node
	}
	root := env.op(tree.SetOpUnion, false, intLeaf("1", "2"), env.leaf("a", "2"))
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2", "a")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}

func TestMemoryCeilingForcesSortedStrategy(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, false, env.leaf("2", "1"), env.leaf("3", "1"))

	cfg := plancontext.NewTestConfig()
	cfg.WorkMemBytes = 1
	path, _, err := env.plan(env.context(root, cfg))
	require.NoError(t, err)

	unique, ok := path.Prim.(*engine.Unique)
	require.True(t, ok, "expected sorted dedup under a tiny memory ceiling, got %T", path.Prim)
	_, ok = unique.Source.(*engine.Sort)
	require.True(t, ok)

	// The sorted strategy also orders the output.
	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2", "3")
	assert.Equal(t, expected.Rows, qr.Rows)
}

func TestHashAggDisabledForcesSortedStrategy(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, false, env.leaf("1"), env.leaf("2"))

	cfg := plancontext.NewTestConfig()
	cfg.EnableHashAgg = false
	path, _, err := env.plan(env.context(root, cfg))
	require.NoError(t, err)
	_, ok := path.Prim.(*engine.Unique)
	assert.True(t, ok, "expected sorted dedup with hashagg disabled, got %T", path.Prim)
}

func TestUnsortableUnhashableColumns(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpIntersect, false, env.leaf("1"), env.leaf("2"))
	for _, sgc := range root.GroupClauses {
		sgc.Hashable = false
		sgc.Sortable = false
	}
	_, _, err := env.plan(env.context(root, nil))
	require.Error(t, err)
	assert.Equal(t, sterrors.CodeUnimplemented, sterrors.ErrCode(err))
	assert.Contains(t, err.Error(), "INTERSECT")
}

func TestNestingDepthGuard(t *testing.T) {
	env := newEnv("id", "int64")
	node := tree.SetOpNode(env.leaf("1"))
	for i := 0; i < 5; i++ {
		node = env.op(tree.SetOpIntersect, false, node, env.leaf("1"))
	}
	cfg := plancontext.NewTestConfig()
	cfg.MaxSetOpDepth = 3
	_, _, err := env.plan(env.context(node, cfg))
	require.Error(t, err)
	assert.Equal(t, sterrors.CodeResourceExhausted, sterrors.ErrCode(err))
}

func TestZeroColumnNonUnion(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpIntersect, false, env.leaf("1"), env.leaf("1"))
	root.ColTypes = nil
	root.ColCollations = nil
	root.GroupClauses = nil
	_, _, err := env.plan(env.context(root, nil))
	require.Error(t, err)
	assert.Equal(t, sterrors.CodeUnimplemented, sterrors.ErrCode(err))
	assert.Contains(t, err.Error(), "over no columns")
}

func TestRecursiveMustBeUnion(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpIntersect, false, env.leaf("1"), env.leaf("1"))
	ctx := env.context(root, nil)
	ctx.HasRecursion = true
	_, _, err := env.plan(ctx)
	require.Error(t, err)
	assert.Equal(t, sterrors.CodeUnimplemented, sterrors.ErrCode(err))
	assert.Contains(t, err.Error(), "recursive")
}

func TestRecursiveUnionPlan(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, false, env.leaf("1"), env.leaf("2"))
	ctx := env.context(root, nil)
	ctx.HasRecursion = true

	path, _, err := env.plan(ctx)
	require.NoError(t, err)

	ru, ok := path.Prim.(*engine.RecursiveUnion)
	require.True(t, ok, "expected a recursive union, got %T", path.Prim)
	assert.True(t, ru.Distinct)
	assert.Same(t, ctx.WorkTable, ru.WorkTable)
	require.NotNil(t, ctx.WorkTable)
}

func TestRecursiveUnionDistinctNeedsHashing(t *testing.T) {
	env := newEnv("id", "int64")
	root := env.op(tree.SetOpUnion, false, env.leaf("1"), env.leaf("2"))
	for _, sgc := range root.GroupClauses {
		sgc.Hashable = false
	}
	ctx := env.context(root, nil)
	ctx.HasRecursion = true
	_, _, err := env.plan(ctx)
	require.Error(t, err)
	assert.Equal(t, sterrors.CodeUnimplemented, sterrors.ErrCode(err))
}

func TestIntersectPutsSmallerInputFirst(t *testing.T) {
	env := newEnv("id", "int64")
	big := env.leaf("1", "2", "3", "4", "5")
	small := env.leaf("1", "2")
	root := env.op(tree.SetOpIntersect, false, big, small)
	path, _, err := env.plan(env.context(root, nil))
	require.NoError(t, err)

	setop, ok := path.Prim.(*engine.SetOp)
	require.True(t, ok, "expected a counting set-op, got %T", path.Prim)
	concat, ok := setop.Source.(*engine.Concatenate)
	require.True(t, ok)
	require.Len(t, concat.Sources, 2)

	// The smaller branch leads, but it still carries the right-side flag,
	// so the result is unchanged.
	first, err := concat.Sources[0].Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, first.Rows, 2)

	qr := execute(t, path)
	expected := sqltypes.MakeTestResult(env.fields, "1", "2")
	assert.ElementsMatch(t, expected.Rows, qr.Rows)
}
