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

// stratumplan plans a set-operation tree over inline literal relations and
// prints the chosen plan shape with its cost estimates. It exists to inspect
// planner decisions (hashed vs sorted deduplication, branch flattening,
// branch ordering) without a running cluster.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/log"
	"github.com/stratumdb/stratum/go/stratum/planner/cost"
	"github.com/stratumdb/stratum/go/stratum/planner/plan"
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/setop"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

var (
	executePlan bool

	rootCmd = &cobra.Command{
		Use:   "stratumplan [file]",
		Short: "Plan a set-operation tree over inline literal relations",
		Long: `stratumplan reads a JSON description of a set-operation tree whose
leaves are inline literal row sets, plans it, and prints the plan as JSON
together with the planner's row and cost estimates.

The input looks like:

  {
    "columns": [{"name": "id", "type": "int64"}],
    "tree": {
      "op": "union",
      "left":  {"rows": [["1"], ["2"]]},
      "right": {"rows": [["2"], ["3"]]}
    }
  }

A node with "rows" is a leaf; otherwise "op" is union, intersect or except,
with "all" selecting the ALL variant. With no file argument stdin is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
)

func init() {
	rootCmd.Flags().BoolVar(&executePlan, "execute", false, "also run the plan and print the result rows")
	log.RegisterFlags(rootCmd.Flags())
	plancontext.RegisterFlags(rootCmd.Flags())
}

// inputColumn is one declared output column of the whole operation.
type inputColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// inputNode is either a leaf ("rows" set) or an inner operation.
type inputNode struct {
	Op    string     `json:"op,omitempty"`
	All   bool       `json:"all,omitempty"`
	Left  *inputNode `json:"left,omitempty"`
	Right *inputNode `json:"right,omitempty"`

	Rows [][]string `json:"rows,omitempty"`
}

type inputQuery struct {
	Columns []inputColumn `json:"columns"`
	Tree    inputNode     `json:"tree"`
}

func columnType(name string) (tree.TypeID, sqltypes.CollationID, error) {
	switch strings.ToLower(name) {
	case "int64", "int":
		return tree.TypeInt64, sqltypes.CollationBinary, nil
	case "float64", "float":
		return tree.TypeFloat64, sqltypes.CollationBinary, nil
	case "varchar", "text":
		return tree.TypeVarChar, sqltypes.CollationUtf8, nil
	case "varbinary", "bytes":
		return tree.TypeVarBinary, sqltypes.CollationBinary, nil
	}
	return 0, 0, fmt.Errorf("unknown column type %q", name)
}

func parseValue(typ tree.TypeID, s string) (sqltypes.Value, error) {
	if s == "null" {
		return sqltypes.NULL, nil
	}
	switch typ {
	case tree.TypeInt64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return sqltypes.NULL, err
		}
		return sqltypes.NewInt64(i), nil
	case tree.TypeFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return sqltypes.NULL, err
		}
		return sqltypes.NewFloat64(f), nil
	case tree.TypeVarBinary:
		return sqltypes.NewVarBinary([]byte(s)), nil
	default:
		return sqltypes.NewVarChar(s), nil
	}
}

// queryBuilder converts the JSON form into a range table plus a parsed
// set-operation tree, one sub-query entry per leaf.
type queryBuilder struct {
	colTypes      []tree.TypeID
	colCollations []sqltypes.CollationID
	colNames      []string

	rangeTable []*tree.RangeTblEntry
	leaves     map[tree.RelIndex]*engine.Values
}

func (b *queryBuilder) node(in *inputNode) (tree.SetOpNode, error) {
	if in.Rows != nil || in.Op == "" {
		return b.leaf(in)
	}

	var op tree.SetOpType
	switch strings.ToLower(in.Op) {
	case "union":
		op = tree.SetOpUnion
	case "intersect":
		op = tree.SetOpIntersect
	case "except":
		op = tree.SetOpExcept
	default:
		return nil, fmt.Errorf("unknown set operation %q", in.Op)
	}
	if in.Left == nil || in.Right == nil {
		return nil, fmt.Errorf("%s node needs both a left and a right input", in.Op)
	}

	left, err := b.node(in.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.node(in.Right)
	if err != nil {
		return nil, err
	}

	groupClauses := make([]*tree.SortGroupClause, len(b.colTypes))
	for i := range groupClauses {
		groupClauses[i] = &tree.SortGroupClause{EqOp: "=", Hashable: true, Sortable: true}
	}
	return &tree.SetOperation{
		Op:            op,
		All:           in.All,
		Left:          left,
		Right:         right,
		ColTypes:      b.colTypes,
		ColCollations: b.colCollations,
		GroupClauses:  groupClauses,
	}, nil
}

func (b *queryBuilder) leaf(in *inputNode) (tree.SetOpNode, error) {
	rows := make([]sqltypes.Row, len(in.Rows))
	for i, r := range in.Rows {
		if len(r) != len(b.colTypes) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i+1, len(r), len(b.colTypes))
		}
		row := make(sqltypes.Row, len(r))
		for j, s := range r {
			v, err := parseValue(b.colTypes[j], s)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %v", i+1, j+1, err)
			}
			row[j] = v
		}
		rows[i] = row
	}

	fields := make([]sqltypes.Field, len(b.colTypes))
	tlist := make([]*tree.TargetEntry, len(b.colTypes))
	for i, typ := range b.colTypes {
		st, _ := tree.ScalarType(typ)
		fields[i] = sqltypes.Field{Name: b.colNames[i], Type: st}
		tlist[i] = &tree.TargetEntry{
			Expr: &tree.Var{
				RelID:     tree.RelIndex(len(b.rangeTable) + 1),
				Col:       i + 1,
				Type:      typ,
				Typmod:    tree.TypmodUnspecified,
				Collation: b.colCollations[i],
			},
			ResNo: i + 1,
			Name:  b.colNames[i],
		}
	}

	rte := &tree.RangeTblEntry{
		Kind:     tree.RTESubquery,
		Subquery: &tree.Query{TargetList: tlist},
		ColNames: b.colNames,
	}
	b.rangeTable = append(b.rangeTable, rte)
	rti := tree.RelIndex(len(b.rangeTable))
	b.leaves[rti] = &engine.Values{ResultFields: fields, Rows: rows}
	return &tree.RangeTblRef{RTIndex: rti}, nil
}

// literalPlanner plans leaf sub-queries as in-memory row sources.
type literalPlanner struct {
	leaves map[tree.RelIndex]*engine.Values
	width  int
}

var _ setop.SubqueryPlanner = (*literalPlanner)(nil)

// Plan implements the SubqueryPlanner interface.
func (lp *literalPlanner) Plan(_ *plancontext.PlanningContext, rti tree.RelIndex,
	subquery *tree.Query, _ float64) (*plan.Path, []*tree.TargetEntry, error) {
	v, ok := lp.leaves[rti]
	if !ok {
		return nil, nil, sterrors.ST13001("no literal rows registered for relation %d", rti)
	}
	rows := float64(len(v.Rows))
	c := cost.Cost{Total: rows * 0.01}
	return plan.NewSourcePath(v, subquery.TargetList, rows, lp.width, c), subquery.TargetList, nil
}

// literalEstimator has no statistics; it assumes every input row distinct.
type literalEstimator struct{}

var _ setop.DistinctEstimator = literalEstimator{}

// NumGroups implements the DistinctEstimator interface.
func (literalEstimator) NumGroups(path *plan.Path, _ []tree.Expr) float64 {
	return path.Rows
}

func run(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var q inputQuery
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return fmt.Errorf("parsing input: %v", err)
	}
	if len(q.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	b := &queryBuilder{leaves: make(map[tree.RelIndex]*engine.Values)}
	for _, col := range q.Columns {
		typ, coll, err := columnType(col.Type)
		if err != nil {
			return err
		}
		b.colTypes = append(b.colTypes, typ)
		b.colCollations = append(b.colCollations, coll)
		b.colNames = append(b.colNames, col.Name)
	}

	root, err := b.node(&q.Tree)
	if err != nil {
		return err
	}
	if _, ok := root.(*tree.SetOperation); !ok {
		return fmt.Errorf("the tree root must be a set operation, not a bare leaf")
	}

	query := &tree.Query{SetOps: root}
	ctx := plancontext.NewPlanningContext(plancontext.NewConfig(), nil, query, b.rangeTable)

	width := 0
	for range b.colTypes {
		width += 8
	}
	planner := setop.NewPlanner(ctx, &literalPlanner{leaves: b.leaves, width: width}, literalEstimator{})
	path, _, err := planner.PlanSetOperations()
	if err != nil {
		return err
	}

	desc, err := engine.DescribeJSON(path.Prim)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), desc)
	fmt.Fprintf(cmd.OutOrStdout(), "estimated rows: %.0f  cost: startup=%.2f total=%.2f\n",
		path.Rows, path.Cost.Startup, path.Cost.Total)

	if executePlan {
		result, err := path.Prim.Execute(context.Background())
		if err != nil {
			return err
		}
		for _, row := range result.Rows {
			cols := make([]string, len(row))
			for i, v := range row {
				cols[i] = v.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cols, "\t"))
		}
	}
	return nil
}

func main() {
	defer log.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
