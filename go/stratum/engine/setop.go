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

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// SetOpCmd selects which operation the SetOp step performs.
type SetOpCmd int8

const (
	SetOpIntersect SetOpCmd = iota
	SetOpIntersectAll
	SetOpExcept
	SetOpExceptAll
)

func (c SetOpCmd) String() string {
	switch c {
	case SetOpIntersect:
		return "IntersectDistinct"
	case SetOpIntersectAll:
		return "IntersectAll"
	case SetOpExcept:
		return "ExceptDistinct"
	case SetOpExceptAll:
		return "ExceptAll"
	default:
		return "SetOpCmd?"
	}
}

var _ Primitive = (*SetOp)(nil)

// SetOp consumes the flagged concatenation of both set-operation inputs and
// emits rows according to per-key counts from each side. FlagCol tells the
// two sides apart: value 0 marks rows of the left input, 1 the right.
type SetOp struct {
	Source    Primitive
	Cmd       SetOpCmd
	CheckCols []CheckCol
	FlagCol   int
	// OutputCols truncates the flag column off the emitted rows.
	OutputCols int
}

type setOpGroup struct {
	firstRow   sqltypes.Row
	leftCount  int64
	rightCount int64
}

// Execute implements the Primitive interface.
func (s *SetOp) Execute(ctx context.Context) (*sqltypes.Result, error) {
	in, err := s.Source.Execute(ctx)
	if err != nil {
		return nil, err
	}

	pt := newProbeTable(s.CheckCols)
	groups := map[sqltypes.HashCode][]*setOpGroup{}
	var order []*setOpGroup

	for _, row := range in.Rows {
		if s.FlagCol >= len(row) {
			return nil, sterrors.ST13001("set operation input row has no flag column")
		}
		flag := row[s.FlagCol]
		if flag.Type() != sqltypes.Int64 {
			return nil, sterrors.ST13001("set operation flag column is not an integer")
		}

		code, err := pt.hashCodeForRow(row)
		if err != nil {
			return nil, err
		}
		var grp *setOpGroup
		for _, candidate := range groups[code] {
			equal, err := pt.equal(candidate.firstRow, row)
			if err != nil {
				return nil, err
			}
			if equal {
				grp = candidate
				break
			}
		}
		if grp == nil {
			grp = &setOpGroup{firstRow: row}
			groups[code] = append(groups[code], grp)
			order = append(order, grp)
		}
		if flag.Int64() == 0 {
			grp.leftCount++
		} else {
			grp.rightCount++
		}
	}

	out := &sqltypes.Result{Fields: in.Fields}
	for _, grp := range order {
		n := s.multiplicity(grp.leftCount, grp.rightCount)
		for ; n > 0; n-- {
			out.Rows = append(out.Rows, grp.firstRow)
		}
	}
	return out.Truncate(s.OutputCols), nil
}

// multiplicity is the per-key output count for each command.
func (s *SetOp) multiplicity(left, right int64) int64 {
	switch s.Cmd {
	case SetOpIntersect:
		if left > 0 && right > 0 {
			return 1
		}
	case SetOpIntersectAll:
		if right < left {
			return right
		}
		return left
	case SetOpExcept:
		if left > 0 && right == 0 {
			return 1
		}
	case SetOpExceptAll:
		if left > right {
			return left - right
		}
	}
	return 0
}

// Inputs implements the Primitive interface.
func (s *SetOp) Inputs() []Primitive { return []Primitive{s.Source} }

func (s *SetOp) description() PrimitiveDescription {
	return PrimitiveDescription{
		OperatorType: "SetOp",
		Other:        map[string]any{"Command": s.Cmd.String(), "FlagCol": s.FlagCol},
	}
}
