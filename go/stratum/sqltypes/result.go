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

package sqltypes

import (
	"strconv"
	"strings"
)

// Row is a single result row.
type Row = []Value

// Field describes one output column of a Result.
type Field struct {
	Name string
	Type Type
}

// Result is what execution primitives produce and consume.
type Result struct {
	Fields []Field
	Rows   []Row
}

// Truncate returns a result with only the first l columns of every row kept.
// It is used to drop working columns (the set-operation flag) before the
// result leaves the subsystem.
func (r *Result) Truncate(l int) *Result {
	if l == 0 || len(r.Fields) <= l {
		return r
	}
	out := &Result{Fields: r.Fields[:l]}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, row[:l])
	}
	return out
}

// MakeTestFields builds fields from two pipe-separated strings,
// e.g. MakeTestFields("a|b", "int64|varchar").
func MakeTestFields(names, types string) []Field {
	nl := strings.Split(names, "|")
	tl := strings.Split(types, "|")
	fields := make([]Field, len(nl))
	for i, name := range nl {
		fields[i] = Field{Name: name, Type: parseTestType(tl[i])}
	}
	return fields
}

// MakeTestResult builds a result from pipe-separated row strings,
// e.g. MakeTestResult(fields, "1|foo", "2|bar").
func MakeTestResult(fields []Field, rows ...string) *Result {
	res := &Result{Fields: fields}
	for _, rowStr := range rows {
		cells := strings.Split(rowStr, "|")
		row := make(Row, len(cells))
		for i, cell := range cells {
			row[i] = parseTestValue(fields[i].Type, cell)
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func parseTestType(s string) Type {
	switch s {
	case "int64":
		return Int64
	case "float64":
		return Float64
	case "varchar":
		return VarChar
	case "varbinary":
		return VarBinary
	default:
		panic("unknown test type " + s)
	}
}

func parseTestValue(t Type, s string) Value {
	if s == "null" {
		return NULL
	}
	switch t {
	case Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			panic(err)
		}
		return NewInt64(i)
	case Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			panic(err)
		}
		return NewFloat64(f)
	case VarBinary:
		return NewVarBinary([]byte(s))
	default:
		return NewVarChar(s)
	}
}
