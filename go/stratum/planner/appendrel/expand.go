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

// Package appendrel turns hierarchy-rooted relation references into append
// relations: one sibling reference per surviving descendant plus a
// translation record mapping the parent's column numbering onto the child's.
// It also implements the translator applying those records to expression and
// query trees.
package appendrel

import (
	"github.com/stratumdb/stratum/go/stratum/log"
	"github.com/stratumdb/stratum/go/stratum/planner/catalog"
	"github.com/stratumdb/stratum/go/stratum/planner/plancontext"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// ExpandInheritedTables expands every range table entry that represents a
// hierarchy into an append relation. Afterwards the Inh flag is set on
// exactly those entries that are append-relation parents.
func ExpandInheritedTables(ctx *plancontext.PlanningContext) error {
	// Expansion appends child entries to the range table; they can't be
	// hierarchy roots themselves, so scan only the original entries.
	n := len(ctx.RangeTable)
	for rti := tree.RelIndex(1); rti <= tree.RelIndex(n); rti++ {
		if err := expandInheritedRTE(ctx, ctx.RTE(rti), rti); err != nil {
			return err
		}
	}
	return nil
}

// ExpandHierarchy expands a single entry and returns the translation records
// produced for it. An empty result means the entry turned out not to be a
// hierarchy after all; the caller treats it as an ordinary relation.
func ExpandHierarchy(ctx *plancontext.PlanningContext, rti tree.RelIndex) ([]*tree.AppendRelInfo, error) {
	if err := expandInheritedRTE(ctx, ctx.RTE(rti), rti); err != nil {
		return nil, err
	}
	return ctx.AppendRelInfosFor(rti), nil
}

// expandInheritedRTE checks whether an entry represents a hierarchy. If so,
// it adds entries for all usable descendants and registers one translation
// record each; if not, it clears the Inh flag so later stages stop looking.
//
// The original entry keeps representing the whole hierarchy. The first
// generated entry re-references the parent relation itself, with Inh=false,
// in its role as a plain member.
func expandInheritedRTE(ctx *plancontext.PlanningContext, rte *tree.RangeTblEntry, rti tree.RelIndex) error {
	if !rte.Inh {
		return nil
	}
	// Already-flattened UNION ALL arms carry Inh on a subquery entry; they
	// need no catalog expansion.
	if rte.Kind != tree.RTERelation {
		return nil
	}
	parentOID := rte.RelOID

	// Fast path for the common childless case.
	if !ctx.Catalog.HasDescendants(parentOID) {
		rte.Inh = false
		return nil
	}

	// Each child is touched here for the first time in the pass, so the lock
	// must be the one execution will need: upgrading later deadlocks. The
	// result relation needs RowExclusiveLock; a row-locking clause needs
	// ExclusiveLock unless the planner proved the relation free of data
	// movement, in which case RowShareLock matches the executor; everything
	// else reads under AccessShareLock.
	oldrc := ctx.GetPlanRowMark(rti)
	var lockmode catalog.LockMode
	switch {
	case ctx.Query != nil && rti == ctx.Query.ResultRelation:
		lockmode = catalog.RowExclusiveLock
	case oldrc != nil && oldrc.CanOptLockingClause:
		lockmode = catalog.RowShareLock
	case oldrc != nil:
		lockmode = catalog.ExclusiveLock
	default:
		lockmode = catalog.AccessShareLock
	}

	inhOIDs, err := ctx.Catalog.Descendants(parentOID, lockmode)
	if err != nil {
		return err
	}

	// A childless table is never a hierarchy. This can trigger despite the
	// fast-path check if the table lost its last child concurrently.
	if len(inhOIDs) < 2 {
		rte.Inh = false
		return nil
	}

	if held := ctx.Catalog.HeldLock(parentOID); held > lockmode {
		log.V(2).Infof("pass %v: relation %d already locked at %v, wanted %v",
			ctx.PassID, parentOID, held, lockmode)
	}

	if oldrc != nil {
		oldrc.IsParent = true
	}

	parentRel, err := ctx.Catalog.Open(parentOID)
	if err != nil {
		return err
	}
	defer parentRel.Close()
	parentIsPartitioned := parentRel.Kind() == tree.RelPartitioned

	var appinfos []*tree.AppendRelInfo
	var childRelids tree.Bitset
	for _, childOID := range inhOIDs {
		childRel := parentRel
		if childOID != parentOID {
			childRel, err = ctx.Catalog.Open(childOID)
			if err != nil {
				return err
			}
		}

		// A descendant can be a transient relation of another session; its
		// data cannot be read safely from here, so it is silently skipped.
		if childOID != parentOID && childRel.IsOtherSessionTemp() {
			childRel.Close()
			continue
		}

		// Under a partitioned parent only leaves carry rows; intermediate
		// nodes (and the container itself) are skipped.
		if parentIsPartitioned && childRel.Kind() != tree.RelLeafPartition {
			if childOID != parentOID {
				childRel.Close()
			}
			continue
		}

		childrte := &tree.RangeTblEntry{
			Kind:         tree.RTERelation,
			RelOID:       childOID,
			RelKind:      childRel.Kind(),
			Inh:          false,
			ColNames:     rte.ColNames,
			SelectedCols: rte.SelectedCols,
			InsertedCols: rte.InsertedCols,
			UpdatedCols:  rte.UpdatedCols,
		}
		childRTI := ctx.AddRTE(childrte)
		childRelids = childRelids.With(int(childRTI))

		appinfo := &tree.AppendRelInfo{
			ParentRelID: rti,
			ChildRelID:  childRTI,
			ParentType:  parentRel.CompositeType(),
			ChildType:   childRel.CompositeType(),
			ParentOID:   parentOID,
		}
		appinfo.TranslatedVars, err = makeTranslation(parentRel, childRel, childRTI)
		if err != nil {
			if childOID != parentOID {
				childRel.Close()
			}
			return err
		}
		appinfos = append(appinfos, appinfo)

		// The executor checks permissions against the original entry only,
		// but the per-column sets are still examined downstream, so remap
		// them onto the child's numbering. The parent's own entry keeps the
		// inherited copies.
		if childOID != parentOID {
			childrte.SelectedCols = translateColPrivs(rte.SelectedCols, appinfo.TranslatedVars)
			childrte.InsertedCols = translateColPrivs(rte.InsertedCols, appinfo.TranslatedVars)
			childrte.UpdatedCols = translateColPrivs(rte.UpdatedCols, appinfo.TranslatedVars)
		}

		if oldrc != nil {
			// The mark type is re-selected per child: the child's kind may
			// not match the parent's.
			newrc := &plancontext.RowMark{
				RTI:                 childRTI,
				PRTI:                rti,
				RowMarkID:           oldrc.RowMarkID,
				Strength:            oldrc.Strength,
				MarkType:            plancontext.SelectRowMarkType(childrte, oldrc.Strength),
				CanOptLockingClause: oldrc.CanOptLockingClause,
			}
			newrc.AllMarkTypes = 1 << newrc.MarkType
			oldrc.AllMarkTypes |= newrc.AllMarkTypes
			ctx.RowMarks = append(ctx.RowMarks, newrc)
		}

		// The handle is scoped to expansion; the lock stays for the pass.
		if childOID != parentOID {
			childRel.Close()
		}
	}

	if parentIsPartitioned {
		ctx.DynamicScans = append(ctx.DynamicScans, &plancontext.DynamicScanInfo{
			ParentOID: parentOID,
			RTIndex:   rti,
			Children:  childRelids,
			ScanID:    len(ctx.DynamicScans) + 1,
		})
	}

	// If every candidate was filtered out, pretend this is not a hierarchy.
	// The duplicate entries added above are harmless.
	if len(appinfos) < 1 {
		rte.Inh = false
		return nil
	}

	ctx.AppendRelList = append(ctx.AppendRelList, appinfos...)
	return nil
}

// makeTranslation builds the per-column translation array from parent to
// child. Columns are matched by position first, then by name; for paranoia's
// sake type, typmod and collation must match exactly.
func makeTranslation(parentRel, childRel catalog.Relation, childRTI tree.RelIndex) ([]tree.Expr, error) {
	parentCols := parentRel.Columns()
	childCols := childRel.Columns()
	vars := make([]tree.Expr, 0, len(parentCols))

	for parentAttno, att := range parentCols {
		if att.Dropped {
			// Dropped parent columns keep their slot so column numbers stay
			// aligned; the slot itself is empty.
			vars = append(vars, nil)
			continue
		}

		// The parent as a member of its own hierarchy needs no search.
		if parentRel.OID() == childRel.OID() {
			vars = append(vars, &tree.Var{
				RelID:     childRTI,
				Col:       parentAttno + 1,
				Type:      att.Type,
				Typmod:    att.Typmod,
				Collation: att.Collation,
			})
			continue
		}

		childAttno := -1
		if parentAttno < len(childCols) &&
			!childCols[parentAttno].Dropped &&
			childCols[parentAttno].Name == att.Name {
			childAttno = parentAttno
		} else {
			for i, cc := range childCols {
				if !cc.Dropped && cc.Name == att.Name {
					childAttno = i
					break
				}
			}
			if childAttno < 0 {
				return nil, sterrors.ST09001("could not find inherited attribute %q of relation %q",
					att.Name, childRel.Name())
			}
		}

		cc := childCols[childAttno]
		if att.Type != cc.Type || att.Typmod != cc.Typmod {
			return nil, sterrors.ST09001("attribute %q of relation %q does not match parent's type",
				att.Name, childRel.Name())
		}
		if att.Collation != cc.Collation {
			return nil, sterrors.ST09001("attribute %q of relation %q does not match parent's collation",
				att.Name, childRel.Name())
		}

		vars = append(vars, &tree.Var{
			RelID:     childRTI,
			Col:       childAttno + 1,
			Type:      att.Type,
			Typmod:    att.Typmod,
			Collation: att.Collation,
		})
	}
	return vars, nil
}

// translateColPrivs remaps a per-column privilege set from the parent's
// numbering to the child's. A parent whole-row bit is not turned into a
// child whole-row bit - that would demand permission on every child column,
// which is stricter than what the query asked for - but fans out to the
// per-column bits of all live translated columns.
func translateColPrivs(parentPrivs tree.Bitset, translatedVars []tree.Expr) tree.Bitset {
	wholeRow := parentPrivs.Contains(0)
	var childPrivs tree.Bitset
	for attno, e := range translatedVars {
		if e == nil {
			continue
		}
		v, ok := e.(*tree.Var)
		if !ok {
			continue
		}
		if wholeRow || parentPrivs.Contains(attno+1) {
			childPrivs = childPrivs.With(v.Col)
		}
	}
	return childPrivs
}
