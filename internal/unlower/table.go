// Package unlower consumes the unlowering table produced alongside the
// analysis: for a mid-level location, which surface expression owns it, what
// span that expression covers, and where its positional children sit. The
// table is a lookup surface only; building it belongs to the compiler side
// of the toolchain.
package unlower

import (
	"resurface/internal/mirop"
	"resurface/internal/source"
)

// ExprID identifies one surface expression within a run.
type ExprID uint32

// Expr is one surface expression the table knows about. Children are the
// spans of its positional subexpressions, in syntactic order; Sub nodes
// resolve their index against this list.
type Expr struct {
	ID       ExprID
	Span     source.Span
	Children []source.Span
}

// Table maps mid-level locations back to surface syntax. A location first
// resolves to the origin span its statement was lowered from; the owning
// expression is then the smallest surface expression fully containing that
// origin ("innermost wins"), so a change to a subexpression never forces a
// rewrite of its whole enclosing statement.
type Table struct {
	origins map[mirop.Loc]source.Span
	index   *spanIndex
	exprs   map[ExprID]Expr
}

// NewTable builds a lookup table from surface expressions and per-location
// origin spans.
func NewTable(exprs []Expr, origins map[mirop.Loc]source.Span) *Table {
	byID := make(map[ExprID]Expr, len(exprs))
	for _, e := range exprs {
		byID[e.ID] = e
	}
	copied := make(map[mirop.Loc]source.Span, len(origins))
	for loc, span := range origins {
		copied[loc] = span
	}
	return &Table{
		origins: copied,
		index:   newSpanIndex(exprs),
		exprs:   byID,
	}
}

// Origin returns the source span the location's statement was lowered from.
func (t *Table) Origin(loc mirop.Loc) (source.Span, bool) {
	span, ok := t.origins[loc]
	return span, ok
}

// Resolve finds the owning surface expression for a location. The second
// result is false when the location arises purely inside compiler-introduced
// scaffolding with no surface counterpart; callers drop such requests with a
// warning rather than failing the run.
func (t *Table) Resolve(loc mirop.Loc) (Expr, bool) {
	origin, ok := t.origins[loc]
	if !ok {
		return Expr{}, false
	}
	return t.index.innermost(origin)
}

// Expr returns a known expression by ID.
func (t *Table) Expr(id ExprID) (Expr, bool) {
	e, ok := t.exprs[id]
	return e, ok
}

// Len returns the number of locations the table can resolve.
func (t *Table) Len() int {
	return len(t.origins)
}
