// Package distribute attributes mid-level edit requests to the surface
// expressions that own them and merges every group into exactly one rewrite
// node per rewritten span.
package distribute

import (
	"fmt"
	"sort"

	"resurface/internal/diag"
	"resurface/internal/mirop"
	"resurface/internal/rewrite"
	"resurface/internal/source"
	"resurface/internal/unlower"
)

// Options configures a distribution run.
type Options struct {
	// Reporter receives warnings for dropped requests. Nil discards them.
	Reporter diag.Reporter
}

// Stats summarises one distribution run.
type Stats struct {
	Attributed int
	Dropped    int
}

type group struct {
	owner    unlower.Expr
	requests []mirop.Request
}

// Distribute consumes the full request stream exactly once and produces one
// node per rewritten expression span.
//
// Requests whose location has no surface owner arise purely inside
// compiler-introduced scaffolding; they are dropped with a warning and the
// run continues with a partially rewritten, still useful result. Conflicts
// past that point are distributor defects and fail loudly.
func Distribute(requests []mirop.Request, table *unlower.Table, opts Options) (*rewrite.Output, Stats) {
	var stats Stats

	groups := make(map[unlower.ExprID]*group)
	order := make([]unlower.ExprID, 0, len(requests))

	for _, req := range requests {
		if !req.Kind.Known() {
			stats.Dropped++
			origin, _ := table.Origin(req.Loc)
			diag.Warn(opts.Reporter, diag.DstDroppedKind, origin,
				fmt.Sprintf("dropping %s edit at %s: kind not supported by this build", req.Kind, req.Loc))
			continue
		}
		owner, ok := table.Resolve(req.Loc)
		if !ok {
			stats.Dropped++
			warnUnattributed(opts.Reporter, table, req)
			continue
		}
		stats.Attributed++

		g, seen := groups[owner.ID]
		if !seen {
			g = &group{owner: owner}
			groups[owner.ID] = g
			order = append(order, owner.ID)
		}
		g.requests = append(g.requests, req)
	}

	out := rewrite.NewOutput()
	nodes := make(map[source.Span]*rewrite.Node, len(groups))
	for _, id := range order {
		g := groups[id]
		node := rewrite.Identity()
		for _, req := range g.requests {
			node = convertOne(node, req, g.owner)
		}
		if existing, ok := nodes[g.owner.Span]; ok && !existing.Equal(node) {
			// correct innermost-wins grouping makes this impossible
			panic(fmt.Sprintf("distribute: two nodes claim span %s: %s vs %s",
				g.owner.Span, existing, node))
		}
		nodes[g.owner.Span] = node
	}

	foldNested(nodes)

	for span, node := range nodes {
		out.Set(span, node)
	}
	return out, stats
}

// warnUnattributed reports a dropped request. When the location at least
// has an origin span, that span is attached as a note: the request came
// from compiler scaffolding near there, not from nowhere.
func warnUnattributed(rep diag.Reporter, table *unlower.Table, req mirop.Request) {
	if rep == nil {
		return
	}
	origin, hasOrigin := table.Origin(req.Loc)
	msg := fmt.Sprintf("dropping %s edit at %s: no owning surface expression", req.Kind, req.Loc)
	var notes []diag.Note
	if hasOrigin {
		notes = []diag.Note{{Span: origin, Msg: "location lowers to scaffolding around here"}}
	}
	rep.Report(diag.DstUnattributedEdit, diag.SevWarning, origin, msg, notes)
}

// foldNested resolves proper nesting among rewritten owner spans: an inner
// rewritten expression folds into the positional Sub slot its enclosing
// rewrite left for it, so the final output never carries two top-level
// entries for overlapping spans. An enclosure with no slot for its rewritten
// child means the grouping stage misattributed a request; that is a defect,
// not bad input.
func foldNested(nodes map[source.Span]*rewrite.Node) {
	spans := make([]source.Span, 0, len(nodes))
	for span := range nodes {
		spans = append(spans, span)
	}
	// widest first, so multi-level nesting folds outside-in
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].File != spans[j].File {
			return spans[i].File < spans[j].File
		}
		if spans[i].Len() != spans[j].Len() {
			return spans[i].Len() > spans[j].Len()
		}
		return spans[i].Start < spans[j].Start
	})

	for i, outer := range spans {
		for _, inner := range spans[i+1:] {
			if inner == outer || !outer.Contains(inner) {
				continue
			}
			outerNode, ok := nodes[outer]
			if !ok {
				continue
			}
			innerNode, ok := nodes[inner]
			if !ok {
				continue
			}
			folded, replaced := rewrite.SubstituteSub(outerNode, inner, innerNode)
			if !replaced {
				panic(fmt.Sprintf(
					"distribute: rewritten span %s nests inside %s without a positional slot",
					inner, outer))
			}
			nodes[outer] = folded
			delete(nodes, inner)
		}
	}
}
