package unlower

import (
	"sort"

	"resurface/internal/source"
)

// spanIndex answers "smallest surface expression fully containing this
// span" queries. Expressions are bucketed per file and sorted by start
// offset; a query scans only the candidates whose start does not exceed the
// query start.
type spanIndex struct {
	byFile map[source.FileID][]Expr
}

func newSpanIndex(exprs []Expr) *spanIndex {
	idx := &spanIndex{byFile: make(map[source.FileID][]Expr)}
	for _, e := range exprs {
		idx.byFile[e.Span.File] = append(idx.byFile[e.Span.File], e)
	}
	for _, bucket := range idx.byFile {
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Span.Start != bucket[j].Span.Start {
				return bucket[i].Span.Start < bucket[j].Span.Start
			}
			return bucket[i].Span.End < bucket[j].Span.End
		})
	}
	return idx
}

// innermost returns the smallest expression whose span fully contains query.
// Ties on length resolve to the later-starting expression, which is the more
// deeply nested one.
func (idx *spanIndex) innermost(query source.Span) (Expr, bool) {
	bucket := idx.byFile[query.File]
	// candidates must start at or before the query
	limit := sort.Search(len(bucket), func(i int) bool {
		return bucket[i].Span.Start > query.Start
	})

	var best Expr
	found := false
	for i := 0; i < limit; i++ {
		e := bucket[i]
		if !e.Span.Contains(query) {
			continue
		}
		if !found || e.Span.Len() < best.Span.Len() ||
			(e.Span.Len() == best.Span.Len() && e.Span.Start > best.Span.Start) {
			best = e
			found = true
		}
	}
	return best, found
}
