package rewrite

import (
	"fmt"
	"sort"

	"resurface/internal/source"
)

// Output is the deliverable of distribution: exactly one node per rewritten
// span, across any number of files. It exists only between pipeline stages
// and is never persisted.
type Output struct {
	entries map[source.Span]*Node
}

func NewOutput() *Output {
	return &Output{entries: make(map[source.Span]*Node)}
}

// Set records node as the rewrite for span. Setting the same span twice is
// allowed only when both nodes are structurally equal; anything else means a
// distribution defect upstream and fails loudly, never picks one silently.
func (o *Output) Set(span source.Span, node *Node) {
	if node == nil {
		panic(fmt.Sprintf("rewrite: nil node for span %s", span))
	}
	if existing, ok := o.entries[span]; ok {
		if !existing.Equal(node) {
			panic(fmt.Sprintf("rewrite: conflicting nodes for span %s: %s vs %s",
				span, existing, node))
		}
		return
	}
	o.entries[span] = node
}

// Get returns the node recorded for span.
func (o *Output) Get(span source.Span) (*Node, bool) {
	n, ok := o.entries[span]
	return n, ok
}

func (o *Output) Len() int {
	return len(o.entries)
}

// Merge folds other into o under the same one-span-one-node rule. Sibling
// generators (type, static and shim rewrites) join the expression rewrites
// this way.
func (o *Output) Merge(other *Output) {
	if other == nil {
		return
	}
	for span, node := range other.entries {
		o.Set(span, node)
	}
}

// Spans returns every rewritten span ordered by file, start, end.
func (o *Output) Spans() []source.Span {
	spans := make([]source.Span, 0, len(o.entries))
	for span := range o.entries {
		spans = append(spans, span)
	}
	sortSpans(spans)
	return spans
}

// SpansByFile groups the rewritten spans per file, each group ordered by
// start offset.
func (o *Output) SpansByFile() map[source.FileID][]source.Span {
	byFile := make(map[source.FileID][]source.Span)
	for span := range o.entries {
		byFile[span.File] = append(byFile[span.File], span)
	}
	for _, spans := range byFile {
		sortSpans(spans)
	}
	return byFile
}

func sortSpans(spans []source.Span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].File != spans[j].File {
			return spans[i].File < spans[j].File
		}
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
}
