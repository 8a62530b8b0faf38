package rewrite

import (
	"testing"

	"resurface/internal/source"
)

func TestOutput_SetIdenticalCoalesces(t *testing.T) {
	o := NewOutput()
	span := source.Span{File: 0, Start: 4, End: 9}
	o.Set(span, Ref(MutNot, Identity()))
	o.Set(span, Ref(MutNot, Identity()))
	if o.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", o.Len())
	}
}

func TestOutput_SetConflictPanics(t *testing.T) {
	o := NewOutput()
	span := source.Span{File: 0, Start: 4, End: 9}
	o.Set(span, Ref(MutNot, Identity()))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for conflicting nodes on one span")
		}
	}()
	o.Set(span, Deref(Identity()))
}

func TestOutput_MergeSiblingGenerators(t *testing.T) {
	exprs := NewOutput()
	exprs.Set(source.Span{File: 0, Start: 4, End: 9}, MethodCall("as_ptr", Identity()))

	types := NewOutput()
	types.Set(source.Span{File: 0, Start: 20, End: 28}, TyRef(Elided, Print("S"), MutMut))
	types.Set(source.Span{File: 1, Start: 0, End: 6}, StaticMut(MutMut, source.Span{File: 1, Start: 0, End: 6}))

	exprs.Merge(types)
	if exprs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", exprs.Len())
	}

	spans := exprs.Spans()
	want := []source.Span{
		{File: 0, Start: 4, End: 9},
		{File: 0, Start: 20, End: 28},
		{File: 1, Start: 0, End: 6},
	}
	for i, sp := range want {
		if spans[i] != sp {
			t.Errorf("Spans()[%d] = %v, want %v", i, spans[i], sp)
		}
	}

	byFile := exprs.SpansByFile()
	if len(byFile[0]) != 2 || len(byFile[1]) != 1 {
		t.Errorf("SpansByFile() sizes = %d/%d, want 2/1", len(byFile[0]), len(byFile[1]))
	}
}
