package unlower

import (
	"bytes"
	"testing"

	"resurface/internal/mirop"
	"resurface/internal/source"
)

// Layout used below, offsets into one imaginary file:
//
//	0        10        20        30
//	|---------- stmt ----------|
//	     |---- expr ----|
//	         |- sub -|
func testExprs() []Expr {
	return []Expr{
		{ID: 1, Span: source.Span{File: 0, Start: 0, End: 27}},
		{ID: 2, Span: source.Span{File: 0, Start: 5, End: 20}, Children: []source.Span{
			{File: 0, Start: 9, End: 17},
		}},
		{ID: 3, Span: source.Span{File: 0, Start: 9, End: 17}},
	}
}

func TestTable_ResolveInnermostWins(t *testing.T) {
	origins := map[mirop.Loc]source.Span{
		{Fn: "f", Block: 0, Stmt: 0}: {File: 0, Start: 10, End: 12},
		{Fn: "f", Block: 0, Stmt: 1}: {File: 0, Start: 6, End: 19},
		{Fn: "f", Block: 0, Stmt: 2}: {File: 0, Start: 1, End: 3},
	}
	table := NewTable(testExprs(), origins)

	tests := []struct {
		name string
		loc  mirop.Loc
		want ExprID
	}{
		{"origin inside nested sub", mirop.Loc{Fn: "f", Block: 0, Stmt: 0}, 3},
		{"origin spanning most of expr", mirop.Loc{Fn: "f", Block: 0, Stmt: 1}, 2},
		{"origin only inside stmt", mirop.Loc{Fn: "f", Block: 0, Stmt: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := table.Resolve(tt.loc)
			if !ok {
				t.Fatal("Resolve() found nothing")
			}
			if expr.ID != tt.want {
				t.Errorf("Resolve() = expr %d, want %d", expr.ID, tt.want)
			}
		})
	}
}

func TestTable_ResolveUnknownLocation(t *testing.T) {
	table := NewTable(testExprs(), nil)
	if _, ok := table.Resolve(mirop.Loc{Fn: "g", Block: 7, Stmt: 0}); ok {
		t.Error("Resolve() succeeded for unknown location")
	}
}

func TestTable_ResolveScaffoldingOrigin(t *testing.T) {
	// origin exists but no surface expression contains it
	origins := map[mirop.Loc]source.Span{
		{Fn: "f", Block: 9, Stmt: 0}: {File: 0, Start: 100, End: 104},
	}
	table := NewTable(testExprs(), origins)
	if _, ok := table.Resolve(mirop.Loc{Fn: "f", Block: 9, Stmt: 0}); ok {
		t.Error("Resolve() attributed a scaffolding-only origin")
	}
}

func TestTable_RoundTrip(t *testing.T) {
	origins := map[mirop.Loc]source.Span{
		{Fn: "f", Block: 0, Stmt: 0}: {File: 0, Start: 10, End: 12},
	}
	var buf bytes.Buffer
	if err := EncodeTable(&buf, testExprs(), origins); err != nil {
		t.Fatal(err)
	}
	table, err := DecodeTable(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	expr, ok := table.Resolve(mirop.Loc{Fn: "f", Block: 0, Stmt: 0})
	if !ok || expr.ID != 3 {
		t.Errorf("Resolve() after round trip = %+v ok=%v, want expr 3", expr, ok)
	}
	if e2, ok := table.Expr(2); !ok || len(e2.Children) != 1 {
		t.Errorf("Expr(2) = %+v ok=%v, want one child", e2, ok)
	}
}

func TestDecodeTable_BadSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeTable(&buf, nil, nil); err != nil {
		t.Fatal(err)
	}
	// EncodeStream and EncodeTable share the leading schema field; decoding
	// a request stream as a table must fail on the payload, not misread it.
	if _, err := DecodeTable(bytes.NewReader([]byte{0xc0})); err == nil {
		t.Error("DecodeTable() accepted a nil payload")
	}
}
