package diag

import (
	"testing"

	"resurface/internal/source"
)

func TestDiagnostic_WithNote(t *testing.T) {
	base := Diagnostic{Code: DstUnattributedEdit, Severity: SevWarning}
	spanA := source.Span{File: 0, Start: 1, End: 2}
	spanB := source.Span{File: 0, Start: 3, End: 4}

	d1 := base.WithNote(spanA, "first")
	d2 := base.WithNote(spanB, "second")

	if len(base.Notes) != 0 {
		t.Errorf("base.Notes = %+v, want the original untouched", base.Notes)
	}
	if len(d1.Notes) != 1 || d1.Notes[0].Span != spanA {
		t.Errorf("d1.Notes = %+v", d1.Notes)
	}
	if len(d2.Notes) != 1 || d2.Notes[0].Msg != "second" {
		t.Errorf("d2.Notes = %+v, want independent of d1", d2.Notes)
	}
}

func TestBag_Cap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Code: DstUnattributedEdit, Severity: SevWarning}) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(Diagnostic{Code: DstUnattributedEdit, Severity: SevWarning}) {
		t.Fatal("second Add rejected")
	}
	if b.Add(Diagnostic{Code: DstUnattributedEdit, Severity: SevWarning}) {
		t.Fatal("Add over cap accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	b := NewBag(10)
	spanA := source.Span{File: 0, Start: 20, End: 25}
	spanB := source.Span{File: 0, Start: 5, End: 10}

	b.Add(Diagnostic{Severity: SevWarning, Code: DstUnattributedEdit, Primary: spanA})
	b.Add(Diagnostic{Severity: SevError, Code: IOWriteFileError, Primary: spanB})
	b.Add(Diagnostic{Severity: SevWarning, Code: DstUnattributedEdit, Primary: spanA})

	b.Sort()
	items := b.Items()
	if items[0].Primary != spanB {
		t.Errorf("Sort() first = %+v, want span %v", items[0], spanB)
	}

	b.Dedup()
	if b.Len() != 2 {
		t.Errorf("Dedup() left %d items, want 2", b.Len())
	}
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(Diagnostic{Severity: SevWarning, Code: DstUnattributedEdit})
	if b.HasErrors() {
		t.Error("HasErrors() = true for warnings only")
	}
	if !b.HasWarnings() {
		t.Error("HasWarnings() = false")
	}
	b.Add(Diagnostic{Severity: SevError, Code: IOLoadFileError})
	if !b.HasErrors() {
		t.Error("HasErrors() = false after error added")
	}
}

func TestCode_ID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{DecSchemaVersion, "DEC1000"},
		{DstUnattributedEdit, "DST2000"},
		{AplEmptyOutput, "APL3000"},
		{IOWriteFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("ID(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
