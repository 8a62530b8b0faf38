package apply

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resurface/internal/diag"
	"resurface/internal/rewrite"
	"resurface/internal/source"
)

func TestApply_EmptyOutputIsByteIdentical(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.rs", []byte("fn main() {}\n"))
	fs.AddVirtual("b.rs", []byte("static X: i32 = 0;\n"))

	bag := diag.NewBag(10)
	results, err := Apply(context.Background(), fs, rewrite.NewOutput(),
		Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, res := range results {
		orig := fs.Get(res.FileID).Content
		if !bytes.Equal(res.Content, orig) {
			t.Errorf("%s: content changed with no rewrites", res.Path)
		}
		if res.Changed || res.EditCount != 0 {
			t.Errorf("%s: Changed=%v EditCount=%d, want untouched", res.Path, res.Changed, res.EditCount)
		}
	}
	if bag.Len() != 2 {
		t.Errorf("bag.Len() = %d, want one verbatim note per file", bag.Len())
	}
}

func TestApply_SplicesWholeFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("cell.rs", []byte("f.y = x;\nx = f.y;\nz = 1;\n"))

	rhs1 := source.Span{File: id, Start: 6, End: 7}   // x
	rhs2 := source.Span{File: id, Start: 13, End: 16} // f.y

	out := rewrite.NewOutput()
	out.Set(rhs1, rewrite.MethodCall("as_ptr", rewrite.Identity()))
	out.Set(rhs2, rewrite.Ref(rewrite.MutNot,
		rewrite.Deref(rewrite.Cast(rewrite.Identity(), "*const std::cell::Cell<i32>"))))

	results, err := Apply(context.Background(), fs, out, Options{Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}

	want := "f.y = (x).as_ptr();\nx = &*((f.y) as *const std::cell::Cell<i32>);\nz = 1;\n"
	if got := string(results[0].Content); got != want {
		t.Errorf("content =\n%q\nwant\n%q", got, want)
	}
	if results[0].EditCount != 2 || !results[0].Changed {
		t.Errorf("EditCount=%d Changed=%v, want 2 edits", results[0].EditCount, results[0].Changed)
	}
}

func TestApply_IdentityIsNoChange(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("id.rs", []byte("let y = x;\n"))

	out := rewrite.NewOutput()
	out.Set(source.Span{File: id, Start: 8, End: 9}, rewrite.Identity())

	results, err := Apply(context.Background(), fs, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(results[0].Content); got != "let y = x;\n" {
		t.Errorf("content = %q, identity must not introduce text", got)
	}
	if results[0].Changed {
		t.Error("Changed = true for an identity-only output")
	}
}

func TestApply_OverlappingSpansFault(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.rs", []byte("abcdefgh\n"))

	out := rewrite.NewOutput()
	out.Set(source.Span{File: id, Start: 0, End: 5}, rewrite.Text("one"))
	out.Set(source.Span{File: id, Start: 3, End: 8}, rewrite.Text("two"))

	results, err := Apply(context.Background(), fs, out, Options{})
	if err == nil {
		t.Fatal("expected an overlap fault")
	}
	if !strings.Contains(err.Error(), "overlap") {
		t.Errorf("err = %v, want span overlap named", err)
	}
	if results != nil {
		t.Error("results returned despite the fault")
	}
}

func TestApply_FilesAreIndependent(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.rs", []byte("q = p;\n"))
	b := fs.AddVirtual("b.rs", []byte("r = s;\n"))

	out := rewrite.NewOutput()
	out.Set(source.Span{File: a, Start: 4, End: 5}, rewrite.Cast(rewrite.Identity(), "usize"))
	out.Set(source.Span{File: b, Start: 4, End: 5}, rewrite.Deref(rewrite.Identity()))

	results, err := Apply(context.Background(), fs, out, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(results[0].Content); got != "q = (p) as usize;\n" {
		t.Errorf("a.rs = %q", got)
	}
	if got := string(results[1].Content); got != "r = *(s);\n" {
		t.Errorf("b.rs = %q", got)
	}
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	virt := fs.AddVirtual("stdin.rs", []byte("x\n"))

	results := []FileResult{
		{FileID: id, Path: path, Content: []byte("new\n"), EditCount: 1, Changed: true},
		{FileID: virt, Path: "stdin.rs", Content: []byte("y\n"), EditCount: 1, Changed: true},
	}

	stats, err := WriteResults(fs, results, WriteOptions{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Written != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 written, virtual skipped", stats)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("on-disk content = %q, want %q", got, "new\n")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want original 0600 preserved", info.Mode().Perm())
	}
}

func TestWriteResults_OutputDir(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	changedPath := filepath.Join(srcDir, "src", "a.rs")
	untouchedPath := filepath.Join(srcDir, "b.rs")
	if err := os.WriteFile(changedPath, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(untouchedPath, []byte("same\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := source.NewFileSetWithBase(srcDir)
	a, err := fs.Load(changedPath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fs.Load(untouchedPath)
	if err != nil {
		t.Fatal(err)
	}

	results := []FileResult{
		{FileID: a, Path: changedPath, Content: []byte("new\n"), EditCount: 1, Changed: true},
		{FileID: b, Path: untouchedPath, Content: []byte("same\n")},
	}

	stats, err := WriteResults(fs, results, WriteOptions{Dir: outDir, BaseDir: srcDir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Written != 2 {
		t.Errorf("stats = %+v, want the full tree written", stats)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "src", "a.rs"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("rewritten copy = %q", got)
	}
	if got, err := os.ReadFile(filepath.Join(outDir, "b.rs")); err != nil || string(got) != "same\n" {
		t.Errorf("untouched copy = %q, %v", got, err)
	}
	if got, _ := os.ReadFile(changedPath); string(got) != "old\n" {
		t.Errorf("original modified in output-dir mode: %q", got)
	}
}
