// Package mirop defines the edit requests handed over by the upstream
// pointer/permission analysis. A request names one location in a function's
// mid-level representation and one abstract transformation; turning requests
// into concrete source edits is the job of internal/distribute.
package mirop

import "fmt"

// Loc identifies one statement or operand position inside one specific
// function's mid-level representation. It is an opaque key, not a text
// position; internal/unlower maps it back to surface syntax.
type Loc struct {
	Fn    string // stable function key
	Block uint32
	Stmt  uint32
}

func (l Loc) String() string {
	return fmt.Sprintf("%s/bb%d[%d]", l.Fn, l.Block, l.Stmt)
}

// Kind is the abstract transformation requested for a location.
type Kind uint8

const (
	// KindAddCast wraps the operand in a cast to Request.Type.
	KindAddCast Kind = iota
	// KindRemoveCast elides a redundant cast while keeping its position
	// targetable by later rewrites.
	KindRemoveCast
	// KindPtrOffsetDeref replaces a raw-pointer operand with an
	// offset-then-dereference sequence.
	KindPtrOffsetDeref
	// KindAddrOfWrap extracts the address of an interior-mutability-wrapped
	// value via its as_ptr-style accessor.
	KindAddrOfWrap
	// KindRefFromRaw re-wraps a raw pointer as a reference: `&*(e as T)`.
	KindRefFromRaw
	// KindSetStaticMut changes a static's mutability qualifier.
	KindSetStaticMut
)

var kindNames = map[Kind]string{
	KindAddCast:        "add-cast",
	KindRemoveCast:     "remove-cast",
	KindPtrOffsetDeref: "ptr-offset-deref",
	KindAddrOfWrap:     "addr-of-wrap",
	KindRefFromRaw:     "ref-from-raw",
	KindSetStaticMut:   "set-static-mut",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Known reports whether k is a kind this build understands. A stream from a
// newer producer may carry kinds past the end of the table.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Request is one edit fact produced by the analysis. Immutable once
// produced; consumed exactly once by distribution. The stream order of
// requests for one expression is the original execution order.
type Request struct {
	Loc  Loc
	Kind Kind
	// Type is the target type text for KindAddCast and KindRefFromRaw.
	Type string
	// Mut selects the mutable variant for KindAddrOfWrap and the new
	// qualifier state for KindSetStaticMut.
	Mut bool
}
