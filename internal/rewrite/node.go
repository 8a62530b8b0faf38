package rewrite

import (
	"resurface/internal/source"
)

// Mutability distinguishes shared from mutable forms of refs, raw pointers
// and statics.
type Mutability uint8

const (
	MutNot Mutability = iota
	MutMut
)

func (m Mutability) String() string {
	if m == MutMut {
		return "mut"
	}
	return "not"
}

// Lifetime names a reference lifetime. The zero value is the elided lifetime.
type Lifetime struct {
	Name string
}

// Elided is the absent lifetime.
var Elided = Lifetime{}

func Explicit(name string) Lifetime { return Lifetime{Name: name} }

// NodeKind tags the variant held by a Node.
type NodeKind uint8

const (
	// Expression builders
	KindIdentity NodeKind = iota
	KindSub
	KindText
	KindExtract
	KindRef
	KindAddrOf
	KindDeref
	KindIndex
	KindSliceRange
	KindCast
	KindRemovedCast
	KindLitZero
	KindCall
	KindMethodCall
	KindBlock
	KindLet

	// Type builders
	KindPrint
	KindTyPtr
	KindTyRef
	KindTySlice
	KindTyCtor
	KindGenericParams

	// Static builders
	KindStaticMut

	// Fn builders
	KindDefineFn
	KindFnArg
)

var kindNames = map[NodeKind]string{
	KindIdentity:      "Identity",
	KindSub:           "Sub",
	KindText:          "Text",
	KindExtract:       "Extract",
	KindRef:           "Ref",
	KindAddrOf:        "AddrOf",
	KindDeref:         "Deref",
	KindIndex:         "Index",
	KindSliceRange:    "SliceRange",
	KindCast:          "Cast",
	KindRemovedCast:   "RemovedCast",
	KindLitZero:       "LitZero",
	KindCall:          "Call",
	KindMethodCall:    "MethodCall",
	KindBlock:         "Block",
	KindLet:           "Let",
	KindPrint:         "Print",
	KindTyPtr:         "TyPtr",
	KindTyRef:         "TyRef",
	KindTySlice:       "TySlice",
	KindTyCtor:        "TyCtor",
	KindGenericParams: "GenericParams",
	KindStaticMut:     "StaticMut",
	KindDefineFn:      "DefineFn",
	KindFnArg:         "FnArg",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Binding is one name/value pair of a Let.
type Binding struct {
	Name  string
	Value *Node
}

// Node describes how to produce the replacement text for one span. Nodes are
// immutable once constructed; composition only builds new nodes. The fields
// in use depend on the kind; constructors are the only supported way to
// obtain a Node.
type Node struct {
	kind NodeKind

	index    int           // Sub, FnArg
	span     source.Span   // Sub, Extract, StaticMut
	text     string        // Text, Cast type, Call/MethodCall name, Print, TyCtor name, DefineFn name
	mut      Mutability    // Ref, AddrOf, TyPtr, TyRef, StaticMut
	lifetime Lifetime      // TyRef
	inner    *Node         // unary operand, Index array, MethodCall receiver, Block tail, SliceRange array, TyPtr/TyRef/TySlice element, DefineFn body
	second   *Node         // Index index, SliceRange low
	third    *Node         // SliceRange high
	list     []*Node       // Call/MethodCall args, Block stmts, TyCtor/GenericParams args, DefineFn arg types
	ret      *Node         // DefineFn return type
	bindings []Binding     // Let
}

// Kind returns the variant tag.
func (n *Node) Kind() NodeKind { return n.kind }

// Identity keeps the original expression unchanged. It is the neutral value
// of the model.
func Identity() *Node { return &Node{kind: KindIdentity} }

// Sub substitutes the index-th positional child of the enclosing context.
// The span locates the child's text in the original source; the index is
// meaningful only relative to the owning expression.
func Sub(index int, span source.Span) *Node {
	return &Node{kind: KindSub, index: index, span: span}
}

// Text emits fixed literal text.
func Text(text string) *Node { return &Node{kind: KindText, text: text} }

// Extract copies verbatim original text from span, which need not be the
// node's own span.
func Extract(span source.Span) *Node { return &Node{kind: KindExtract, span: span} }

// Ref builds `&e` or `&mut e`.
func Ref(mut Mutability, inner *Node) *Node {
	return &Node{kind: KindRef, mut: mut, inner: inner}
}

// AddrOf builds `core::ptr::addr_of!(e)` or `core::ptr::addr_of_mut!(e)`.
func AddrOf(mut Mutability, inner *Node) *Node {
	return &Node{kind: KindAddrOf, mut: mut, inner: inner}
}

// Deref builds `*e`.
func Deref(inner *Node) *Node { return &Node{kind: KindDeref, inner: inner} }

// Index builds `arr[idx]`.
func Index(arr, idx *Node) *Node {
	return &Node{kind: KindIndex, inner: arr, second: idx}
}

// SliceRange builds `arr[lo..hi]`; lo and hi may be nil.
func SliceRange(arr, lo, hi *Node) *Node {
	return &Node{kind: KindSliceRange, inner: arr, second: lo, third: hi}
}

// Cast builds `e as T` with T given as literal type text.
func Cast(inner *Node, typeText string) *Node {
	return &Node{kind: KindCast, inner: inner, text: typeText}
}

// RemovedCast marks a cast as elided. It renders exactly as inner, but the
// node keeps existing so later rewrites can still target the position where
// the cast used to be.
func RemovedCast(inner *Node) *Node {
	return &Node{kind: KindRemovedCast, inner: inner}
}

// LitZero is the integer literal `0`.
func LitZero() *Node { return &Node{kind: KindLitZero} }

// Call builds `name(args...)`.
func Call(name string, args ...*Node) *Node {
	return &Node{kind: KindCall, text: name, list: args}
}

// MethodCall builds `recv.name(args...)`.
func MethodCall(name string, recv *Node, args ...*Node) *Node {
	return &Node{kind: KindMethodCall, text: name, inner: recv, list: args}
}

// Block is a sequence of statements followed by an optional tail expression.
// A semicolon is inserted after each statement, none after the tail.
func Block(stmts []*Node, tail *Node) *Node {
	return &Node{kind: KindBlock, list: stmts, inner: tail}
}

// Let is a multi-variable binding like `let (x, y) = (v0, v1)`, without a
// trailing semicolon. The bindings are not hygienic: an Identity or Sub
// placed later in the same scope would read the rebound names, so block
// construction rejects that shape (see BlockBuilder).
func Let(bindings []Binding) *Node {
	return &Node{kind: KindLet, bindings: bindings}
}

// Print emits a complete pretty-printed type, discarding the original
// annotation.
func Print(typeText string) *Node { return &Node{kind: KindPrint, text: typeText} }

// TyPtr builds `*const T` or `*mut T`.
func TyPtr(mut Mutability, inner *Node) *Node {
	return &Node{kind: KindTyPtr, mut: mut, inner: inner}
}

// TyRef builds `&T`, `&mut T`, `&'a T` or `&'a mut T`.
func TyRef(lifetime Lifetime, inner *Node, mut Mutability) *Node {
	return &Node{kind: KindTyRef, lifetime: lifetime, inner: inner, mut: mut}
}

// TySlice builds `[T]`.
func TySlice(inner *Node) *Node { return &Node{kind: KindTySlice, inner: inner} }

// TyCtor builds `Name<T1, T2, ...>`.
func TyCtor(name string, args ...*Node) *Node {
	return &Node{kind: KindTyCtor, text: name, list: args}
}

// GenericParams builds `<T1, T2, ...>` alone, for the cases where the span
// of a type name differs from the span of its parameter list.
func GenericParams(args ...*Node) *Node {
	return &Node{kind: KindGenericParams, list: args}
}

// StaticMut toggles `static` mutability. The span covers the declaration
// text following the qualifier.
func StaticMut(mut Mutability, span source.Span) *Node {
	return &Node{kind: KindStaticMut, mut: mut, span: span}
}

// DefineFn defines a wrapper function. returnTy may be nil.
func DefineFn(name string, argTys []*Node, returnTy *Node, body *Node) *Node {
	return &Node{kind: KindDefineFn, text: name, list: argTys, ret: returnTy, inner: body}
}

// FnArg emits the name of a generated function argument. Only valid inside
// the body of a DefineFn.
func FnArg(index int) *Node { return &Node{kind: KindFnArg, index: index} }

// Equal reports structural equality of two nodes.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind ||
		n.index != other.index ||
		n.span != other.span ||
		n.text != other.text ||
		n.mut != other.mut ||
		n.lifetime != other.lifetime {
		return false
	}
	if !n.inner.Equal(other.inner) || !n.second.Equal(other.second) ||
		!n.third.Equal(other.third) || !n.ret.Equal(other.ret) {
		return false
	}
	if len(n.list) != len(other.list) || len(n.bindings) != len(other.bindings) {
		return false
	}
	for i := range n.list {
		if !n.list[i].Equal(other.list[i]) {
			return false
		}
	}
	for i := range n.bindings {
		if n.bindings[i].Name != other.bindings[i].Name ||
			!n.bindings[i].Value.Equal(other.bindings[i].Value) {
			return false
		}
	}
	return true
}

// RefersToOriginal reports whether the node or any descendant reads the
// original expression text through Identity or Sub. Such nodes become
// invalid after a Let rebinding in the same scope.
func (n *Node) RefersToOriginal() bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case KindIdentity, KindSub:
		return true
	}
	if n.inner.RefersToOriginal() || n.second.RefersToOriginal() ||
		n.third.RefersToOriginal() || n.ret.RefersToOriginal() {
		return true
	}
	for _, c := range n.list {
		if c.RefersToOriginal() {
			return true
		}
	}
	for _, b := range n.bindings {
		if b.Value.RefersToOriginal() {
			return true
		}
	}
	return false
}
