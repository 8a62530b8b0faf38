package rewrite

import "fmt"

// Prec is the binding strength of a node's top-level operator. A child is
// parenthesized exactly when its own strength is below what its position in
// the parent requires. Silent omission of parentheses is the worst failure
// mode of this engine, so the table is total over all kinds and a missing
// entry is a hard fault, never a default.
type Prec uint8

const (
	// PrecLowest marks positions that accept any expression unparenthesized:
	// call arguments, index operands inside brackets, statement slots.
	PrecLowest Prec = iota
	// PrecCast is the strength of `e as T`.
	PrecCast
	// PrecPrefix is the strength of the unary prefix operators `&` and `*`.
	PrecPrefix
	// PrecPostfix is the strength of indexing, slicing and method calls.
	PrecPostfix
	// PrecAtom marks self-delimiting forms that never need parentheses.
	PrecAtom
)

// operandPrec maps each kind to the strength of its top-level operator.
// RemovedCast is deliberately absent: it has no operator of its own and
// renders as its inner node (see nodePrec).
var operandPrec = map[NodeKind]Prec{
	KindIdentity:      PrecAtom,
	KindSub:           PrecAtom,
	KindText:          PrecAtom,
	KindExtract:       PrecAtom,
	KindRef:           PrecPrefix,
	KindAddrOf:        PrecAtom, // macro call, self-delimiting
	KindDeref:         PrecPrefix,
	KindIndex:         PrecPostfix,
	KindSliceRange:    PrecPostfix,
	KindCast:          PrecCast,
	KindLitZero:       PrecAtom,
	KindCall:          PrecAtom,
	KindMethodCall:    PrecPostfix,
	KindBlock:         PrecAtom,
	KindLet:           PrecLowest,

	// Type, static and fn builders never occur in expression operand
	// positions; they render in contexts without expression grouping.
	KindPrint:         PrecAtom,
	KindTyPtr:         PrecAtom,
	KindTyRef:         PrecAtom,
	KindTySlice:       PrecAtom,
	KindTyCtor:        PrecAtom,
	KindGenericParams: PrecAtom,
	KindStaticMut:     PrecAtom,
	KindDefineFn:      PrecAtom,
	KindFnArg:         PrecAtom,
}

// nodePrec resolves the table strength of a node. It panics on a kind with
// no precedence rule.
func nodePrec(n *Node) Prec {
	if n.kind == KindRemovedCast {
		// the cast is textually gone; the inner operator decides
		return nodePrec(n.inner)
	}
	p, ok := operandPrec[n.kind]
	if !ok {
		panic(fmt.Sprintf("rewrite: no precedence rule for %s", n.kind))
	}
	return p
}

// effectivePrec is nodePrec with the sink's view of copied expression text
// layered on top: Identity and Sub are as strong as whatever the sink emits
// for them.
func effectivePrec(n *Node, sink Sink) Prec {
	switch n.kind {
	case KindIdentity, KindSub:
		return sink.ExprPrec()
	case KindRemovedCast:
		return effectivePrec(n.inner, sink)
	}
	return nodePrec(n)
}
