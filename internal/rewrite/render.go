package rewrite

import (
	"fmt"
	"strings"

	"resurface/internal/source"
)

// Sink receives the rendered fragments of a node. The renderer handles
// operator structure and parenthesization; the sink decides how the three
// source-referencing forms materialize. The preview sink prints positional
// markers; the source-backed sink copies original text.
type Sink interface {
	EmitString(s string) error
	// EmitExpr materializes the original expression the node replaces.
	EmitExpr() error
	// EmitSub materializes the index-th positional child at span.
	EmitSub(index int, span source.Span) error
	// EmitSpan copies verbatim original text at span.
	EmitSpan(span source.Span) error
	// ExprPrec is the binding strength assumed for EmitExpr/EmitSub output.
	// Positional markers are self-delimiting; copied source text has unknown
	// operator structure and must claim the weakest binding, so operand
	// positions wrap it in parentheses.
	ExprPrec() Prec
}

// Render emits node into sink, inserting parentheses wherever a child's
// operator binds less tightly than its position requires.
func Render(n *Node, sink Sink) error {
	return render(n, sink, PrecLowest)
}

func render(n *Node, sink Sink, required Prec) error {
	if n == nil {
		panic("rewrite: render of nil node")
	}
	if effectivePrec(n, sink) < required {
		if err := sink.EmitString("("); err != nil {
			return err
		}
		if err := emit(n, sink); err != nil {
			return err
		}
		return sink.EmitString(")")
	}
	return emit(n, sink)
}

func emit(n *Node, sink Sink) error {
	switch n.kind {
	case KindIdentity:
		return sink.EmitExpr()

	case KindSub:
		return sink.EmitSub(n.index, n.span)

	case KindText, KindPrint:
		return sink.EmitString(n.text)

	case KindExtract:
		return sink.EmitSpan(n.span)

	case KindRef:
		prefix := "&"
		if n.mut == MutMut {
			prefix = "&mut "
		}
		if err := sink.EmitString(prefix); err != nil {
			return err
		}
		return render(n.inner, sink, PrecPrefix)

	case KindAddrOf:
		macro := "core::ptr::addr_of!("
		if n.mut == MutMut {
			macro = "core::ptr::addr_of_mut!("
		}
		if err := sink.EmitString(macro); err != nil {
			return err
		}
		if err := render(n.inner, sink, PrecLowest); err != nil {
			return err
		}
		return sink.EmitString(")")

	case KindDeref:
		if err := sink.EmitString("*"); err != nil {
			return err
		}
		return render(n.inner, sink, PrecPrefix)

	case KindIndex:
		if err := render(n.inner, sink, PrecPostfix); err != nil {
			return err
		}
		if err := sink.EmitString("["); err != nil {
			return err
		}
		if err := render(n.second, sink, PrecLowest); err != nil {
			return err
		}
		return sink.EmitString("]")

	case KindSliceRange:
		if err := render(n.inner, sink, PrecPostfix); err != nil {
			return err
		}
		if err := sink.EmitString("["); err != nil {
			return err
		}
		if n.second != nil {
			if err := render(n.second, sink, PrecLowest); err != nil {
				return err
			}
		}
		if err := sink.EmitString(".."); err != nil {
			return err
		}
		if n.third != nil {
			if err := render(n.third, sink, PrecLowest); err != nil {
				return err
			}
		}
		return sink.EmitString("]")

	case KindCast:
		if err := render(n.inner, sink, PrecCast); err != nil {
			return err
		}
		return sink.EmitString(" as " + n.text)

	case KindRemovedCast:
		// textually gone; the inner node stands in the cast's position
		return emit(n.inner, sink)

	case KindLitZero:
		return sink.EmitString("0")

	case KindCall:
		if err := sink.EmitString(n.text + "("); err != nil {
			return err
		}
		if err := emitList(n.list, sink); err != nil {
			return err
		}
		return sink.EmitString(")")

	case KindMethodCall:
		if err := render(n.inner, sink, PrecPostfix); err != nil {
			return err
		}
		if err := sink.EmitString("." + n.text + "("); err != nil {
			return err
		}
		if err := emitList(n.list, sink); err != nil {
			return err
		}
		return sink.EmitString(")")

	case KindBlock:
		if len(n.list) == 0 && n.inner == nil {
			return sink.EmitString("{}")
		}
		if err := sink.EmitString("{"); err != nil {
			return err
		}
		for _, stmt := range n.list {
			if err := sink.EmitString(" "); err != nil {
				return err
			}
			if err := render(stmt, sink, PrecLowest); err != nil {
				return err
			}
			if err := sink.EmitString(";"); err != nil {
				return err
			}
		}
		if n.inner != nil {
			if err := sink.EmitString(" "); err != nil {
				return err
			}
			if err := render(n.inner, sink, PrecLowest); err != nil {
				return err
			}
		}
		return sink.EmitString(" }")

	case KindLet:
		if len(n.bindings) == 1 {
			b := n.bindings[0]
			if err := sink.EmitString("let " + b.Name + " = "); err != nil {
				return err
			}
			return render(b.Value, sink, PrecLowest)
		}
		if err := sink.EmitString("let ("); err != nil {
			return err
		}
		for i, b := range n.bindings {
			if i > 0 {
				if err := sink.EmitString(", "); err != nil {
					return err
				}
			}
			if err := sink.EmitString(b.Name); err != nil {
				return err
			}
		}
		if err := sink.EmitString(") = ("); err != nil {
			return err
		}
		for i, b := range n.bindings {
			if i > 0 {
				if err := sink.EmitString(", "); err != nil {
					return err
				}
			}
			if err := render(b.Value, sink, PrecLowest); err != nil {
				return err
			}
		}
		return sink.EmitString(")")

	case KindTyPtr:
		prefix := "*const "
		if n.mut == MutMut {
			prefix = "*mut "
		}
		if err := sink.EmitString(prefix); err != nil {
			return err
		}
		return render(n.inner, sink, PrecLowest)

	case KindTyRef:
		if err := sink.EmitString("&"); err != nil {
			return err
		}
		if n.lifetime.Name != "" {
			if err := sink.EmitString(n.lifetime.Name + " "); err != nil {
				return err
			}
		}
		if n.mut == MutMut {
			if err := sink.EmitString("mut "); err != nil {
				return err
			}
		}
		return render(n.inner, sink, PrecLowest)

	case KindTySlice:
		if err := sink.EmitString("["); err != nil {
			return err
		}
		if err := render(n.inner, sink, PrecLowest); err != nil {
			return err
		}
		return sink.EmitString("]")

	case KindTyCtor:
		if err := sink.EmitString(n.text); err != nil {
			return err
		}
		if len(n.list) == 0 {
			return nil
		}
		if err := sink.EmitString("<"); err != nil {
			return err
		}
		if err := emitList(n.list, sink); err != nil {
			return err
		}
		return sink.EmitString(">")

	case KindGenericParams:
		if err := sink.EmitString("<"); err != nil {
			return err
		}
		if err := emitList(n.list, sink); err != nil {
			return err
		}
		return sink.EmitString(">")

	case KindStaticMut:
		qual := "static "
		if n.mut == MutMut {
			qual = "static mut "
		}
		if err := sink.EmitString(qual); err != nil {
			return err
		}
		return sink.EmitSpan(n.span)

	case KindDefineFn:
		if err := sink.EmitString("fn " + n.text + "("); err != nil {
			return err
		}
		for i, argTy := range n.list {
			if i > 0 {
				if err := sink.EmitString(", "); err != nil {
					return err
				}
			}
			if err := sink.EmitString(fmt.Sprintf("arg%d: ", i)); err != nil {
				return err
			}
			if err := render(argTy, sink, PrecLowest); err != nil {
				return err
			}
		}
		if err := sink.EmitString(")"); err != nil {
			return err
		}
		if n.ret != nil {
			if err := sink.EmitString(" -> "); err != nil {
				return err
			}
			if err := render(n.ret, sink, PrecLowest); err != nil {
				return err
			}
		}
		if err := sink.EmitString(" "); err != nil {
			return err
		}
		if n.inner != nil && n.inner.kind == KindBlock {
			return emit(n.inner, sink)
		}
		if err := sink.EmitString("{ "); err != nil {
			return err
		}
		if err := render(n.inner, sink, PrecLowest); err != nil {
			return err
		}
		return sink.EmitString(" }")

	case KindFnArg:
		return sink.EmitString(fmt.Sprintf("arg%d", n.index))
	}

	panic(fmt.Sprintf("rewrite: no emit rule for %s", n.kind))
}

func emitList(nodes []*Node, sink Sink) error {
	for i, arg := range nodes {
		if i > 0 {
			if err := sink.EmitString(", "); err != nil {
				return err
			}
		}
		if err := render(arg, sink, PrecLowest); err != nil {
			return err
		}
	}
	return nil
}

// previewSink renders source references as positional markers: `$e` for the
// original expression, `$i` for the i-th child, `<span ...>` for extraction.
type previewSink struct {
	sb strings.Builder
}

func (p *previewSink) EmitString(s string) error {
	p.sb.WriteString(s)
	return nil
}

func (p *previewSink) EmitExpr() error {
	p.sb.WriteString("$e")
	return nil
}

func (p *previewSink) EmitSub(index int, _ source.Span) error {
	fmt.Fprintf(&p.sb, "$%d", index)
	return nil
}

func (p *previewSink) EmitSpan(span source.Span) error {
	fmt.Fprintf(&p.sb, "<span %s>", span.String())
	return nil
}

func (p *previewSink) ExprPrec() Prec { return PrecAtom }

// String renders the node in preview form. Used by tests and debug output.
func (n *Node) String() string {
	var p previewSink
	if err := Render(n, &p); err != nil {
		return "<render error: " + err.Error() + ">"
	}
	return p.sb.String()
}

// sourceSink renders source references by copying original file text. The
// copied text has unknown operator structure, so ExprPrec claims the
// weakest binding and the renderer parenthesizes the copy wherever its
// position demands more.
type sourceSink struct {
	fs  *source.FileSet
	top source.Span
	sb  strings.Builder
}

func (s *sourceSink) EmitString(str string) error {
	s.sb.WriteString(str)
	return nil
}

func (s *sourceSink) EmitExpr() error {
	s.sb.Write(s.fs.Text(s.top))
	return nil
}

func (s *sourceSink) EmitSub(_ int, span source.Span) error {
	s.sb.Write(s.fs.Text(span))
	return nil
}

func (s *sourceSink) EmitSpan(span source.Span) error {
	s.sb.Write(s.fs.Text(span))
	return nil
}

func (s *sourceSink) ExprPrec() Prec { return PrecLowest }

// RenderSource renders node as the replacement text for the original
// expression at top, copying referenced original text from fs.
func RenderSource(fs *source.FileSet, top source.Span, n *Node) (string, error) {
	sink := &sourceSink{fs: fs, top: top}
	if err := Render(n, sink); err != nil {
		return "", err
	}
	return sink.sb.String(), nil
}
