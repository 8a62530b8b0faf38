package rewrite

import "resurface/internal/source"

// SubstituteSub returns a copy of n in which every Sub referencing span has
// been replaced by repl, reporting whether any replacement happened. Inside
// the spliced-in repl, Identity leaves are re-anchored to the positional Sub
// they replace: after folding, "the original expression" of the inner
// rewrite is exactly the child the outer rewrite left a slot for. The input
// trees are never mutated.
//
// Distribution uses this to fold the rewrite of a nested expression into
// its parent's rewrite, keeping one top-level node per span.
func SubstituteSub(n *Node, span source.Span, repl *Node) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.kind == KindSub && n.span == span {
		anchored, _ := replaceIdentity(repl, n)
		return anchored, true
	}

	out := *n
	replaced := false

	sub := func(child *Node) *Node {
		c, r := SubstituteSub(child, span, repl)
		replaced = replaced || r
		return c
	}

	out.inner = sub(n.inner)
	out.second = sub(n.second)
	out.third = sub(n.third)
	out.ret = sub(n.ret)

	if len(n.list) > 0 {
		out.list = make([]*Node, len(n.list))
		for i, c := range n.list {
			out.list[i] = sub(c)
		}
	}
	if len(n.bindings) > 0 {
		out.bindings = make([]Binding, len(n.bindings))
		for i, b := range n.bindings {
			out.bindings[i] = Binding{Name: b.Name, Value: sub(b.Value)}
		}
	}

	if !replaced {
		return n, false
	}
	return &out, true
}

// replaceIdentity returns a copy of n with every Identity leaf replaced by
// repl, reporting whether any replacement happened.
func replaceIdentity(n *Node, repl *Node) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.kind == KindIdentity {
		return repl, true
	}

	out := *n
	replaced := false

	sub := func(child *Node) *Node {
		c, r := replaceIdentity(child, repl)
		replaced = replaced || r
		return c
	}

	out.inner = sub(n.inner)
	out.second = sub(n.second)
	out.third = sub(n.third)
	out.ret = sub(n.ret)

	if len(n.list) > 0 {
		out.list = make([]*Node, len(n.list))
		for i, c := range n.list {
			out.list[i] = sub(c)
		}
	}
	if len(n.bindings) > 0 {
		out.bindings = make([]Binding, len(n.bindings))
		for i, b := range n.bindings {
			out.bindings[i] = Binding{Name: b.Name, Value: sub(b.Value)}
		}
	}

	if !replaced {
		return n, false
	}
	return &out, true
}
