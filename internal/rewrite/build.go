package rewrite

import "fmt"

// BlockBuilder assembles a Block while enforcing the Let scoping rule: the
// bindings introduced by a Let are not hygienic, so once a Let has been
// added, any later statement or tail that still reads the original
// expression through Identity or Sub would see the rebound names. That
// shape must never be constructed; it is rejected here, at build time.
type BlockBuilder struct {
	stmts  []*Node
	sawLet bool
}

func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{stmts: make([]*Node, 0, 4)}
}

// Stmt appends a statement to the block.
func (b *BlockBuilder) Stmt(n *Node) *BlockBuilder {
	b.check(n)
	if n.Kind() == KindLet {
		b.sawLet = true
	}
	b.stmts = append(b.stmts, n)
	return b
}

// Bind appends a Let statement introducing the given bindings.
func (b *BlockBuilder) Bind(bindings ...Binding) *BlockBuilder {
	return b.Stmt(Let(bindings))
}

// Finish closes the block with an optional tail expression.
func (b *BlockBuilder) Finish(tail *Node) *Node {
	if tail != nil {
		b.check(tail)
	}
	return Block(b.stmts, tail)
}

func (b *BlockBuilder) check(n *Node) {
	if n == nil {
		panic("rewrite: nil statement in block")
	}
	if b.sawLet && n.RefersToOriginal() {
		panic(fmt.Sprintf(
			"rewrite: %s reads the original expression after a let rebinding in the same block", n.Kind()))
	}
}
