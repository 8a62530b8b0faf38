package distribute

import (
	"fmt"

	"resurface/internal/mirop"
	"resurface/internal/rewrite"
	"resurface/internal/unlower"
)

// convertOne applies one abstract edit on top of base, the node standing in
// for the operand the request targets. Chained requests on one expression
// left-fold through here in original execution order, so RemovedCast keeps
// a removed cast's position targetable by the next request.
func convertOne(base *rewrite.Node, req mirop.Request, owner unlower.Expr) *rewrite.Node {
	switch req.Kind {
	case mirop.KindAddCast:
		return rewrite.Cast(base, req.Type)

	case mirop.KindRemoveCast:
		// On an untouched owner the whole span is the cast expression; only
		// the operand's text survives. A later edit in the chain still sees
		// the cast's position through the RemovedCast wrapper.
		if base.Kind() == rewrite.KindIdentity {
			if len(owner.Children) == 0 {
				panic(fmt.Sprintf("distribute: remove-cast at %s: owner %s exposes no cast operand",
					req.Loc, owner.Span))
			}
			return rewrite.RemovedCast(rewrite.Sub(0, owner.Children[0]))
		}
		return rewrite.RemovedCast(base)

	case mirop.KindPtrOffsetDeref:
		return convertPtrOffsetDeref(base, owner)

	case mirop.KindAddrOfWrap:
		method := "as_ptr"
		if req.Mut {
			method = "as_mut_ptr"
		}
		return rewrite.MethodCall(method, base)

	case mirop.KindRefFromRaw:
		mut := rewrite.MutNot
		if req.Mut {
			mut = rewrite.MutMut
		}
		return rewrite.Ref(mut, rewrite.Deref(rewrite.Cast(base, req.Type)))

	case mirop.KindSetStaticMut:
		mut := rewrite.MutNot
		if req.Mut {
			mut = rewrite.MutMut
		}
		return rewrite.StaticMut(mut, owner.Span)
	}

	panic(fmt.Sprintf("distribute: no conversion for %s at %s", req.Kind, req.Loc))
}

// convertPtrOffsetDeref builds the offset-then-dereference sequence. An
// indexing expression desugars into several mid-level statements; when the
// owner exposes pointer and offset children, both are bound up front so the
// tail never reads the original expression after the rebinding.
func convertPtrOffsetDeref(base *rewrite.Node, owner unlower.Expr) *rewrite.Node {
	if base.Kind() == rewrite.KindIdentity && len(owner.Children) >= 2 {
		b := rewrite.NewBlockBuilder()
		b.Bind(
			rewrite.Binding{Name: "ptr", Value: rewrite.Sub(0, owner.Children[0])},
			rewrite.Binding{Name: "off", Value: rewrite.Sub(1, owner.Children[1])},
		)
		return b.Finish(rewrite.Deref(rewrite.MethodCall("offset", rewrite.Text("ptr"), rewrite.Text("off"))))
	}
	return rewrite.Deref(rewrite.MethodCall("offset", base, rewrite.LitZero()))
}
