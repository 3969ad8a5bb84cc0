package interp

import "github.com/cwbudde/scmgo/internal/runtime"

// expandQuasiquote rewrites a quasiquoted expression into an ordinary
// combination of quote/list/append that, once evaluated, reconstructs
// the template with every unquote substituted and every unquote-splicing
// spliced in. Nested quasiquote/unquote pairs are tracked by depth so that
// only unquotes at the current quasiquote's depth fire; an unquote nested
// inside an inner quasiquote is left for that inner quasiquote to resolve.
func expandQuasiquote(expr runtime.Value) runtime.Value {
	return qq(expr, 1)
}

func qq(expr runtime.Value, depth int) runtime.Value {
	list, ok := expr.(runtime.List)
	if !ok {
		return runtime.List{runtime.SymQuote, expr}
	}
	if len(list) == 0 {
		return runtime.List{runtime.SymQuote, list}
	}

	if head, ok := list[0].(*runtime.Symbol); ok {
		switch head {
		case runtime.SymUnquote:
			if len(list) != 2 {
				return runtime.List{runtime.SymQuote, list}
			}
			if depth == 1 {
				return list[1]
			}
			return qqTagged(runtime.SymUnquote, qq(list[1], depth-1))
		case runtime.SymQuasiquote:
			if len(list) != 2 {
				return runtime.List{runtime.SymQuote, list}
			}
			return qqTagged(runtime.SymQuasiquote, qq(list[1], depth+1))
		}
	}

	return qqList(list, depth)
}

// qqTagged rebuilds (tag inner) as (list 'tag innerExpr), so that
// evaluating it reconstructs the two-element form.
func qqTagged(tag *runtime.Symbol, innerExpr runtime.Value) runtime.Value {
	return runtime.List{runtime.Intern("list"), runtime.List{runtime.SymQuote, tag}, innerExpr}
}

// qqList builds the append-chain expression for a list template,
// splicing in unquote-splicing elements and wrapping each run of other
// elements in a (list ...) segment.
func qqList(list runtime.List, depth int) runtime.Value {
	// A bare (unquote x) or (unquote-splicing x) as the whole remaining
	// tail (i.e. a dotted-tail position in the template) is handled the
	// same as any other element here since scmgo lists have no dotted
	// pairs; every element is processed positionally.
	segments := make(runtime.List, 0, len(list))
	var pending runtime.List // run of plain (non-spliced) elements, wrapped in (list ...) at flush time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		quoted := make(runtime.List, len(pending))
		for i, e := range pending {
			quoted[i] = qq(e, depth)
		}
		segments = append(segments, append(runtime.List{runtime.Intern("list")}, quoted...))
		pending = nil
	}

	for _, elem := range list {
		if sub, ok := elem.(runtime.List); ok && len(sub) == 2 {
			if sym, ok := sub[0].(*runtime.Symbol); ok && sym == runtime.SymUnquoteSplicing {
				if depth == 1 {
					flush()
					segments = append(segments, sub[1])
					continue
				}
				pending = append(pending, qqTagged(runtime.SymUnquoteSplicing, qq(sub[1], depth-1)))
				continue
			}
		}
		pending = append(pending, elem)
	}
	flush()

	if len(segments) == 0 {
		return runtime.List{runtime.SymQuote, runtime.Null}
	}
	if len(segments) == 1 {
		return segments[0]
	}
	return append(runtime.List{runtime.SymAppend}, segments...)
}
