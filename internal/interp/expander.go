package interp

import (
	"github.com/cwbudde/scmgo/internal/errors"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// Expand rewrites expr between reading and evaluation (§4.2): it
// validates and desugars the special forms, expands quasiquotation, and
// dispatches macro transformers by invoking them through EvaluateExpression
// — which is why the expander and evaluator live in one package. isTopLevel
// marks whether expr sits in the outermost source context or a top-level
// begin; only there may define-macro appear.
func (i *Interpreter) Expand(expr runtime.Value, env *runtime.Environment, isTopLevel bool) (runtime.Value, error) {
	list, ok := expr.(runtime.List)
	if !ok {
		return expr, nil
	}
	if len(list) == 0 {
		return nil, errors.New(errors.SyntaxError, "empty list is not a valid expression")
	}

	if head, ok := list[0].(*runtime.Symbol); ok {
		if macro, found := i.Macros.Lookup(head); found {
			expanded, err := i.invokeMacro(macro, list[1:])
			if err != nil {
				return nil, err
			}
			return i.Expand(expanded, env, isTopLevel)
		}

		switch head {
		case runtime.SymQuote:
			return i.expandQuote(list)
		case runtime.SymIf:
			return i.expandIf(list, env)
		case runtime.SymSet:
			return i.expandSet(list, env)
		case runtime.SymDefine:
			return i.expandDefine(list, env)
		case runtime.SymDefineMacro:
			return i.expandDefineMacro(list, env, isTopLevel)
		case runtime.SymBegin:
			return i.expandBegin(list, env, isTopLevel)
		case runtime.SymLambda:
			return i.expandLambda(list, env)
		case runtime.SymQuasiquote:
			if len(list) != 2 {
				return nil, errors.New(errors.SyntaxError, "quasiquote expects exactly 1 operand")
			}
			if sub, ok := list[1].(runtime.List); ok && len(sub) == 2 {
				if sym, ok := sub[0].(*runtime.Symbol); ok && sym == runtime.SymUnquoteSplicing {
					return nil, errors.New(errors.SyntaxError, "unquote-splicing is not valid at the head of a quasiquoted form")
				}
			}
			return i.Expand(expandQuasiquote(list[1]), env, isTopLevel)
		}
	}

	return i.expandCombination(list, env)
}

func (i *Interpreter) expandQuote(list runtime.List) (runtime.Value, error) {
	if len(list) != 2 {
		return nil, errors.New(errors.SyntaxError, "quote expects exactly 1 operand")
	}
	return list, nil
}

func (i *Interpreter) expandIf(list runtime.List, env *runtime.Environment) (runtime.Value, error) {
	switch len(list) {
	case 3:
		test, err := i.Expand(list[1], env, false)
		if err != nil {
			return nil, err
		}
		then, err := i.Expand(list[2], env, false)
		if err != nil {
			return nil, err
		}
		return runtime.List{runtime.SymIf, test, then, runtime.Unit{}}, nil
	case 4:
		test, err := i.Expand(list[1], env, false)
		if err != nil {
			return nil, err
		}
		then, err := i.Expand(list[2], env, false)
		if err != nil {
			return nil, err
		}
		alt, err := i.Expand(list[3], env, false)
		if err != nil {
			return nil, err
		}
		return runtime.List{runtime.SymIf, test, then, alt}, nil
	default:
		return nil, errors.New(errors.SyntaxError, "if expects 2 or 3 operands, got %d", len(list)-1)
	}
}

func (i *Interpreter) expandSet(list runtime.List, env *runtime.Environment) (runtime.Value, error) {
	if len(list) != 3 {
		return nil, errors.New(errors.SyntaxError, "set! expects exactly 2 operands")
	}
	sym, ok := list[1].(*runtime.Symbol)
	if !ok {
		return nil, errors.New(errors.SyntaxError, "set! target must be a symbol")
	}
	val, err := i.Expand(list[2], env, false)
	if err != nil {
		return nil, err
	}
	return runtime.List{runtime.SymSet, sym, val}, nil
}

func (i *Interpreter) expandDefine(list runtime.List, env *runtime.Environment) (runtime.Value, error) {
	if len(list) < 2 {
		return nil, errors.New(errors.SyntaxError, "define expects at least 1 operand")
	}

	// (define (f p...) body...) => (define f (lambda (p...) body...))
	if shape, ok := list[1].(runtime.List); ok {
		if len(shape) == 0 {
			return nil, errors.New(errors.SyntaxError, "define: function name/parameter list may not be empty")
		}
		name, ok := shape[0].(*runtime.Symbol)
		if !ok {
			return nil, errors.New(errors.SyntaxError, "define: function name must be a symbol")
		}
		lambda := append(runtime.List{runtime.SymLambda, shape[1:]}, list[2:]...)
		return i.Expand(runtime.List{runtime.SymDefine, name, lambda}, env, false)
	}

	sym, ok := list[1].(*runtime.Symbol)
	if !ok {
		return nil, errors.New(errors.SyntaxError, "define target must be a symbol")
	}
	if len(list) != 3 {
		return nil, errors.New(errors.SyntaxError, "define expects exactly 1 value expression")
	}
	val, err := i.Expand(list[2], env, false)
	if err != nil {
		return nil, err
	}
	return runtime.List{runtime.SymDefine, sym, val}, nil
}

func (i *Interpreter) expandDefineMacro(list runtime.List, env *runtime.Environment, isTopLevel bool) (runtime.Value, error) {
	if !isTopLevel {
		return nil, errors.New(errors.MacroError, "define-macro is only allowed at top level")
	}
	if len(list) < 2 {
		return nil, errors.New(errors.SyntaxError, "define-macro expects at least 1 operand")
	}

	var name *runtime.Symbol
	var rhs runtime.Value

	if shape, ok := list[1].(runtime.List); ok {
		if len(shape) == 0 {
			return nil, errors.New(errors.SyntaxError, "define-macro: name/parameter list may not be empty")
		}
		sym, ok := shape[0].(*runtime.Symbol)
		if !ok {
			return nil, errors.New(errors.SyntaxError, "define-macro: name must be a symbol")
		}
		name = sym
		rhs = append(runtime.List{runtime.SymLambda, shape[1:]}, list[2:]...)
	} else {
		sym, ok := list[1].(*runtime.Symbol)
		if !ok {
			return nil, errors.New(errors.SyntaxError, "define-macro target must be a symbol")
		}
		if len(list) != 3 {
			return nil, errors.New(errors.SyntaxError, "define-macro expects exactly 1 value expression")
		}
		name = sym
		rhs = list[2]
	}

	expandedRHS, err := i.Expand(rhs, env, false)
	if err != nil {
		return nil, err
	}
	value, err := i.EvaluateExpression(expandedRHS, env)
	if err != nil {
		return nil, err
	}
	transformer, ok := value.(*runtime.Procedure)
	if !ok {
		return nil, errors.New(errors.MacroError, "define-macro right-hand side did not evaluate to a procedure")
	}
	i.Macros.Define(name, transformer)
	return runtime.Unit{}, nil
}

func (i *Interpreter) expandBegin(list runtime.List, env *runtime.Environment, isTopLevel bool) (runtime.Value, error) {
	if len(list) == 1 {
		return runtime.Unit{}, nil
	}
	out := make(runtime.List, 1, len(list))
	out[0] = runtime.SymBegin
	for _, sub := range list[1:] {
		expanded, err := i.Expand(sub, env, isTopLevel)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

func (i *Interpreter) expandLambda(list runtime.List, env *runtime.Environment) (runtime.Value, error) {
	if len(list) < 3 {
		return nil, errors.New(errors.SyntaxError, "lambda expects a parameter list and at least 1 body expression")
	}

	params, err := parseParamShape(list[1])
	if err != nil {
		return nil, err
	}

	var body runtime.Value
	if len(list) == 3 {
		body = list[2]
	} else {
		body = append(runtime.List{runtime.SymBegin}, list[2:]...)
	}
	expandedBody, err := i.Expand(body, env, false)
	if err != nil {
		return nil, err
	}

	return runtime.List{runtime.SymLambda, paramShapeExpr(params), expandedBody}, nil
}

func (i *Interpreter) expandCombination(list runtime.List, env *runtime.Environment) (runtime.Value, error) {
	out := make(runtime.List, len(list))
	for idx, sub := range list {
		expanded, err := i.Expand(sub, env, false)
		if err != nil {
			return nil, err
		}
		out[idx] = expanded
	}
	return out, nil
}

// dotSym is the reserved marker recognized only in parameter-list
// position, separating the fixed parameters from a trailing rest
// parameter: (a b . rest). scmgo's lists have no cons pairs, so this is
// pure syntax local to parameter lists, not a general dotted-list
// reader feature.
var dotSym = runtime.Intern(".")

// parseParamShape validates and normalizes a lambda/define-macro
// parameter form: a bare Symbol (pure rest parameter), or a list of
// distinct Symbols optionally followed by `. rest` to also collect any
// extra trailing arguments.
func parseParamShape(expr runtime.Value) (runtime.ParamShape, error) {
	if sym, ok := expr.(*runtime.Symbol); ok {
		return runtime.ParamShape{Rest: sym}, nil
	}
	list, ok := expr.(runtime.List)
	if !ok {
		return runtime.ParamShape{}, errors.New(errors.SyntaxError, "parameter list must be a symbol or a list of symbols")
	}

	fixedLen := len(list)
	var rest *runtime.Symbol
	if idx := indexOfDot(list); idx >= 0 {
		if idx != len(list)-2 {
			return runtime.ParamShape{}, errors.New(errors.SyntaxError, "malformed rest parameter: expected exactly one symbol after .")
		}
		sym, ok := list[idx+1].(*runtime.Symbol)
		if !ok {
			return runtime.ParamShape{}, errors.New(errors.SyntaxError, "rest parameter must be a symbol")
		}
		rest = sym
		fixedLen = idx
	}

	seen := make(map[*runtime.Symbol]bool, fixedLen)
	params := make([]*runtime.Symbol, fixedLen)
	for idx := 0; idx < fixedLen; idx++ {
		sym, ok := list[idx].(*runtime.Symbol)
		if !ok {
			return runtime.ParamShape{}, errors.New(errors.SyntaxError, "parameter must be a symbol")
		}
		if seen[sym] {
			return runtime.ParamShape{}, errors.New(errors.SyntaxError, "duplicate parameter %q", sym.Name)
		}
		seen[sym] = true
		params[idx] = sym
	}
	if rest != nil && seen[rest] {
		return runtime.ParamShape{}, errors.New(errors.SyntaxError, "duplicate parameter %q", rest.Name)
	}
	return runtime.ParamShape{Fixed: params, Rest: rest}, nil
}

func indexOfDot(list runtime.List) int {
	for idx, v := range list {
		if sym, ok := v.(*runtime.Symbol); ok && sym == dotSym {
			return idx
		}
	}
	return -1
}

func paramShapeExpr(p runtime.ParamShape) runtime.Value {
	if p.IsVariadic() {
		return p.Rest
	}
	out := make(runtime.List, len(p.Fixed))
	for idx, s := range p.Fixed {
		out[idx] = s
	}
	if p.Rest != nil {
		out = append(out, dotSym, p.Rest)
	}
	return out
}

// invokeMacro calls transformer (already evaluated at define-macro time)
// on the unexpanded tail of the macro-invocation form, through the
// evaluator, and returns the resulting expression for re-expansion.
func (i *Interpreter) invokeMacro(transformer *runtime.Procedure, args runtime.List) (runtime.Value, error) {
	return i.applyProcedure(transformer, args)
}
