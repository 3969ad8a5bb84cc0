package interp

import (
	"github.com/cwbudde/scmgo/internal/errors"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// EvaluateExpression evaluates an already-expanded expression in env.
// Tail positions are handled by mutating expr/env in place and looping
// rather than recursing, so a Scheme-level tail call never grows the Go
// call stack (§4.3's proper-tail-call requirement).
func (i *Interpreter) EvaluateExpression(expr runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	for {
		switch e := expr.(type) {
		case *runtime.Symbol:
			val, ok := env.Get(e)
			if !ok {
				return nil, errors.New(errors.UnboundSymbol, "unbound symbol %q", e.Name)
			}
			return val, nil

		case runtime.List:
			if len(e) == 0 {
				return nil, errors.New(errors.SyntaxError, "empty list is not a valid expression")
			}

			if head, ok := e[0].(*runtime.Symbol); ok {
				switch head {
				case runtime.SymQuote:
					return e[1], nil

				case runtime.SymIf:
					test, err := i.EvaluateExpression(e[1], env)
					if err != nil {
						return nil, err
					}
					if runtime.Truthy(test) {
						expr = e[2]
					} else {
						expr = e[3]
					}
					continue

				case runtime.SymSet:
					sym := e[1].(*runtime.Symbol)
					val, err := i.EvaluateExpression(e[2], env)
					if err != nil {
						return nil, err
					}
					if !env.Set(sym, val) {
						return nil, errors.New(errors.UnboundSymbol, "set!: unbound symbol %q", sym.Name)
					}
					return runtime.Unit{}, nil

				case runtime.SymDefine:
					sym := e[1].(*runtime.Symbol)
					val, err := i.EvaluateExpression(e[2], env)
					if err != nil {
						return nil, err
					}
					env.Define(sym, val)
					return runtime.Unit{}, nil

				case runtime.SymBegin:
					body := e[1:]
					if len(body) == 0 {
						return runtime.Unit{}, nil
					}
					for _, sub := range body[:len(body)-1] {
						if _, err := i.EvaluateExpression(sub, env); err != nil {
							return nil, err
						}
					}
					expr = body[len(body)-1]
					continue

				case runtime.SymLambda:
					params, err := parseParamShape(e[1])
					if err != nil {
						return nil, err
					}
					return &runtime.Procedure{Params: params, Body: e[2], Env: env}, nil
				}
			}

			// Application: evaluate operator and operands, then either
			// loop in place (Procedure, the tail call) or call out to a
			// NativeProcedure and return its result.
			opVal, err := i.EvaluateExpression(e[0], env)
			if err != nil {
				return nil, err
			}
			args := make([]runtime.Value, len(e)-1)
			for idx, sub := range e[1:] {
				v, err := i.EvaluateExpression(sub, env)
				if err != nil {
					return nil, err
				}
				args[idx] = v
			}

			switch proc := opVal.(type) {
			case *runtime.Procedure:
				callEnv, body, err := i.bindCall(proc, args)
				if err != nil {
					return nil, err
				}
				expr = body
				env = callEnv
				continue

			case *runtime.NativeProcedure:
				return proc.Fn(args)

			default:
				return nil, errors.New(errors.TypeError, "cannot apply non-procedure %s", runtime.Print(opVal))
			}

		default:
			// Self-evaluating: Boolean, Integer, Float, String, Unit,
			// EndOfInput, or a Procedure/NativeProcedure value flowing
			// back through (e.g. returned from another call).
			return expr, nil
		}
	}
}

// bindCall builds the call environment for proc applied to args,
// checking arity per §4.3's calling convention.
func (i *Interpreter) bindCall(proc *runtime.Procedure, args []runtime.Value) (*runtime.Environment, runtime.Value, error) {
	callEnv := runtime.NewEnclosedEnvironment(proc.Env)
	params := proc.Params

	if params.IsVariadic() {
		callEnv.Define(params.Rest, runtime.List(args))
		return callEnv, proc.Body, nil
	}

	if params.Rest == nil {
		if len(args) != len(params.Fixed) {
			return nil, nil, errors.New(errors.ArityError, "procedure expects %d argument(s), got %d", len(params.Fixed), len(args))
		}
	} else if len(args) < len(params.Fixed) {
		return nil, nil, errors.New(errors.ArityError, "procedure expects at least %d argument(s), got %d", len(params.Fixed), len(args))
	}

	for idx, p := range params.Fixed {
		callEnv.Define(p, args[idx])
	}
	if params.Rest != nil {
		callEnv.Define(params.Rest, runtime.List(args[len(params.Fixed):]))
	}
	return callEnv, proc.Body, nil
}

// applyProcedure calls proc with args and runs it to completion,
// non-tail. Used by the expander to invoke macro transformers and by
// native procedures that need to call back into script values (e.g.
// map, for-each, apply).
func (i *Interpreter) applyProcedure(proc *runtime.Procedure, args []runtime.Value) (runtime.Value, error) {
	callEnv, body, err := i.bindCall(proc, args)
	if err != nil {
		return nil, err
	}
	return i.EvaluateExpression(body, callEnv)
}

// Apply calls any callable value (Procedure or NativeProcedure) with
// args, non-tail. This is the host bridge's entry point for invoking
// script callbacks from Go primitives.
func (i *Interpreter) Apply(callable runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch proc := callable.(type) {
	case *runtime.Procedure:
		return i.applyProcedure(proc, args)
	case *runtime.NativeProcedure:
		return proc.Fn(args)
	default:
		return nil, errors.New(errors.TypeError, "cannot apply non-procedure %s", runtime.Print(callable))
	}
}
