package interp

import (
	"fmt"
	"io"

	"github.com/cwbudde/scmgo/internal/errors"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// registerBuiltins defines the mandatory primitive procedures (§4.4)
// directly in env, in the teacher's builtinXxx-per-procedure style
// (compare internal/interp/builtins_core.go's builtinPrintLn/builtinPrint).
// Arithmetic, comparison, and the handful of variable-arity list
// operations are hand-written here rather than built through Lift
// because their arity and numeric-widening rules are script-level
// contract, not a host FFI concern.
func (i *Interpreter) registerBuiltins(env *runtime.Environment) {
	def := func(name string, fn runtime.NativeFunc) {
		env.Define(runtime.Intern(name), &runtime.NativeProcedure{Name: name, Fn: fn})
	}

	env.Define(runtime.Intern("null"), runtime.Null)

	def("+", builtinAdd)
	def("-", builtinSub)
	def("*", builtinMul)
	def("/", builtinDiv)
	def("=", builtinNumCompare("=", func(a, b float64) bool { return a == b }))
	def("<", builtinNumCompare("<", func(a, b float64) bool { return a < b }))
	def(">", builtinNumCompare(">", func(a, b float64) bool { return a > b }))
	def("<=", builtinNumCompare("<=", func(a, b float64) bool { return a <= b }))
	def(">=", builtinNumCompare(">=", func(a, b float64) bool { return a >= b }))

	def("cons", builtinCons)
	def("car", builtinCar)
	def("cdr", builtinCdr)
	def("list", builtinList)
	def("list-ref", builtinListRef)
	def("append", builtinAppend)
	def("reverse", builtinReverse)
	def("length", builtinLength)
	def("range", builtinRange)
	def("null?", builtinPredicate(runtime.IsNull))
	def("pair?", builtinPredicate(func(v runtime.Value) bool {
		l, ok := v.(runtime.List)
		return ok && len(l) > 0
	}))
	def("list?", builtinPredicate(func(v runtime.Value) bool {
		_, ok := v.(runtime.List)
		return ok
	}))

	def("eq?", builtin2(func(a, b runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(runtime.Eq(a, b)), nil
	}))
	def("equal?", builtin2(func(a, b runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(runtime.Equal(a, b)), nil
	}))
	def("not", builtin1(func(v runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(!runtime.Truthy(v)), nil
	}))

	def("boolean?", builtinPredicate(func(v runtime.Value) bool { _, ok := v.(runtime.Boolean); return ok }))
	def("num?", builtinPredicate(runtime.IsNumeric))
	def("number?", builtinPredicate(runtime.IsNumeric))
	def("integer?", builtinPredicate(runtime.IsInteger))
	def("string?", builtinPredicate(func(v runtime.Value) bool { _, ok := v.(runtime.String); return ok }))
	def("symbol?", builtinPredicate(func(v runtime.Value) bool { _, ok := v.(*runtime.Symbol); return ok }))
	def("procedure?", builtinPredicate(runtime.Callable))

	def("symbol->string", builtin1(func(v runtime.Value) (runtime.Value, error) {
		sym, ok := v.(*runtime.Symbol)
		if !ok {
			return nil, errors.New(errors.TypeError, "symbol->string: expected a symbol, got %s", runtime.Print(v))
		}
		return runtime.String(sym.Name), nil
	}))
	def("string->symbol", builtin1(func(v runtime.Value) (runtime.Value, error) {
		s, ok := v.(runtime.String)
		if !ok {
			return nil, errors.New(errors.TypeError, "string->symbol: expected a string, got %s", runtime.Print(v))
		}
		return runtime.Intern(string(s)), nil
	}))
	def("string-append", builtinStringAppend)
	def("string-length", builtin1(func(v runtime.Value) (runtime.Value, error) {
		s, ok := v.(runtime.String)
		if !ok {
			return nil, errors.New(errors.TypeError, "string-length: expected a string, got %s", runtime.Print(v))
		}
		return runtime.Integer(len([]rune(string(s)))), nil
	}))

	def("display", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinDisplay(args)
	})
	def("newline", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 0 {
			return nil, errors.New(errors.ArityError, "newline expects 0 arguments, got %d", len(args))
		}
		fmt.Fprintln(i.Stdout)
		return runtime.Unit{}, nil
	})
	def("write", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.ArityError, "write expects 1 argument, got %d", len(args))
		}
		fmt.Fprint(i.Stdout, runtime.Print(args[0]))
		return runtime.Unit{}, nil
	})

	def("apply", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinApply(args)
	})
	def("map", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinMap(args)
	})
	def("for-each", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinForEach(args)
	})

	def("error", builtinError)
	def("assert", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinAssert(args)
	})
	def("load", func(args []runtime.Value) (runtime.Value, error) {
		return i.builtinLoad(args)
	})
}

func builtin1(fn func(runtime.Value) (runtime.Value, error)) runtime.NativeFunc {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.ArityError, "expects 1 argument, got %d", len(args))
		}
		return fn(args[0])
	}
}

func builtin2(fn func(a, b runtime.Value) (runtime.Value, error)) runtime.NativeFunc {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.ArityError, "expects 2 arguments, got %d", len(args))
		}
		return fn(args[0], args[1])
	}
}

func builtinPredicate(fn func(runtime.Value) bool) runtime.NativeFunc {
	return builtin1(func(v runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(fn(v)), nil
	})
}

// numeric contract: left-to-right reduction over a variadic argument
// list, widening to Float as soon as any operand is a Float.
func builtinAdd(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Integer(0), nil
	}
	return numericFold(args, "+", func(acc, v float64) float64 { return acc + v })
}

func builtinSub(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.ArityError, "- expects at least 1 argument")
	}
	if len(args) == 1 {
		n, ok := runtime.AsFloat(args[0])
		if !ok {
			return nil, errors.New(errors.TypeError, "-: expected a number, got %s", runtime.Print(args[0]))
		}
		if runtime.IsInteger(args[0]) {
			return runtime.Integer(-int64(n)), nil
		}
		return runtime.Float(-n), nil
	}
	return numericFold(args, "-", func(acc, v float64) float64 { return acc - v })
}

func builtinMul(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Integer(1), nil
	}
	return numericFold(args, "*", func(acc, v float64) float64 { return acc * v })
}

func builtinDiv(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.ArityError, "/ expects at least 1 argument")
	}
	if len(args) == 1 {
		args = []runtime.Value{runtime.Integer(1), args[0]}
	}
	allInt := true
	for _, a := range args {
		if !runtime.IsInteger(a) {
			allInt = false
			break
		}
	}

	first, ok := runtime.AsFloat(args[0])
	if !ok {
		return nil, errors.New(errors.TypeError, "/: expected a number, got %s", runtime.Print(args[0]))
	}
	if allInt {
		acc := int64(first)
		for _, v := range args[1:] {
			n, _ := runtime.AsFloat(v)
			if int64(n) == 0 {
				return nil, errors.New(errors.IoError, "/: division by zero")
			}
			acc /= int64(n)
		}
		return runtime.Integer(acc), nil
	}

	acc := first
	for _, v := range args[1:] {
		n, ok := runtime.AsFloat(v)
		if !ok {
			return nil, errors.New(errors.TypeError, "/: expected a number, got %s", runtime.Print(v))
		}
		acc /= n
	}
	return runtime.Float(acc), nil
}

func numericFold(args []runtime.Value, name string, op func(acc, v float64) float64) (runtime.Value, error) {
	allInt := true
	acc, ok := runtime.AsFloat(args[0])
	if !ok {
		return nil, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(args[0]))
	}
	iacc, isInt := args[0].(runtime.Integer)
	if !isInt {
		allInt = false
	}
	for _, v := range args[1:] {
		n, ok := runtime.AsFloat(v)
		if !ok {
			return nil, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(v))
		}
		if iv, isInt := v.(runtime.Integer); !isInt {
			allInt = false
		} else if allInt {
			switch name {
			case "+":
				iacc += iv
			case "-":
				iacc -= iv
			case "*":
				iacc *= iv
			}
		}
		acc = op(acc, n)
	}
	if allInt {
		return iacc, nil
	}
	return runtime.Float(acc), nil
}

func builtinNumCompare(name string, cmp func(a, b float64) bool) runtime.NativeFunc {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.ArityError, "%s expects exactly 2 arguments, got %d", name, len(args))
		}
		a, ok := runtime.AsFloat(args[0])
		if !ok {
			return nil, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(args[0]))
		}
		b, ok := runtime.AsFloat(args[1])
		if !ok {
			return nil, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(args[1]))
		}
		return runtime.Boolean(cmp(a, b)), nil
	}
}

func builtinCons(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.ArityError, "cons expects 2 arguments, got %d", len(args))
	}
	tail, ok := args[1].(runtime.List)
	if !ok {
		return nil, errors.New(errors.TypeError, "cons: second argument must be a list, got %s", runtime.Print(args[1]))
	}
	out := make(runtime.List, 0, len(tail)+1)
	out = append(out, args[0])
	out = append(out, tail...)
	return out, nil
}

func builtinCar(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "car expects 1 argument, got %d", len(args))
	}
	list, ok := args[0].(runtime.List)
	if !ok || len(list) == 0 {
		return nil, errors.New(errors.TypeError, "car: expected a non-empty list, got %s", runtime.Print(args[0]))
	}
	return list[0], nil
}

func builtinCdr(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "cdr expects 1 argument, got %d", len(args))
	}
	list, ok := args[0].(runtime.List)
	if !ok || len(list) == 0 {
		return nil, errors.New(errors.TypeError, "cdr: expected a non-empty list, got %s", runtime.Print(args[0]))
	}
	return list[1:], nil
}

func builtinList(args []runtime.Value) (runtime.Value, error) {
	out := make(runtime.List, len(args))
	copy(out, args)
	return out, nil
}

func builtinListRef(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.ArityError, "list-ref expects 2 arguments, got %d", len(args))
	}
	list, ok := args[0].(runtime.List)
	if !ok {
		return nil, errors.New(errors.TypeError, "list-ref: expected a list, got %s", runtime.Print(args[0]))
	}
	idx, ok := args[1].(runtime.Integer)
	if !ok {
		return nil, errors.New(errors.TypeError, "list-ref: expected an integer index, got %s", runtime.Print(args[1]))
	}
	if idx < 0 || int(idx) >= len(list) {
		return nil, errors.New(errors.TypeError, "list-ref: index %d out of range for a list of length %d", idx, len(list))
	}
	return list[idx], nil
}

// builtinRange implements the 1-, 2-, and 3-argument forms of (range
// stop), (range start stop), and (range start stop step): an empty
// list when step can't reach stop from start (§4.4), and a TypeError
// if step is given as zero.
func builtinRange(args []runtime.Value) (runtime.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, ok := args[0].(runtime.Integer)
		if !ok {
			return nil, errors.New(errors.TypeError, "range: expected an integer, got %s", runtime.Print(args[0]))
		}
		stop = int64(n)
	case 2, 3:
		a, ok := args[0].(runtime.Integer)
		if !ok {
			return nil, errors.New(errors.TypeError, "range: expected an integer, got %s", runtime.Print(args[0]))
		}
		b, ok := args[1].(runtime.Integer)
		if !ok {
			return nil, errors.New(errors.TypeError, "range: expected an integer, got %s", runtime.Print(args[1]))
		}
		start, stop = int64(a), int64(b)
		if len(args) == 3 {
			s, ok := args[2].(runtime.Integer)
			if !ok {
				return nil, errors.New(errors.TypeError, "range: expected an integer step, got %s", runtime.Print(args[2]))
			}
			if s == 0 {
				return nil, errors.New(errors.TypeError, "range: step must not be 0")
			}
			step = int64(s)
		}
	default:
		return nil, errors.New(errors.ArityError, "range expects 1 to 3 arguments, got %d", len(args))
	}

	if (step > 0 && start >= stop) || (step < 0 && start <= stop) {
		return runtime.Null, nil
	}

	var out runtime.List
	if step > 0 {
		for n := start; n < stop; n += step {
			out = append(out, runtime.Integer(n))
		}
	} else {
		for n := start; n > stop; n += step {
			out = append(out, runtime.Integer(n))
		}
	}
	if out == nil {
		return runtime.Null, nil
	}
	return out, nil
}

func builtinAppend(args []runtime.Value) (runtime.Value, error) {
	var out runtime.List
	for idx, a := range args {
		list, ok := a.(runtime.List)
		if !ok {
			return nil, errors.New(errors.TypeError, "append: argument %d is not a list, got %s", idx+1, runtime.Print(a))
		}
		out = append(out, list...)
	}
	if out == nil {
		return runtime.Null, nil
	}
	return out, nil
}

func builtinReverse(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "reverse expects 1 argument, got %d", len(args))
	}
	list, ok := args[0].(runtime.List)
	if !ok {
		return nil, errors.New(errors.TypeError, "reverse: expected a list, got %s", runtime.Print(args[0]))
	}
	out := make(runtime.List, len(list))
	for idx, v := range list {
		out[len(list)-1-idx] = v
	}
	return out, nil
}

func builtinLength(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "length expects 1 argument, got %d", len(args))
	}
	list, ok := args[0].(runtime.List)
	if !ok {
		return nil, errors.New(errors.TypeError, "length: expected a list, got %s", runtime.Print(args[0]))
	}
	return runtime.Integer(len(list)), nil
}

func builtinStringAppend(args []runtime.Value) (runtime.Value, error) {
	var sb []byte
	for idx, a := range args {
		s, ok := a.(runtime.String)
		if !ok {
			return nil, errors.New(errors.TypeError, "string-append: argument %d is not a string, got %s", idx+1, runtime.Print(a))
		}
		sb = append(sb, s...)
	}
	return runtime.String(sb), nil
}

func builtinError(args []runtime.Value) (runtime.Value, error) {
	msg := ""
	if len(args) > 0 {
		if s, ok := args[0].(runtime.String); ok {
			msg = string(s)
		} else {
			msg = runtime.Print(args[0])
		}
	}
	for _, irritant := range args[1:] {
		msg += " " + runtime.Print(irritant)
	}
	return nil, errors.New(errors.AssertionFailed, "%s", msg)
}

// builtinDisplay writes args[0] in display form (strings unquoted) to
// the interpreter's configured Stdout.
func (i *Interpreter) builtinDisplay(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "display expects 1 argument, got %d", len(args))
	}
	if s, ok := args[0].(runtime.String); ok {
		fmt.Fprint(i.Stdout, string(s))
	} else {
		fmt.Fprint(i.Stdout, runtime.Print(args[0]))
	}
	return runtime.Unit{}, nil
}

func (i *Interpreter) builtinAssert(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.New(errors.ArityError, "assert expects 1 or 2 arguments, got %d", len(args))
	}
	if runtime.Truthy(args[0]) {
		return runtime.Unit{}, nil
	}
	msg := "assertion failed"
	if len(args) == 2 {
		if s, ok := args[1].(runtime.String); ok {
			msg = string(s)
		} else {
			msg = runtime.Print(args[1])
		}
	}
	return nil, errors.New(errors.AssertionFailed, "%s", msg)
}

func (i *Interpreter) builtinApply(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.ArityError, "apply expects at least 2 arguments, got %d", len(args))
	}
	tail, ok := args[len(args)-1].(runtime.List)
	if !ok {
		return nil, errors.New(errors.TypeError, "apply: last argument must be a list, got %s", runtime.Print(args[len(args)-1]))
	}
	callArgs := append([]runtime.Value{}, args[1:len(args)-1]...)
	callArgs = append(callArgs, tail...)
	return i.Apply(args[0], callArgs)
}

func (i *Interpreter) builtinMap(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.ArityError, "map expects at least 2 arguments, got %d", len(args))
	}
	lists := make([]runtime.List, len(args)-1)
	n := -1
	for idx, a := range args[1:] {
		list, ok := a.(runtime.List)
		if !ok {
			return nil, errors.New(errors.TypeError, "map: argument %d is not a list, got %s", idx+2, runtime.Print(a))
		}
		lists[idx] = list
		if n == -1 || len(list) < n {
			n = len(list)
		}
	}
	out := make(runtime.List, n)
	for row := 0; row < n; row++ {
		callArgs := make([]runtime.Value, len(lists))
		for col, list := range lists {
			callArgs[col] = list[row]
		}
		v, err := i.Apply(args[0], callArgs)
		if err != nil {
			return nil, err
		}
		out[row] = v
	}
	return out, nil
}

func (i *Interpreter) builtinForEach(args []runtime.Value) (runtime.Value, error) {
	if _, err := i.builtinMap(args); err != nil {
		return nil, err
	}
	return runtime.Unit{}, nil
}

// builtinLoad reads path through the interpreter's FileSystemAccessor,
// reads and expands each top-level form in turn, and evaluates it for
// effect through EvaluateSource — the same path the embedded init.ss
// bootstrap is evaluated through, though that one is not read via the
// accessor.
func (i *Interpreter) builtinLoad(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.ArityError, "load expects 1 argument, got %d", len(args))
	}
	path, ok := args[0].(runtime.String)
	if !ok {
		return nil, errors.New(errors.TypeError, "load: expected a string path, got %s", runtime.Print(args[0]))
	}

	f, err := i.FS.OpenRead(string(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New(errors.IoError, "%v", err)
	}

	if err := i.EvaluateSource(string(src), i.Global); err != nil {
		return nil, err
	}
	return runtime.Unit{}, nil
}
