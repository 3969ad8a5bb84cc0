package interp

import (
	"bytes"
	"testing"

	"github.com/cwbudde/scmgo/internal/runtime"
)

func mustEval(t *testing.T, i *Interpreter, src string) runtime.Value {
	t.Helper()
	v, err := i.Evaluate(src, i.Global)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return v
}

func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	i, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return i
}

func TestSelfEvaluating(t *testing.T) {
	i := newTestInterpreter(t)
	if v := mustEval(t, i, "42"); v != runtime.Integer(42) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, `"hi"`); v != runtime.String("hi") {
		t.Errorf("got %#v", v)
	}
}

func TestQuote(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, "'(1 2 3)")
	list, ok := v.(runtime.List)
	if !ok || len(list) != 3 {
		t.Fatalf("got %#v", v)
	}
}

func TestIfBranches(t *testing.T) {
	i := newTestInterpreter(t)
	if v := mustEval(t, i, `(if #t 1 2)`); v != runtime.Integer(1) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, `(if #f 1 2)`); v != runtime.Integer(2) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, `(if #f 1)`); v != (runtime.Unit{}) {
		t.Errorf("got %#v, want Unit", v)
	}
}

func TestDefineAndLookup(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define x 10)")
	if v := mustEval(t, i, "x"); v != runtime.Integer(10) {
		t.Errorf("got %#v", v)
	}
}

func TestUnboundSymbolIsAnError(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate("nope-not-defined", i.Global); err == nil {
		t.Fatal("expected an UnboundSymbol error")
	}
}

func TestSetMutatesExistingBinding(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define x 1)")
	mustEval(t, i, "(set! x 2)")
	if v := mustEval(t, i, "x"); v != runtime.Integer(2) {
		t.Errorf("got %#v", v)
	}
	if _, err := i.Evaluate("(set! never-defined 1)", i.Global); err == nil {
		t.Fatal("expected set! on an unbound symbol to fail")
	}
}

func TestLambdaAndApplication(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define square (lambda (n) (* n n)))")
	if v := mustEval(t, i, "(square 7)"); v != runtime.Integer(49) {
		t.Errorf("got %#v", v)
	}
}

func TestDefineFunctionShorthand(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define (add a b) (+ a b))")
	if v := mustEval(t, i, "(add 3 4)"); v != runtime.Integer(7) {
		t.Errorf("got %#v", v)
	}
}

func TestVariadicLambda(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define (lst . args) args)")
	v := mustEval(t, i, "(lst 1 2 3)")
	list, ok := v.(runtime.List)
	if !ok || len(list) != 3 {
		t.Fatalf("got %#v", v)
	}
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define (make-adder n) (lambda (x) (+ x n)))")
	mustEval(t, i, "(define add5 (make-adder 5))")
	if v := mustEval(t, i, "(add5 10)"); v != runtime.Integer(15) {
		t.Errorf("got %#v", v)
	}
}

func TestProperTailCallsDoNotGrowTheGoStack(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, `
		(define (count-to n acc)
		  (if (= n acc) acc (count-to n (+ acc 1))))
	`)
	v := mustEval(t, i, "(count-to 100000 0)")
	if v != runtime.Integer(100000) {
		t.Fatalf("got %#v", v)
	}
}

func TestBeginSequencesAndReturnsLast(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define x 0)")
	v := mustEval(t, i, "(begin (set! x 1) (set! x 2) x)")
	if v != runtime.Integer(2) {
		t.Errorf("got %#v", v)
	}
}

func TestArityErrorOnWrongArgumentCount(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define (one a) a)")
	if _, err := i.Evaluate("(one 1 2)", i.Global); err == nil {
		t.Fatal("expected an arity error")
	}
}

func TestApplyingNonProcedureIsAnError(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate("(1 2 3)", i.Global); err == nil {
		t.Fatal("expected a TypeError calling a non-procedure")
	}
}

func TestDuplicateParameterIsASyntaxError(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate("(lambda (a a) a)", i.Global); err == nil {
		t.Fatal("expected a SyntaxError for a duplicate parameter")
	}
}

func TestQuasiquoteUnquote(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define x 5)")
	v := mustEval(t, i, "`(a ,x c)")
	list := v.(runtime.List)
	want := runtime.List{runtime.Intern("a"), runtime.Integer(5), runtime.Intern("c")}
	if len(list) != len(want) {
		t.Fatalf("got %#v", v)
	}
	for idx := range want {
		if !runtime.Equal(list[idx], want[idx]) {
			t.Errorf("element %d: got %#v, want %#v", idx, list[idx], want[idx])
		}
	}
}

func TestQuasiquoteUnquoteSplicing(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define xs (list 2 3))")
	v := mustEval(t, i, "`(1 ,@xs 4)")
	want := runtime.List{runtime.Integer(1), runtime.Integer(2), runtime.Integer(3), runtime.Integer(4)}
	if !runtime.Equal(v, want) {
		t.Errorf("got %#v, want %#v", v, want)
	}
}

func TestQuasiquoteBareSplicingHeadIsASyntaxError(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define xs (list 1 2))")
	if _, err := i.Evaluate("`,@xs", i.Global); err == nil {
		t.Fatal("expected a syntax error for a bare unquote-splicing at the head of a quasiquoted form")
	}
}

func TestDefineMacroAndExpansion(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, `
		(define-macro (my-if c t e)
		  (list 'cond (list c t) (list 'else e)))
	`)
	if v := mustEval(t, i, "(my-if #t 1 2)"); v != runtime.Integer(1) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(my-if #f 1 2)"); v != runtime.Integer(2) {
		t.Errorf("got %#v", v)
	}
}

func TestBootstrapLet(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, "(let ((a 1) (b 2)) (+ a b))")
	if v != runtime.Integer(3) {
		t.Errorf("got %#v", v)
	}
}

func TestBootstrapLetStar(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, "(let* ((a 1) (b (+ a 1))) (+ a b))")
	if v != runtime.Integer(3) {
		t.Errorf("got %#v", v)
	}
}

func TestBootstrapCond(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, `
		(cond (#f 1)
		      (#t 2)
		      (else 3))
	`)
	if v != runtime.Integer(2) {
		t.Errorf("got %#v", v)
	}
}

func TestBootstrapAndOr(t *testing.T) {
	i := newTestInterpreter(t)
	if v := mustEval(t, i, "(and 1 2 3)"); v != runtime.Integer(3) {
		t.Errorf("and: got %#v", v)
	}
	if v := mustEval(t, i, "(and 1 #f 3)"); v != runtime.Boolean(false) {
		t.Errorf("and: got %#v", v)
	}
	if v := mustEval(t, i, "(or #f #f 7)"); v != runtime.Integer(7) {
		t.Errorf("or: got %#v", v)
	}
}

func TestBuiltinArithmeticAndComparison(t *testing.T) {
	i := newTestInterpreter(t)
	if v := mustEval(t, i, "(+ 1 2 3)"); v != runtime.Integer(6) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(+ 1 2.5)"); v != runtime.Float(3.5) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(- 10 3 2)"); v != runtime.Integer(5) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(- 5)"); v != runtime.Integer(-5) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(/ 10 2)"); v != runtime.Integer(5) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(< 1 2)"); v != runtime.Boolean(true) {
		t.Errorf("got %#v", v)
	}
}

func TestBuiltinDivisionByZero(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate("(/ 1 0)", i.Global); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestBuiltinListOperations(t *testing.T) {
	i := newTestInterpreter(t)
	if v := mustEval(t, i, "(car (list 1 2 3))"); v != runtime.Integer(1) {
		t.Errorf("got %#v", v)
	}
	v := mustEval(t, i, "(cdr (list 1 2 3))")
	if !runtime.Equal(v, runtime.List{runtime.Integer(2), runtime.Integer(3)}) {
		t.Errorf("got %#v", v)
	}
	v = mustEval(t, i, "(append (list 1 2) (list 3 4))")
	if !runtime.Equal(v, runtime.List{runtime.Integer(1), runtime.Integer(2), runtime.Integer(3), runtime.Integer(4)}) {
		t.Errorf("got %#v", v)
	}
	v = mustEval(t, i, "(reverse (list 1 2 3))")
	if !runtime.Equal(v, runtime.List{runtime.Integer(3), runtime.Integer(2), runtime.Integer(1)}) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(length (list 1 2 3))"); v != runtime.Integer(3) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(null? (list))"); v != runtime.Boolean(true) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(list-ref (list 10 20 30) 1)"); v != runtime.Integer(20) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(eq? null (list))"); v != runtime.Boolean(true) {
		t.Errorf("got %#v", v)
	}
	if v := mustEval(t, i, "(num? 5)"); v != runtime.Boolean(true) {
		t.Errorf("got %#v", v)
	}
}

func TestBuiltinListRefOutOfRange(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate("(list-ref (list 1 2) 5)", i.Global); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestBuiltinRange(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, "(range 5)")
	want := runtime.List{runtime.Integer(0), runtime.Integer(1), runtime.Integer(2), runtime.Integer(3), runtime.Integer(4)}
	if !runtime.Equal(v, want) {
		t.Errorf("(range 5): got %#v, want %#v", v, want)
	}

	v = mustEval(t, i, "(range 2 5)")
	want = runtime.List{runtime.Integer(2), runtime.Integer(3), runtime.Integer(4)}
	if !runtime.Equal(v, want) {
		t.Errorf("(range 2 5): got %#v, want %#v", v, want)
	}

	v = mustEval(t, i, "(range 0 10 3)")
	want = runtime.List{runtime.Integer(0), runtime.Integer(3), runtime.Integer(6), runtime.Integer(9)}
	if !runtime.Equal(v, want) {
		t.Errorf("(range 0 10 3): got %#v, want %#v", v, want)
	}

	v = mustEval(t, i, "(range 5 2 -1)")
	want = runtime.List{runtime.Integer(5), runtime.Integer(4), runtime.Integer(3)}
	if !runtime.Equal(v, want) {
		t.Errorf("(range 5 2 -1): got %#v, want %#v", v, want)
	}

	if v := mustEval(t, i, "(range 5 2)"); !runtime.Equal(v, runtime.Null) {
		t.Errorf("(range 5 2): expected an empty list when step can't reach stop, got %#v", v)
	}
	if v := mustEval(t, i, "(range 5 5)"); !runtime.Equal(v, runtime.Null) {
		t.Errorf("(range 5 5): expected an empty list, got %#v", v)
	}

	if _, err := i.Evaluate("(range 0 5 0)", i.Global); err == nil {
		t.Fatal("expected an error for a zero step")
	}
}

func TestBuiltinMapAndForEach(t *testing.T) {
	i := newTestInterpreter(t)
	mustEval(t, i, "(define (inc x) (+ x 1))")
	v := mustEval(t, i, "(map inc (list 1 2 3))")
	if !runtime.Equal(v, runtime.List{runtime.Integer(2), runtime.Integer(3), runtime.Integer(4)}) {
		t.Errorf("got %#v", v)
	}

	var out bytes.Buffer
	i2 := newTestInterpreterWithStdout(t, &out)
	i2.DefineGlobal("noop", runtime.Unit{})
	mustEval(t, i2, "(for-each (lambda (x) (display x) (newline)) (list 1 2))")
	if out.String() != "1\n2\n" {
		t.Errorf("got output %q", out.String())
	}
}

func newTestInterpreterWithStdout(t *testing.T, w *bytes.Buffer) *Interpreter {
	t.Helper()
	i, err := New(WithStdout(w))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return i
}

func TestBuiltinApply(t *testing.T) {
	i := newTestInterpreter(t)
	v := mustEval(t, i, "(apply + (list 1 2 3))")
	if v != runtime.Integer(6) {
		t.Errorf("got %#v", v)
	}
}

func TestAssertionFailure(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate(`(assert #f "boom")`, i.Global); err == nil {
		t.Fatal("expected assert to fail")
	}
	mustEval(t, i, "(assert #t)")
}

func TestDisplayWritesUnquoted(t *testing.T) {
	var out bytes.Buffer
	i := newTestInterpreterWithStdout(t, &out)
	mustEval(t, i, `(display "hi")`)
	if out.String() != "hi" {
		t.Errorf("got %q", out.String())
	}
}

func TestRegisterFunctionIsCallableFromScript(t *testing.T) {
	i := newTestInterpreter(t)
	i.RegisterFunction("double", func(n int64) int64 { return n * 2 })
	if v := mustEval(t, i, "(double 21)"); v != runtime.Integer(42) {
		t.Errorf("got %#v", v)
	}
}

func TestLoadIsRejectedWithoutFileSystemAccess(t *testing.T) {
	i := newTestInterpreter(t)
	if _, err := i.Evaluate(`(load "anything.ss")`, i.Global); err == nil {
		t.Fatal("expected load to fail without a FileSystemAccessor grant")
	}
}
