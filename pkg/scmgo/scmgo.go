// Package scmgo is the public embedding surface for the interpreter: a
// host program imports this package, constructs an Engine, registers
// whatever Go functions and values it wants the script to see, and
// evaluates script source against it.
package scmgo

import (
	"io"

	"github.com/cwbudde/scmgo/internal/interp"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// Engine is an embeddable scmgo interpreter instance.
type Engine struct {
	interp *interp.Interpreter
}

// Option configures a new Engine.
type Option = interp.Option

// WithFileSystem installs a custom file-system accessor; by default an
// Engine has no file-system authority at all.
func WithFileSystem(fs interp.FileSystemAccessor) Option {
	return interp.WithFileSystem(fs)
}

// WithStdout redirects display/write/newline output.
func WithStdout(w io.Writer) Option {
	return interp.WithStdout(w)
}

// New constructs an Engine with the mandatory primitives and bootstrap
// macros (let, cond, and, or, when, unless, let*) installed.
func New(opts ...Option) (*Engine, error) {
	i, err := interp.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{interp: i}, nil
}

// Eval reads, expands, and evaluates every top-level form in src,
// returning the last value as a runtime.Value (render it with Print).
func (e *Engine) Eval(src string) (any, error) {
	val, err := e.interp.Evaluate(src, e.interp.Global)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Print renders a value returned by Eval in scmgo's printed form.
func Print(v any) string {
	rv, ok := v.(runtime.Value)
	if !ok {
		return ""
	}
	return runtime.Print(rv)
}

// REPL runs an interactive session against in, writing prompts, results,
// and errors to the Engine's configured Stdout/Stderr.
func (e *Engine) REPL(in io.Reader) error {
	return e.interp.REPL(in)
}

// DefineGlobal binds a host-computed value under name in the script's
// global scope. val must be a runtime.Value; any other value is ignored
// and nothing is bound.
func (e *Engine) DefineGlobal(name string, val any) {
	rv, ok := val.(runtime.Value)
	if !ok {
		return
	}
	e.interp.DefineGlobal(name, rv)
}

// RegisterFunction exposes a Go function to scripts under name. fn's
// parameters and results are coerced to/from script values by
// reflection (numbers, strings, booleans, and runtime.Value pass
// through as-is); fn may optionally return a trailing error.
func (e *Engine) RegisterFunction(name string, fn any) {
	e.interp.RegisterFunction(name, fn)
}
