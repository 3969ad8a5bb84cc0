// Package interp is the interpreter core: the expander and the
// trampolined evaluator that calls it (and is called by it, for macro
// transformers) share this package to avoid the import cycle a split
// into separate expander/evaluator packages would create. Session
// drivers (Evaluate, REPL) and the host-bridge types (FileSystemAccessor,
// Lift) that embedders use round out the package.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/scmgo/internal/errors"
	"github.com/cwbudde/scmgo/internal/lexer"
	"github.com/cwbudde/scmgo/internal/reader"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// Interpreter is one self-contained instance of the language: its own
// global environment, macro table, host bridge, and I/O streams. Symbol
// interning is the only state shared across Interpreter instances (§5).
type Interpreter struct {
	Global *runtime.Environment
	Macros *runtime.MacroTable
	FS     FileSystemAccessor
	Stdout io.Writer
	Stderr io.Writer
}

// Option configures a new Interpreter.
type Option func(*Interpreter)

// WithFileSystem installs fs as the interpreter's file-system accessor,
// in place of the default NoAccess sandbox.
func WithFileSystem(fs FileSystemAccessor) Option {
	return func(i *Interpreter) { i.FS = fs }
}

// WithStdout redirects display/write/newline output away from os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.Stdout = w }
}

// New creates an Interpreter with the mandatory primitives and bootstrap
// macros installed, ready to evaluate script source.
func New(opts ...Option) (*Interpreter, error) {
	i := &Interpreter{
		Global: runtime.NewEnvironment(),
		Macros: runtime.NewMacroTable(),
		FS:     NoAccess{},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}

	i.registerBuiltins(i.Global)

	if err := i.EvaluateSource(bootstrapSource, i.Global); err != nil {
		return nil, fmt.Errorf("evaluating bootstrap script: %w", err)
	}

	return i, nil
}

// DefineGlobal binds name to val in the interpreter's global
// environment, for a host that wants to hand a script a constant or
// data value rather than a callable.
func (i *Interpreter) DefineGlobal(name string, val runtime.Value) {
	i.Global.Define(runtime.Intern(name), val)
}

// RegisterFunction lifts the Go function fn (via Lift) and binds it to
// name in the global environment, the host bridge's main entry point.
func (i *Interpreter) RegisterFunction(name string, fn any) {
	i.Global.Define(runtime.Intern(name), Lift(name, fn))
}

// Evaluate reads, expands, and evaluates every top-level form in src
// against env, returning the value of the last form (or Unit if src is
// empty). This is the single-script entry point (§6: "given one
// argument, read and evaluate the named file").
func (i *Interpreter) Evaluate(src string, env *runtime.Environment) (runtime.Value, error) {
	r := reader.New(lexer.New(src))
	var last runtime.Value = runtime.Unit{}

	for {
		form, err := r.Read()
		if err != nil {
			return nil, toError(err, src)
		}
		if _, eof := form.(runtime.EndOfInput); eof {
			return last, nil
		}

		expanded, err := i.Expand(form, env, true)
		if err != nil {
			return nil, err
		}
		val, err := i.EvaluateExpression(expanded, env)
		if err != nil {
			return nil, err
		}
		last = val
	}
}

// EvaluateSource runs Evaluate purely for effect (used by load and
// bootstrap), discarding the final value.
func (i *Interpreter) EvaluateSource(src string, env *runtime.Environment) error {
	_, err := i.Evaluate(src, env)
	return err
}

// REPL runs an interactive read-eval-print loop against in, printing
// results and errors to the interpreter's Stdout/Stderr, until in is
// exhausted (§6: "otherwise start a REPL").
func (i *Interpreter) REPL(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	var buf string

	prompt := func() { fmt.Fprint(i.Stdout, "scmgo> ") }
	prompt()

	for scanner.Scan() {
		buf += scanner.Text() + "\n"

		val, err := i.Evaluate(buf, i.Global)
		if err != nil {
			if incompleteInput(err) {
				continue
			}
			fmt.Fprintln(i.Stderr, formatErr(err))
			buf = ""
			prompt()
			continue
		}

		if _, isUnit := val.(runtime.Unit); !isUnit {
			fmt.Fprintln(i.Stdout, runtime.Print(val))
		}
		buf = ""
		prompt()
	}
	fmt.Fprintln(i.Stdout)
	return scanner.Err()
}

// incompleteInput reports whether err signals an unterminated list that
// more input could complete, rather than a real syntax error — letting
// the REPL keep reading lines instead of reporting a bogus failure
// mid-form. An unterminated string is a real error: string literals may
// not span lines, so further input cannot complete one.
func incompleteInput(err error) bool {
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.SyntaxError {
		return false
	}
	switch e.Message {
	case "unexpected end of input, unterminated list":
		return true
	default:
		return false
	}
}

func toError(err error, src string) error {
	if se, ok := err.(*lexer.SyntaxError); ok {
		return errors.New(errors.SyntaxError, "%s", se.Message).WithPos(se.Pos, src, "")
	}
	return err
}

func formatErr(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Format()
	}
	return err.Error()
}
