// Package runtime holds scmgo's value universe: the tagged variants that
// make up both program text and data (§3 of the language spec), the
// global symbol table, lexical environments, and the handful of
// predicates (truthiness, equality) the evaluator and builtins share.
package runtime

// Value is the polymorphic runtime value. Expressions read from source
// and values produced by evaluation share this single representation,
// as is conventional in a Lisp: a List of Values is equally at home as
// a program fragment or as data.
type Value interface {
	isValue()
}

// Boolean is the true/false variant.
type Boolean bool

// Integer is a signed machine word.
type Integer int64

// Float is a double-precision value.
type Float float64

// String is immutable text.
type String string

// List is an ordered sequence of Values. The empty list (len(List) == 0)
// is the canonical "null" value and is a distinct Value from Unit.
type List []Value

// ParamShape is a Procedure's parameter list: an ordered list of
// distinct Symbols bound positionally, optionally followed by a Rest
// symbol that collects every remaining argument into one list binding.
// A parameter list written as a bare Symbol (rather than a list) is the
// degenerate case of Fixed being empty and Rest set: every argument
// collects into one binding.
type ParamShape struct {
	Fixed []*Symbol
	Rest  *Symbol
}

// IsVariadic reports whether the shape binds all arguments to one name
// (no fixed parameters in front of the rest parameter).
func (p ParamShape) IsVariadic() bool {
	return p.Rest != nil && len(p.Fixed) == 0
}

// Procedure is a script-defined closure: a parameter shape, a body
// expression, and the environment captured at definition time.
type Procedure struct {
	Params ParamShape
	Body   Value
	Env    *Environment
}

// NativeFunc is the signature every host-provided callable implements.
type NativeFunc func(args []Value) (Value, error)

// NativeProcedure is an opaque host-provided callable, optionally named
// for diagnostics and for its printed representation.
type NativeProcedure struct {
	Name string
	Fn   NativeFunc
}

// Unit is the sentinel returned by side-effecting forms with no
// meaningful result (define, set!, empty begin, a falsey if with no
// alternate).
type Unit struct{}

// EndOfInput is the sentinel the reader returns once its input source is
// exhausted. It never appears in user data.
type EndOfInput struct{}

func (Boolean) isValue()         {}
func (Integer) isValue()         {}
func (Float) isValue()           {}
func (String) isValue()          {}
func (*Symbol) isValue()         {}
func (List) isValue()            {}
func (*Procedure) isValue()      {}
func (*NativeProcedure) isValue() {}
func (Unit) isValue()            {}
func (EndOfInput) isValue()      {}

// Null is the canonical empty list value.
var Null = List(nil)

// IsNull reports whether v is the empty list.
func IsNull(v Value) bool {
	l, ok := v.(List)
	return ok && len(l) == 0
}

// Callable reports whether v can appear in the operator position of a
// combination.
func Callable(v Value) bool {
	switch v.(type) {
	case *Procedure, *NativeProcedure:
		return true
	default:
		return false
	}
}
