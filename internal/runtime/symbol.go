package runtime

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Symbol is an interned identifier. Equality is pointer identity: two
// Symbols with the same (normalized) name are always the same object, so
// eq? on symbols is a plain pointer comparison. The table is process-wide
// and shared across every Interpreter instance, matching the reference
// behavior described in §5: interning never removes entries, and
// identity is the only state shared across interpreters.
type Symbol struct {
	Name string
}

var (
	internMu    sync.RWMutex
	internTable = make(map[string]*Symbol)
)

// Intern returns the canonical Symbol for name, normalizing it to NFC
// first so that visually identical identifiers typed with different
// Unicode compositions (e.g. a precomposed "é" versus "e" + combining
// acute) intern to the same symbol.
func Intern(name string) *Symbol {
	name = norm.NFC.String(name)

	internMu.RLock()
	sym, ok := internTable[name]
	internMu.RUnlock()
	if ok {
		return sym
	}

	internMu.Lock()
	defer internMu.Unlock()
	if sym, ok := internTable[name]; ok {
		return sym
	}
	sym = &Symbol{Name: name}
	internTable[name] = sym
	return sym
}

// Reserved form keywords (§3). These are ordinary interned symbols; the
// expander recognizes them by identity against this fixed set.
var (
	SymQuote           = Intern("quote")
	SymIf              = Intern("if")
	SymSet             = Intern("set!")
	SymDefine          = Intern("define")
	SymDefineMacro     = Intern("define-macro")
	SymLambda          = Intern("lambda")
	SymBegin           = Intern("begin")
	SymQuasiquote      = Intern("quasiquote")
	SymUnquote         = Intern("unquote")
	SymUnquoteSplicing = Intern("unquote-splicing")
	SymAppend          = Intern("append")
	SymCons            = Intern("cons")
)
