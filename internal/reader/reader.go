// Package reader assembles s-expressions from the lexer's token stream:
// lists, the quote-family shorthands, and atoms (§4.1).
package reader

import (
	"strconv"

	"github.com/cwbudde/scmgo/internal/lexer"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// Reader reads one expression at a time from a Lexer.
type Reader struct {
	lex *lexer.Lexer
}

// New creates a Reader over lex.
func New(lex *lexer.Lexer) *Reader {
	return &Reader{lex: lex}
}

// Read consumes tokens and returns the next expression, or
// runtime.EndOfInput{} once the underlying lexer is exhausted.
func (r *Reader) Read() (runtime.Value, error) {
	tok, err := r.lex.NextToken()
	if err != nil {
		return nil, err
	}
	return r.readFrom(tok)
}

var quoteKeyword = map[lexer.TokenType]*runtime.Symbol{
	lexer.Quote:           runtime.SymQuote,
	lexer.Quasiquote:      runtime.SymQuasiquote,
	lexer.Unquote:         runtime.SymUnquote,
	lexer.UnquoteSplicing: runtime.SymUnquoteSplicing,
}

func (r *Reader) readFrom(tok lexer.Token) (runtime.Value, error) {
	switch tok.Type {
	case lexer.EOF:
		return runtime.EndOfInput{}, nil

	case lexer.RParen:
		return nil, &lexer.SyntaxError{Pos: tok.Pos, Message: "unexpected )"}

	case lexer.LParen:
		return r.readList(tok.Pos)

	case lexer.Quote, lexer.Quasiquote, lexer.Unquote, lexer.UnquoteSplicing:
		sub, err := r.Read()
		if err != nil {
			return nil, err
		}
		if _, eof := sub.(runtime.EndOfInput); eof {
			return nil, &lexer.SyntaxError{Pos: tok.Pos, Message: "unexpected end of input after " + tok.Type.String()}
		}
		return runtime.List{quoteKeyword[tok.Type], sub}, nil

	case lexer.String:
		return runtime.String(runtime.UnescapeString(tok.Literal)), nil

	case lexer.Atom:
		return parseAtom(tok.Literal), nil

	default:
		return nil, &lexer.SyntaxError{Pos: tok.Pos, Message: "unrecognized token"}
	}
}

func (r *Reader) readList(start lexer.Position) (runtime.Value, error) {
	var elems runtime.List
	for {
		tok, err := r.lex.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.RParen {
			return elems, nil
		}
		if tok.Type == lexer.EOF {
			return nil, &lexer.SyntaxError{Pos: start, Message: "unexpected end of input, unterminated list"}
		}
		expr, err := r.readFrom(tok)
		if err != nil {
			return nil, err
		}
		elems = append(elems, expr)
	}
}

func parseAtom(lit string) runtime.Value {
	switch lit {
	case "#t":
		return runtime.Boolean(true)
	case "#f":
		return runtime.Boolean(false)
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return runtime.Integer(i)
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return runtime.Float(f)
	}
	return runtime.Intern(lit)
}
