// Package parse implements the syntactic grammar of the moray language: a
// recursive-descent parser that consumes a lex.TokenStream and builds the
// typed syntax tree defined in the syntax package.
//
// Three entry points are exposed — Program, Statement, and Expression — all
// sharing the same inner productions. A parse either returns a tree or fails
// at the first ill-formed construct with a lex.SyntaxError; there is no
// recovery and no partial result.
package parse

import (
	"fmt"

	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// Program parses a complete source file: a sequence of logical lines, each
// either a (possibly multi-statement) statement line or a blank line. Blank
// lines produce no statements.
func Program(ts *lex.TokenStream) (syntax.Program, error) {
	p := &parser{ts: ts}

	var prog syntax.Program
	for {
		if p.at(lex.TCNewline) {
			p.next()
			continue
		}
		if p.at(lex.TCEndOfText) {
			break
		}

		stmts, err := p.parseStatementLine()
		if err != nil {
			return syntax.Program{}, err
		}
		prog.Statements = append(prog.Statements, stmts...)
	}

	return prog, nil
}

// Statement parses a single statement line: one compound statement or one or
// more ;-separated simple statements. The stream must hold nothing else
// besides blank lines.
func Statement(ts *lex.TokenStream) ([]syntax.Stmt, error) {
	p := &parser{ts: ts}

	for p.at(lex.TCNewline) {
		p.next()
	}

	stmts, err := p.parseStatementLine()
	if err != nil {
		return nil, err
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	return stmts, nil
}

// Expression parses a single expression (a full testlist, so "a, b" yields a
// tuple). The stream must hold nothing else besides blank lines.
func Expression(ts *lex.TokenStream) (syntax.Expr, error) {
	p := &parser{ts: ts}

	for p.at(lex.TCNewline) {
		p.next()
	}

	ex, err := p.parseTestList()
	if err != nil {
		return nil, err
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	return ex, nil
}

type parser struct {
	ts *lex.TokenStream
}

func (p *parser) peek() lex.Token {
	return p.ts.Peek()
}

func (p *parser) peekAt(n int) lex.Token {
	return p.ts.PeekAt(n)
}

func (p *parser) next() lex.Token {
	return p.ts.Next()
}

// at returns whether the next token is of the given class.
func (p *parser) at(cl lex.TokenClass) bool {
	return p.ts.Peek().Class == cl
}

// accept consumes the next token if it is of the given class.
func (p *parser) accept(cl lex.TokenClass) bool {
	if p.at(cl) {
		p.next()
		return true
	}
	return false
}

// expect consumes and returns the next token, failing if it is not of the
// given class.
func (p *parser) expect(cl lex.TokenClass) (lex.Token, error) {
	tok := p.peek()
	if tok.Class != cl {
		return tok, p.unexpected(tok, cl.Human())
	}
	return p.next(), nil
}

func (p *parser) expectEnd() error {
	for p.at(lex.TCNewline) {
		p.next()
	}
	if !p.at(lex.TCEndOfText) {
		return p.unexpected(p.peek(), "end of text")
	}
	return nil
}

// unexpected builds the standard failed-expectation error. expected may be
// empty when there is no single useful alternative to name.
func (p *parser) unexpected(tok lex.Token, expected string) error {
	msg := fmt.Sprintf("unexpected %s", tok.Class.Human())
	if expected != "" {
		msg += fmt.Sprintf("\n(expected %s)", expected)
	}
	return lex.NewSyntaxErrorFromToken(msg, tok)
}

// errorAt builds a semantic reduction failure at the given token.
func (p *parser) errorAt(tok lex.Token, msg string) error {
	return lex.NewSyntaxErrorFromToken(msg, tok)
}

// tokenStartsTest reports whether a token can begin a full expression
// (including ternary and lambda).
func tokenStartsTest(tok lex.Token) bool {
	switch tok.Class {
	case lex.TCName, lex.TCInt, lex.TCFloat, lex.TCComplex, lex.TCString,
		lex.TCBytes, lex.TCTrue, lex.TCFalse, lex.TCNone, lex.TCEllipsis,
		lex.TCLParen, lex.TCLBracket, lex.TCLBrace, lex.TCPlus, lex.TCMinus,
		lex.TCTilde, lex.TCNot, lex.TCLambda:
		return true
	}
	return false
}

// tokenStartsExpr reports whether a token can begin the narrower Expression
// production (no ternary, no lambda, no not).
func tokenStartsExpr(tok lex.Token) bool {
	switch tok.Class {
	case lex.TCNot, lex.TCLambda:
		return false
	}
	return tokenStartsTest(tok)
}

// tokenStartsTestOrStar additionally allows a starred expression.
func tokenStartsTestOrStar(tok lex.Token) bool {
	return tok.Class == lex.TCStar || tokenStartsTest(tok)
}
