// Package moray is a parser front end for the moray scripting language: an
// indentation-sensitive, dynamically typed language with def/class
// declarations, comprehensions, decorators, f-strings, and full operator
// precedence.
//
// The package ties together the tokenizer in the lex package and the grammar
// in the parse package behind one public surface. Three entry points are
// provided — a whole program, a single statement line, and a single
// expression — all sharing the same inner grammar and all returning their
// result wrapped in a syntax.Top that identifies which entry was taken.
package moray

import (
	"fmt"
	"io"

	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/parse"
	"github.com/dekarrin/moray/syntax"
)

// Parse parses source as a complete program.
func Parse(source string) (syntax.Top, error) {
	ts, err := lex.Lex(source)
	if err != nil {
		return syntax.Top{}, err
	}
	return ParseTokens(ts)
}

// ParseStatement parses source as a single statement line. A logical line
// holding multiple ;-separated statements yields all of them.
func ParseStatement(source string) (syntax.Top, error) {
	ts, err := lex.Lex(source)
	if err != nil {
		return syntax.Top{}, err
	}
	return ParseStatementTokens(ts)
}

// ParseExpression parses source as a single expression.
func ParseExpression(source string) (syntax.Top, error) {
	ts, err := lex.Lex(source)
	if err != nil {
		return syntax.Top{}, err
	}
	return ParseExpressionTokens(ts)
}

// ParseReader parses the entire contents of r as a program.
func ParseReader(r io.Reader) (syntax.Top, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return syntax.Top{}, fmt.Errorf("read source: %w", err)
	}
	return Parse(string(data))
}

// ParseTokens parses an already-lexed token stream as a program.
func ParseTokens(ts *lex.TokenStream) (syntax.Top, error) {
	prog, err := parse.Program(ts)
	if err != nil {
		return syntax.Top{}, err
	}
	return syntax.Top{Kind: syntax.TopProgram, Program: prog}, nil
}

// ParseStatementTokens parses an already-lexed token stream as a single
// statement line.
func ParseStatementTokens(ts *lex.TokenStream) (syntax.Top, error) {
	stmts, err := parse.Statement(ts)
	if err != nil {
		return syntax.Top{}, err
	}
	return syntax.Top{Kind: syntax.TopStatement, Statements: stmts}, nil
}

// ParseExpressionTokens parses an already-lexed token stream as a single
// expression.
func ParseExpressionTokens(ts *lex.TokenStream) (syntax.Top, error) {
	ex, err := parse.Expression(ts)
	if err != nil {
		return syntax.Top{}, err
	}
	return syntax.Top{Kind: syntax.TopExpression, Expression: ex}, nil
}
