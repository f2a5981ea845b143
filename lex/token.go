// Package lex provides the tokenizer for moray source code. It converts source
// text into a stream of classed tokens, handling the indentation structure of
// the language by emitting synthetic indent and dedent tokens so that later
// stages are completely layout-free.
package lex

import (
	"fmt"
	"math/big"
)

// TokenClass is the lexical category of a token. Two tokens with classes that
// have the same ID are of the same class.
type TokenClass struct {
	id    string
	human string
}

// ID returns the identifying string of the class.
func (tc TokenClass) ID() string {
	return tc.id
}

// Human returns a human-readable name for the class, suitable for use in error
// messages shown to the user.
func (tc TokenClass) Human() string {
	return tc.human
}

func (tc TokenClass) String() string {
	return tc.id
}

// Equal returns whether the TokenClass is equal to another value. It will not
// be equal if the other value cannot be cast to TokenClass or *TokenClass.
func (tc TokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return tc.id == other.id
}

var (
	// structural
	TCEndOfText = TokenClass{"end of text", "end of text"}
	TCIndent    = TokenClass{"indent", "indentation increase"}
	TCDedent    = TokenClass{"dedent", "indentation decrease"}
	TCNewline   = TokenClass{"newline", "end of line"}
	TCSemi      = TokenClass{";", "';'"}

	// delimiters
	TCLParen   = TokenClass{"(", "'('"}
	TCRParen   = TokenClass{")", "')'"}
	TCLBracket = TokenClass{"[", "'['"}
	TCRBracket = TokenClass{"]", "']'"}
	TCLBrace   = TokenClass{"{", "'{'"}
	TCRBrace   = TokenClass{"}", "'}'"}
	TCComma    = TokenClass{",", "','"}
	TCColon    = TokenClass{":", "':'"}
	TCDot      = TokenClass{".", "'.'"}
	TCEllipsis = TokenClass{"...", "'...'"}
	TCArrow    = TokenClass{"->", "'->'"}
	TCAt       = TokenClass{"@", "'@'"}

	// operators
	TCPlus         = TokenClass{"+", "'+'"}
	TCMinus        = TokenClass{"-", "'-'"}
	TCStar         = TokenClass{"*", "'*'"}
	TCDoubleStar   = TokenClass{"**", "'**'"}
	TCSlash        = TokenClass{"/", "'/'"}
	TCDoubleSlash  = TokenClass{"//", "'//'"}
	TCPercent      = TokenClass{"%", "'%'"}
	TCAmper        = TokenClass{"&", "'&'"}
	TCPipe         = TokenClass{"|", "'|'"}
	TCCaret        = TokenClass{"^", "'^'"}
	TCTilde        = TokenClass{"~", "'~'"}
	TCLShift       = TokenClass{"<<", "'<<'"}
	TCRShift       = TokenClass{">>", "'>>'"}
	TCAssign       = TokenClass{"=", "'='"}
	TCPlusEq       = TokenClass{"+=", "'+='"}
	TCMinusEq      = TokenClass{"-=", "'-='"}
	TCStarEq       = TokenClass{"*=", "'*='"}
	TCAtEq         = TokenClass{"@=", "'@='"}
	TCSlashEq      = TokenClass{"/=", "'/='"}
	TCPercentEq    = TokenClass{"%=", "'%='"}
	TCAmperEq      = TokenClass{"&=", "'&='"}
	TCPipeEq       = TokenClass{"|=", "'|='"}
	TCCaretEq      = TokenClass{"^=", "'^='"}
	TCLShiftEq     = TokenClass{"<<=", "'<<='"}
	TCRShiftEq     = TokenClass{">>=", "'>>='"}
	TCDoubleStarEq = TokenClass{"**=", "'**='"}
	TCDblSlashEq   = TokenClass{"//=", "'//='"}
	TCEq           = TokenClass{"==", "'=='"}
	TCNotEq        = TokenClass{"!=", "'!='"}
	TCLess         = TokenClass{"<", "'<'"}
	TCLessEq       = TokenClass{"<=", "'<='"}
	TCGreater      = TokenClass{">", "'>'"}
	TCGreaterEq    = TokenClass{">=", "'>='"}

	// keywords
	TCAnd      = TokenClass{"and", "keyword 'and'"}
	TCAs       = TokenClass{"as", "keyword 'as'"}
	TCAssert   = TokenClass{"assert", "keyword 'assert'"}
	TCBreak    = TokenClass{"break", "keyword 'break'"}
	TCClass    = TokenClass{"class", "keyword 'class'"}
	TCContinue = TokenClass{"continue", "keyword 'continue'"}
	TCDef      = TokenClass{"def", "keyword 'def'"}
	TCDel      = TokenClass{"del", "keyword 'del'"}
	TCElif     = TokenClass{"elif", "keyword 'elif'"}
	TCElse     = TokenClass{"else", "keyword 'else'"}
	TCExcept   = TokenClass{"except", "keyword 'except'"}
	TCFalse    = TokenClass{"False", "keyword 'False'"}
	TCFinally  = TokenClass{"finally", "keyword 'finally'"}
	TCFor      = TokenClass{"for", "keyword 'for'"}
	TCFrom     = TokenClass{"from", "keyword 'from'"}
	TCGlobal   = TokenClass{"global", "keyword 'global'"}
	TCIf       = TokenClass{"if", "keyword 'if'"}
	TCImport   = TokenClass{"import", "keyword 'import'"}
	TCIn       = TokenClass{"in", "keyword 'in'"}
	TCIs       = TokenClass{"is", "keyword 'is'"}
	TCLambda   = TokenClass{"lambda", "keyword 'lambda'"}
	TCNone     = TokenClass{"None", "keyword 'None'"}
	TCNonlocal = TokenClass{"nonlocal", "keyword 'nonlocal'"}
	TCNot      = TokenClass{"not", "keyword 'not'"}
	TCOr       = TokenClass{"or", "keyword 'or'"}
	TCPass     = TokenClass{"pass", "keyword 'pass'"}
	TCRaise    = TokenClass{"raise", "keyword 'raise'"}
	TCReturn   = TokenClass{"return", "keyword 'return'"}
	TCTrue     = TokenClass{"True", "keyword 'True'"}
	TCTry      = TokenClass{"try", "keyword 'try'"}
	TCWhile    = TokenClass{"while", "keyword 'while'"}
	TCWith     = TokenClass{"with", "keyword 'with'"}
	TCYield    = TokenClass{"yield", "keyword 'yield'"}

	// terminals with payload
	TCInt     = TokenClass{"int", "integer literal"}
	TCFloat   = TokenClass{"float", "float literal"}
	TCComplex = TokenClass{"complex", "complex literal"}
	TCString  = TokenClass{"string", "string literal"}
	TCBytes   = TokenClass{"bytes", "bytes literal"}
	TCName    = TokenClass{"name", "identifier"}
)

var keywords = map[string]TokenClass{
	"and": TCAnd, "as": TCAs, "assert": TCAssert, "break": TCBreak,
	"class": TCClass, "continue": TCContinue, "def": TCDef, "del": TCDel,
	"elif": TCElif, "else": TCElse, "except": TCExcept, "False": TCFalse,
	"finally": TCFinally, "for": TCFor, "from": TCFrom, "global": TCGlobal,
	"if": TCIf, "import": TCImport, "in": TCIn, "is": TCIs,
	"lambda": TCLambda, "None": TCNone, "nonlocal": TCNonlocal, "not": TCNot,
	"or": TCOr, "pass": TCPass, "raise": TCRaise, "return": TCReturn,
	"True": TCTrue, "try": TCTry, "while": TCWhile, "with": TCWith,
	"yield": TCYield,
}

// Token is a single lexeme read from source text, along with the positional
// information needed to produce diagnostics that point back at it.
type Token struct {
	// Class is the lexical category of the token.
	Class TokenClass

	// Lexeme is the exact source text the token was read from.
	Lexeme string

	// Line and Pos are the 1-indexed line and character position of the start
	// of the token. EndLine and EndPos are the position just past its end.
	Line    int
	Pos     int
	EndLine int
	EndPos  int

	// FullLine is the complete text of the source line the token started on,
	// without its line terminator.
	FullLine string

	// IntVal is the payload of a TCInt token.
	IntVal *big.Int

	// FloatVal is the payload of a TCFloat token. For TCComplex tokens it is
	// the imaginary component, with the real component always 0.
	FloatVal float64

	// StrVal is the decoded payload of a TCString or TCName token.
	StrVal string

	// BytesVal is the decoded payload of a TCBytes token.
	BytesVal []byte

	// FString is set on TCString tokens lexed from a string with an f prefix.
	FString bool
}

func (tok Token) String() string {
	if tok.Lexeme == "" {
		return fmt.Sprintf("(%s)", tok.Class.ID())
	}
	return fmt.Sprintf("(%s %q)", tok.Class.ID(), tok.Lexeme)
}

// TokenStream is a sequence of tokens being consumed front to back.
type TokenStream struct {
	tokens []Token
	cur    int
}

// NewTokenStream creates a stream over the given tokens.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Next returns the next token in the stream and advances past it. Once the
// stream is exhausted it returns a TCEndOfText token forever.
func (ts *TokenStream) Next() Token {
	tok := ts.PeekAt(0)
	if ts.cur < len(ts.tokens) {
		ts.cur++
	}
	return tok
}

// Peek returns the next token in the stream without advancing past it.
func (ts *TokenStream) Peek() Token {
	return ts.PeekAt(0)
}

// PeekAt returns the token n positions ahead of the next token without
// advancing the stream.
func (ts *TokenStream) PeekAt(n int) Token {
	if ts.cur+n >= len(ts.tokens) {
		var last Token
		if len(ts.tokens) > 0 {
			last = ts.tokens[len(ts.tokens)-1]
		}
		return Token{
			Class:    TCEndOfText,
			Line:     last.EndLine,
			Pos:      last.EndPos,
			EndLine:  last.EndLine,
			EndPos:   last.EndPos,
			FullLine: last.FullLine,
		}
	}
	return ts.tokens[ts.cur+n]
}

// Remaining returns the number of tokens left in the stream.
func (ts *TokenStream) Remaining() int {
	return len(ts.tokens) - ts.cur
}

// Tokens returns all tokens in the stream, including already-consumed ones.
func (ts *TokenStream) Tokens() []Token {
	all := make([]Token, len(ts.tokens))
	copy(all, ts.tokens)
	return all
}
