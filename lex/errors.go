package lex

import (
	"fmt"
	"strings"
)

// SyntaxError is an error in source text detected during lexing or parsing. It
// carries enough positional information to point the user at the exact spot
// the problem was found.
type SyntaxError struct {
	// SourceLine is the full text of the line the error occured on.
	SourceLine string

	// Source is the exact text of the specific source code that caused the
	// issue. If no particular source was the cause (such as for unexpected
	// end-of-text errors), this will be an empty string.
	Source string

	// Line that the error occured on, 1-indexed. 0 if not set.
	Line int

	// Pos is the character position in the line of the error, 1-indexed. 0 if
	// not set.
	Pos int

	// Message is the error text, without any positional information.
	Message string
}

func (se SyntaxError) Error() string {
	if se.Line == 0 {
		return fmt.Sprintf("syntax error: %s", se.Message)
	}

	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.Line, se.Pos, se.Message)
}

// FullMessage shows the complete message of the error string along with the
// offending line and a cursor to the problem position in a formatted way.
func (se SyntaxError) FullMessage() string {
	errMsg := se.Error()

	if se.Line != 0 {
		errMsg = se.SourceLineWithCursor() + "\n" + errMsg
	}

	return errMsg
}

// SourceLineWithCursor returns the offending source code on one line and
// directly under it a cursor showing where the error occured.
//
// Returns a blank string if no source line was provided for the error (such as
// for unexpected end-of-text errors).
func (se SyntaxError) SourceLineWithCursor() string {
	if se.SourceLine == "" {
		return ""
	}

	padding := se.Pos - 1
	if padding < 0 {
		padding = 0
	}
	cursorLine := strings.Repeat(" ", padding)

	return se.SourceLine + "\n" + cursorLine + "^"
}

// NewSyntaxErrorFromToken creates a SyntaxError whose position information is
// taken from the given token.
func NewSyntaxErrorFromToken(msg string, tok Token) SyntaxError {
	return SyntaxError{
		Message:    msg,
		SourceLine: tok.FullLine,
		Source:     tok.Lexeme,
		Line:       tok.Line,
		Pos:        tok.Pos,
	}
}
