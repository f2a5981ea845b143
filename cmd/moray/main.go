/*
Moray parses moray source code and prints the resulting syntax tree.

It reads source from a file (or stdin if no file is given), parses it with one
of the three parser entry points, and prints the tree, or a diagnostic showing
the offending line if the source does not parse.

Usage:

	moray [flags] [FILE]

The flags are:

	-v/--version
		Give the current version of moray and then exit.

	-e/--expr
		Parse the input as a single expression instead of a program.

	-s/--stmt
		Parse the input as a single statement line instead of a program.

	-i/--interactive
		Start an interactive session that reads statements with GNU readline
		based routines and prints the tree of each one. Ignores FILE.

	-T/--tokens
		Stop after lexing and print the token stream, one token per line.

	--emit-tokens FILE
		Stop after lexing and write the binary-encoded token stream to FILE.

	--from-tokens FILE
		Skip lexing and parse the binary-encoded token stream in FILE.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/moray"
	"github.com/dekarrin/moray/internal/input"
	"github.com/dekarrin/moray/internal/version"
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates an unsuccessful program execution due to the
	// input not parsing.
	ExitParseError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue reading input or setting up the session.
	ExitInitError
)

const diagnosticWidth = 80

var (
	returnCode = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of moray and then exit.")
	flagExpr        = pflag.BoolP("expr", "e", false, "Parse the input as a single expression.")
	flagStmt        = pflag.BoolP("stmt", "s", false, "Parse the input as a single statement line.")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive parsing session.")
	flagTokens      = pflag.BoolP("tokens", "T", false, "Stop after lexing and print the token stream.")
	flagEmitTokens  = pflag.String("emit-tokens", "", "Stop after lexing and write the encoded token stream to the given file.")
	flagFromTokens  = pflag.String("from-tokens", "", "Parse the encoded token stream in the given file instead of lexing source.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagExpr && *flagStmt {
		fmt.Fprintf(os.Stderr, "ERROR: -e and -s are mutually exclusive\n")
		returnCode = ExitInitError
		return
	}

	if *flagInteractive {
		runInteractive()
		return
	}

	ts, err := obtainTokens()
	if err != nil {
		reportError(err)
		if _, ok := err.(lex.SyntaxError); !ok {
			returnCode = ExitInitError
		}
		return
	}

	if *flagTokens {
		for _, tok := range ts.Tokens() {
			fmt.Printf("%d:%d %s\n", tok.Line, tok.Pos, tok.String())
		}
		return
	}

	if *flagEmitTokens != "" {
		data := rezi.EncBinary(*ts)
		if err := os.WriteFile(*flagEmitTokens, data, 0664); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
		}
		return
	}

	var top syntax.Top
	switch {
	case *flagExpr:
		top, err = moray.ParseExpressionTokens(ts)
	case *flagStmt:
		top, err = moray.ParseStatementTokens(ts)
	default:
		top, err = moray.ParseTokens(ts)
	}
	if err != nil {
		reportError(err)
		return
	}

	fmt.Println(syntax.DumpTop(top))
}

// obtainTokens produces the token stream to parse, either by lexing the input
// source or by loading a previously emitted token file.
func obtainTokens() (*lex.TokenStream, error) {
	if *flagFromTokens != "" {
		data, err := os.ReadFile(*flagFromTokens)
		if err != nil {
			return nil, err
		}

		ts := &lex.TokenStream{}
		if _, err := rezi.DecBinary(data, ts); err != nil {
			return nil, fmt.Errorf("decode token stream: %w", err)
		}
		return ts, nil
	}

	var source []byte
	var err error
	if pflag.NArg() >= 1 {
		source, err = os.ReadFile(pflag.Arg(0))
	} else {
		source, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, err
	}

	return lex.Lex(string(source))
}

// runInteractive reads statements with readline until end of input, printing
// the tree of each.
func runInteractive() {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	fmt.Printf("moray %s interactive session; end input (ctrl-D) to exit\n", version.Current)

	for {
		stmtSource, err := reader.ReadStatement()
		if err != nil {
			// including io.EOF; the session is simply over
			return
		}

		top, err := moray.ParseStatement(stmtSource)
		if err != nil {
			reportError(err)
			returnCode = ExitSuccess
			continue
		}

		fmt.Println(syntax.DumpTop(top))
	}
}

// reportError prints err to stderr, using the full cursor-annotated form for
// syntax errors and wrapping any other error for the terminal.
func reportError(err error) {
	msg := err.Error()
	if synErr, ok := err.(lex.SyntaxError); ok {
		msg = synErr.FullMessage()
	} else {
		msg = rosed.Edit("ERROR: " + msg).Wrap(diagnosticWidth).String()
	}
	fmt.Fprintf(os.Stderr, "%s\n", msg)
	returnCode = ExitParseError
}
