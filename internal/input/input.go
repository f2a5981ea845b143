// Package input contains readers used to get moray source input from the CLI
// or other sources of input. The readers return whole logical statements: a
// physical line plus any continuation lines it needs, so that an indented
// block or a bracketed expression can be typed across several lines.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectSourceReader reads statements from any generic input stream directly.
// It can be used generically with any io.Reader but does not sanitize the
// input of control and escape sequences.
//
// DirectSourceReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectSourceReader struct {
	r *bufio.Reader
}

// InteractiveSourceReader reads statements from stdin using a go
// implementation of the GNU Readline library. This keeps input clear of all
// typing and editing escape sequences and enables the use of input history.
// This should in general probably only be used when directly connecting to a
// TTY for input.
//
// InteractiveSourceReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveSourceReader struct {
	rl           *readline.Instance
	prompt       string
	continuation string
}

// NewDirectReader creates a new DirectSourceReader and initializes a buffered
// reader on the provided reader. The returned reader must have Close() called
// on it before disposal.
func NewDirectReader(r io.Reader) *DirectSourceReader {
	return &DirectSourceReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveSourceReader and initializes
// readline. The returned reader must have Close() called on it before
// disposal to properly teardown readline resources.
func NewInteractiveReader() (*InteractiveSourceReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: ">>> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveSourceReader{
		rl:           rl,
		prompt:       ">>> ",
		continuation: "... ",
	}, nil
}

// Close cleans up resources associated with the DirectSourceReader.
func (dsr *DirectSourceReader) Close() error {
	// this function is here so DirectSourceReader matches
	// InteractiveSourceReader. For now it doesn't really do anything as the
	// DirectSourceReader does not create resources but it may in the future
	// and callers should treat it as though it must have Close called on it.

	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveSourceReader.
func (isr *InteractiveSourceReader) Close() error {
	return isr.rl.Close()
}

// ReadStatement reads the next logical statement from the stream. Blank lines
// are skipped. If at end of input, the returned string will be empty and
// error will be io.EOF.
func (dsr *DirectSourceReader) ReadStatement() (string, error) {
	var acc statementAccumulator

	for {
		line, err := dsr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF && acc.started() {
				return acc.source(), nil
			}
			return "", err
		}

		done := acc.feed(strings.TrimRight(line, "\n"))
		if done {
			return acc.source(), nil
		}
		if err == io.EOF {
			if acc.started() {
				return acc.source(), nil
			}
			return "", io.EOF
		}
	}
}

// ReadStatement reads the next logical statement from stdin, prompting with a
// continuation prompt while the statement remains open. Blank lines before a
// statement are skipped; a blank line terminates an open indented block. If at
// end of input, the returned string will be empty and error will be io.EOF.
func (isr *InteractiveSourceReader) ReadStatement() (string, error) {
	var acc statementAccumulator

	isr.rl.SetPrompt(isr.prompt)
	defer isr.rl.SetPrompt(isr.prompt)

	for {
		line, err := isr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF && acc.started() {
				return acc.source(), nil
			}
			return "", err
		}

		done := acc.feed(line)
		if done {
			return acc.source(), nil
		}

		isr.rl.SetPrompt(isr.continuation)
	}
}

// statementAccumulator collects physical lines until they form a complete
// logical statement: brackets balanced, no trailing backslash, and any
// indented block closed by a blank line.
type statementAccumulator struct {
	lines     []string
	depth     int
	inBlock   bool
	backslash bool
}

func (acc *statementAccumulator) started() bool {
	return len(acc.lines) > 0
}

func (acc *statementAccumulator) source() string {
	return strings.Join(acc.lines, "\n") + "\n"
}

// feed adds one physical line and reports whether the statement is complete.
func (acc *statementAccumulator) feed(line string) bool {
	trimmed := strings.TrimSpace(line)

	if !acc.started() && trimmed == "" {
		return false
	}

	if acc.inBlock && trimmed == "" {
		return true
	}

	acc.lines = append(acc.lines, line)
	acc.scan(line)

	if acc.depth > 0 || acc.backslash {
		return false
	}
	if strings.HasSuffix(trimmed, ":") || acc.inBlock {
		acc.inBlock = true
		return false
	}

	return true
}

// scan updates bracket depth and backslash state from one line, skipping
// string literals and comments well enough for continuation decisions.
func (acc *statementAccumulator) scan(line string) {
	acc.backslash = false

	var quote rune
	chars := []rune(line)
	for i := 0; i < len(chars); i++ {
		ch := chars[i]

		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '#':
			return
		case '(', '[', '{':
			acc.depth++
		case ')', ']', '}':
			if acc.depth > 0 {
				acc.depth--
			}
		case '\\':
			if i == len(chars)-1 {
				acc.backslash = true
			}
		}
	}
}
