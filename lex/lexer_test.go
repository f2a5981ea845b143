package lex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func classIDs(ts *TokenStream) []string {
	var ids []string
	for _, tok := range ts.Tokens() {
		ids = append(ids, tok.Class.ID())
	}
	return ids
}

func Test_Lex_classSequences(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "simple assignment",
			input:  "x = 1\n",
			expect: []string{"name", "=", "int", "newline"},
		},
		{
			name:   "no trailing newline still ends the line",
			input:  "x",
			expect: []string{"name", "newline"},
		},
		{
			name:   "keywords are their own classes",
			input:  "pass\n",
			expect: []string{"pass", "newline"},
		},
		{
			name:   "indented block",
			input:  "if x:\n    a\n",
			expect: []string{"if", "name", ":", "newline", "indent", "name", "newline", "dedent"},
		},
		{
			name:   "nested blocks close together at end of text",
			input:  "if x:\n    if y:\n        a\n",
			expect: []string{"if", "name", ":", "newline", "indent", "if", "name", ":", "newline", "indent", "name", "newline", "dedent", "dedent"},
		},
		{
			name:   "blank lines produce no tokens",
			input:  "a\n\n\nb\n",
			expect: []string{"name", "newline", "name", "newline"},
		},
		{
			name:   "comment-only lines produce no tokens",
			input:  "a\n# comment\nb\n",
			expect: []string{"name", "newline", "name", "newline"},
		},
		{
			name:   "trailing comment ends with the line",
			input:  "a  # comment\n",
			expect: []string{"name", "newline"},
		},
		{
			name:   "implicit line joining inside brackets",
			input:  "f(1,\n   2)\n",
			expect: []string{"name", "(", "int", ",", "int", ")", "newline"},
		},
		{
			name:   "explicit backslash joining",
			input:  "a + \\\n  b\n",
			expect: []string{"name", "+", "name", "newline"},
		},
		{
			name:   "multi-rune operators use longest match",
			input:  "a **= b // c << 2\n",
			expect: []string{"name", "**=", "name", "//", "name", "<<", "int", "newline"},
		},
		{
			name:   "ellipsis is one token",
			input:  "...\n",
			expect: []string{"...", "newline"},
		},
		{
			name:   "arrow and colon in def header",
			input:  "def f() -> int: pass\n",
			expect: []string{"def", "name", "(", ")", "->", "name", ":", "pass", "newline"},
		},
		{
			name:   "adjacent strings are separate tokens",
			input:  `"a" "b"` + "\n",
			expect: []string{"string", "string", "newline"},
		},
		{
			name:   "semicolons separate small statements",
			input:  "a; b;\n",
			expect: []string{"name", ";", "name", ";", "newline"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ts, err := Lex(tc.input)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, classIDs(ts))
		})
	}
}

func Test_Lex_payloads(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		check  func(*assert.Assertions, Token)
	}{
		{
			name:  "decimal int",
			input: "42\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCInt, tok.Class)
				assert.Equal(0, tok.IntVal.Cmp(big.NewInt(42)))
			},
		},
		{
			name:  "int with separators",
			input: "1_000_000\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCInt, tok.Class)
				assert.Equal(0, tok.IntVal.Cmp(big.NewInt(1000000)))
			},
		},
		{
			name:  "hex int",
			input: "0xFF\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCInt, tok.Class)
				assert.Equal(0, tok.IntVal.Cmp(big.NewInt(255)))
			},
		},
		{
			name:  "binary int",
			input: "0b1010\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCInt, tok.Class)
				assert.Equal(0, tok.IntVal.Cmp(big.NewInt(10)))
			},
		},
		{
			name:  "integer larger than 64 bits",
			input: "123456789012345678901234567890\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCInt, tok.Class)
				expect, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
				assert.Equal(0, tok.IntVal.Cmp(expect))
			},
		},
		{
			name:  "float with exponent",
			input: "1.5e3\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCFloat, tok.Class)
				assert.Equal(1500.0, tok.FloatVal)
			},
		},
		{
			name:  "float with leading dot",
			input: ".5\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCFloat, tok.Class)
				assert.Equal(0.5, tok.FloatVal)
			},
		},
		{
			name:  "imaginary literal",
			input: "2j\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCComplex, tok.Class)
				assert.Equal(2.0, tok.FloatVal)
			},
		},
		{
			name:  "plain string decodes escapes",
			input: `"a\nb"` + "\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCString, tok.Class)
				assert.Equal("a\nb", tok.StrVal)
				assert.False(tok.FString)
			},
		},
		{
			name:  "raw string keeps escapes",
			input: `r"a\nb"` + "\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCString, tok.Class)
				assert.Equal(`a\nb`, tok.StrVal)
			},
		},
		{
			name:  "f-string sets the flag",
			input: `f"a{b}"` + "\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCString, tok.Class)
				assert.True(tok.FString)
				assert.Equal("a{b}", tok.StrVal)
			},
		},
		{
			name:  "bytes are a separate class",
			input: `b"a\x00b"` + "\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCBytes, tok.Class)
				assert.Equal([]byte{'a', 0, 'b'}, tok.BytesVal)
			},
		},
		{
			name:  "triple-quoted string spans lines",
			input: "\"\"\"a\nb\"\"\"\n",
			check: func(assert *assert.Assertions, tok Token) {
				assert.Equal(TCString, tok.Class)
				assert.Equal("a\nb", tok.StrVal)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ts, err := Lex(tc.input)
			if !assert.NoError(err) {
				return
			}

			tok := ts.Next()
			tc.check(assert, tok)
		})
	}
}

func Test_Lex_positions(t *testing.T) {
	assert := assert.New(t)

	ts, err := Lex("x = 1\n")
	if !assert.NoError(err) {
		return
	}

	toks := ts.Tokens()
	assert.Equal(1, toks[0].Line)
	assert.Equal(1, toks[0].Pos)
	assert.Equal(3, toks[1].Pos)
	assert.Equal(5, toks[2].Pos)
	assert.Equal("x = 1", toks[0].FullLine)
}

func Test_Lex_errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "mismatched dedent",
			input: "if x:\n        a\n    b\n",
		},
		{
			name:  "unterminated string",
			input: "\"abc\n",
		},
		{
			name:  "unterminated triple-quoted string",
			input: "\"\"\"abc\n",
		},
		{
			name:  "unexpected character",
			input: "a $ b\n",
		},
		{
			name:  "bare exclamation point",
			input: "a ! b\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Lex(tc.input)
			assert.Error(err)
			assert.IsType(SyntaxError{}, err)
		})
	}
}

func Test_Lex_identifierNormalization(t *testing.T) {
	assert := assert.New(t)

	// U+FB01 LATIN SMALL LIGATURE FI normalizes to "fi" under NFKC
	ts, err := Lex("\ufb01sh\n")
	if !assert.NoError(err) {
		return
	}

	tok := ts.Next()
	assert.Equal(TCName, tok.Class)
	assert.Equal("fish", tok.StrVal)
}
