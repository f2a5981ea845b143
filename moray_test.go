package moray

import (
	"strings"
	"testing"

	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
	"github.com/stretchr/testify/assert"
)

func Test_Parse_topKinds(t *testing.T) {
	assert := assert.New(t)

	top, err := Parse("x = 1\n")
	if assert.NoError(err) {
		assert.Equal(syntax.TopProgram, top.Kind)
		assert.Len(top.Program.Statements, 1)
	}

	top, err = ParseStatement("x = 1\n")
	if assert.NoError(err) {
		assert.Equal(syntax.TopStatement, top.Kind)
		assert.Len(top.Statements, 1)
	}

	top, err = ParseExpression("x + 1")
	if assert.NoError(err) {
		assert.Equal(syntax.TopExpression, top.Kind)
		assert.NotNil(top.Expression)
	}
}

func Test_Parse_entryIdempotence(t *testing.T) {
	assert := assert.New(t)

	// parsing "x\n" as a statement and "x" as an expression must yield
	// structurally identical inner expressions
	stTop, err := ParseStatement("x\n")
	if !assert.NoError(err) {
		return
	}
	exTop, err := ParseExpression("x")
	if !assert.NoError(err) {
		return
	}

	exprStmt, ok := stTop.Statements[0].(syntax.ExprStmt)
	if !assert.True(ok, "statement is %T", stTop.Statements[0]) {
		return
	}

	assert.True(syntax.Equal(exprStmt.Value, exTop.Expression))
}

func Test_Parse_reader(t *testing.T) {
	assert := assert.New(t)

	top, err := ParseReader(strings.NewReader("a\nb\n"))
	if assert.NoError(err) {
		assert.Equal(syntax.TopProgram, top.Kind)
		assert.Len(top.Program.Statements, 2)
	}
}

func Test_Parse_syntaxErrorHasPosition(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("a = = 1\n")
	if !assert.Error(err) {
		return
	}

	synErr, ok := err.(lex.SyntaxError)
	if !assert.True(ok, "error is %T", err) {
		return
	}
	assert.Equal(1, synErr.Line)
	assert.NotEmpty(synErr.FullMessage())
}

func Test_Parse_blankProgram(t *testing.T) {
	assert := assert.New(t)

	top, err := Parse("\n\n# only a comment\n\n")
	if assert.NoError(err) {
		assert.Len(top.Program.Statements, 0)
	}
}
