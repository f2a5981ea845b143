package syntax

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Dump(t *testing.T) {
	testCases := []struct {
		name   string
		input  Node
		expect string
	}{
		{
			name:   "identifier",
			input:  Ident{Name: "spam"},
			expect: `IDENT "spam"`,
		},
		{
			name:   "int literal",
			input:  IntLit{Value: big.NewInt(28)},
			expect: "INT 28",
		},
		{
			name:  "binary op",
			input: BinOp{Op: OpBinaryAdd, Left: Ident{Name: "a"}, Right: IntLit{Value: big.NewInt(1)}},
			expect: "BIN-OP ADD\n" +
				`  IDENT "a"` + "\n" +
				"  INT 1",
		},
		{
			name:  "compare chain",
			input: Compare{Vals: []Expr{Ident{Name: "a"}, Ident{Name: "b"}}, Ops: []CompareOperation{OpCompareLess}},
			expect: "COMPARE LESS\n" +
				`  IDENT "a"` + "\n" +
				`  IDENT "b"`,
		},
		{
			name:   "pass statement",
			input:  PassStmt{},
			expect: "PASS",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Dump(tc.input))
		})
	}
}

func Test_Equal(t *testing.T) {
	assert := assert.New(t)

	a := BinOp{Op: OpBinaryAdd, Left: Ident{Name: "a"}, Right: Ident{Name: "b"}}
	same := BinOp{Op: OpBinaryAdd, Left: Ident{Name: "a"}, Right: Ident{Name: "b"}}
	differentOp := BinOp{Op: OpBinarySubtract, Left: Ident{Name: "a"}, Right: Ident{Name: "b"}}

	assert.True(Equal(a, same))
	assert.False(Equal(a, differentOp))
	assert.False(Equal(a, Ident{Name: "a"}))
	assert.True(Equal(nil, nil))
	assert.False(Equal(a, nil))
}

func Test_operatorSymbols(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("+", OpBinaryAdd.Symbol())
	assert.Equal("**", OpBinaryPower.Symbol())
	assert.Equal("not in", OpCompareNotIn.Symbol())
	assert.Equal("is not", OpCompareIsNot.Symbol())
	assert.Equal("//=", OpAugFloorDivide.Symbol())
	assert.Equal("not", OpUnaryNot.Symbol())
	assert.Equal("and", OpBoolAnd.Symbol())
}

func Test_Parameters_Empty(t *testing.T) {
	assert := assert.New(t)

	assert.True(Parameters{}.Empty())
	assert.False(Parameters{Args: []Param{{Name: "a"}}}.Empty())
	assert.False(Parameters{Vararg: Varargs{Kind: VarargsAnonymous}}.Empty())
}
