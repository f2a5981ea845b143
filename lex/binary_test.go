package lex

import (
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
)

func Test_TokenStream_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	ts, err := Lex("def f(a, b=1):\n    return a + b * 2.5 + 3j + \"text\" + b\"bytes\"\n")
	if !assert.NoError(err) {
		return
	}

	data := rezi.EncBinary(*ts)

	got := &TokenStream{}
	_, err = rezi.DecBinary(data, got)
	if !assert.NoError(err) {
		return
	}

	want := ts.Tokens()
	have := got.Tokens()
	if !assert.Equal(len(want), len(have)) {
		return
	}

	for i := range want {
		assert.Equal(want[i].Class.ID(), have[i].Class.ID(), "token %d class", i)
		assert.Equal(want[i].Lexeme, have[i].Lexeme, "token %d lexeme", i)
		assert.Equal(want[i].Line, have[i].Line, "token %d line", i)
		assert.Equal(want[i].Pos, have[i].Pos, "token %d pos", i)
		assert.Equal(want[i].StrVal, have[i].StrVal, "token %d str val", i)
		assert.Equal(want[i].FString, have[i].FString, "token %d fstring flag", i)

		if want[i].IntVal != nil {
			if assert.NotNil(have[i].IntVal, "token %d int val", i) {
				assert.Equal(0, want[i].IntVal.Cmp(have[i].IntVal), "token %d int val", i)
			}
		} else {
			assert.Nil(have[i].IntVal, "token %d int val", i)
		}
		assert.Equal(want[i].FloatVal, have[i].FloatVal, "token %d float val", i)
		assert.Equal(want[i].BytesVal, have[i].BytesVal, "token %d bytes val", i)
	}
}
